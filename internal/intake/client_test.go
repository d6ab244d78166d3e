package intake_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bakery-storefront/internal/common/logger"
	"bakery-storefront/internal/intake"
	"bakery-storefront/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func validRequest() *order.Request {
	return &order.Request{
		Contact: order.Contact{Name: "María López", Email: "maria@example.com"},
		Event: order.EventDetails{
			DeliveryDate: order.MinDeliveryDate(time.Now()).AddDate(0, 0, 7),
			Servings:     "10-15",
			EventType:    "Baby Shower",
		},
		Flavors: order.FlavorChoice{CakeFlavor: "Vainilla", Filling: "Frutos rojos"},
		Brief:   order.CreativeBrief{Description: "Pastel con osos de azúcar y nubes de merengue."},
		Consent: true,
	}
}

type openRecorder struct {
	mu   sync.Mutex
	urls []string
}

func (o *openRecorder) open(u string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, u)
	return nil
}

func (o *openRecorder) opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.urls
}

func successServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Your order was sent."}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ==========================
// Validation Gate Tests
// ==========================

func TestSubmit_InvalidFormBlocksEmailIntent(t *testing.T) {
	var hits atomic.Int32
	srv := successServer(t, &hits)
	c := intake.NewClient(srv.URL, "5215512345678", nil, logger.NewTestLogger(t))

	req := validRequest()
	req.Contact.Email = "nope"

	_, err := c.Submit(context.Background(), req, nil, order.IntentEmailOnly)
	require.Error(t, err)

	var fieldErrs order.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, order.FieldEmail, fieldErrs[0].Field)
	assert.Zero(t, hits.Load(), "invalid submission must never leave the client")
}

func TestSubmit_InvalidFormBlocksWhatsAppIntentWithDistinctMessage(t *testing.T) {
	var hits atomic.Int32
	srv := successServer(t, &hits)
	c := intake.NewClient(srv.URL, "5215512345678", nil, logger.NewTestLogger(t))

	req := validRequest()
	req.Consent = false

	_, err := c.Submit(context.Background(), req, nil, order.IntentEmailAndWhatsApp)
	require.Error(t, err)

	var incomplete *intake.IncompleteFormError
	require.True(t, errors.As(err, &incomplete))
	assert.Contains(t, err.Error(), "complete the required fields")
	assert.NotEmpty(t, incomplete.Fields)
	assert.Zero(t, hits.Load())
}

func TestSubmit_OversizeImageRejectedBeforeSubmission(t *testing.T) {
	var hits atomic.Int32
	srv := successServer(t, &hits)
	c := intake.NewClient(srv.URL, "5215512345678", nil, logger.NewTestLogger(t))

	img := &order.ReferenceImage{Filename: "huge.jpg", ContentType: "image/jpeg", Data: make([]byte, 6<<20)}

	_, err := c.Submit(context.Background(), validRequest(), img, order.IntentEmailOnly)
	require.Error(t, err)
	assert.Zero(t, hits.Load(), "oversize attachment must be rejected client-side")
}

// ==========================
// Payload Tests
// ==========================

func TestSubmit_SerializesMultipartPayload(t *testing.T) {
	var (
		gotFields map[string]string
		gotFile   struct {
			name, contentType, content string
		}
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(8<<20))

		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}

		file, header, err := r.FormFile(order.FieldImage)
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		gotFile.name = header.Filename
		gotFile.contentType = header.Header.Get("Content-Type")
		gotFile.content = string(content)

		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	c := intake.NewClient(srv.URL, "5215512345678", nil, logger.NewTestLogger(t))
	req := validRequest()
	img := &order.ReferenceImage{Filename: "ref.webp", ContentType: "image/webp", Data: []byte("webp-bytes")}

	_, err := c.Submit(context.Background(), req, img, order.IntentEmailOnly)
	require.NoError(t, err)

	assert.Equal(t, req.Contact.Name, gotFields[order.FieldName])
	assert.Equal(t, req.Contact.Email, gotFields[order.FieldEmail])
	assert.Equal(t, req.Event.DeliveryDate.Format("2006-01-02"), gotFields[order.FieldDeliveryDate])
	assert.Equal(t, "true", gotFields[order.FieldConsent])
	assert.Equal(t, req.Event.Servings, gotFields[order.FieldServings])

	assert.Equal(t, "ref.webp", gotFile.name)
	assert.Equal(t, "image/webp", gotFile.contentType)
	assert.Equal(t, "webp-bytes", gotFile.content)
}

// ==========================
// Intent Tests
// ==========================

func TestSubmit_EmailOnlyDoesNotOpenWhatsApp(t *testing.T) {
	srv := successServer(t, nil)
	rec := &openRecorder{}
	c := intake.NewClient(srv.URL, "5215512345678", rec.open, logger.NewTestLogger(t))

	outcome, err := c.Submit(context.Background(), validRequest(), nil, order.IntentEmailOnly)
	require.NoError(t, err)
	assert.Equal(t, "Your order was sent.", outcome.Message)
	assert.Empty(t, outcome.WhatsAppURL)
	assert.Empty(t, rec.opened())
}

func TestSubmit_WhatsAppHandoffOpensDeepLink(t *testing.T) {
	srv := successServer(t, nil)
	rec := &openRecorder{}
	c := intake.NewClient(srv.URL, "5215512345678", rec.open, logger.NewTestLogger(t))

	req := validRequest()
	img := &order.ReferenceImage{Filename: "ref.png", ContentType: "image/png", Data: []byte("png")}

	outcome, err := c.Submit(context.Background(), req, img, order.IntentEmailAndWhatsApp)
	require.NoError(t, err)

	opened := rec.opened()
	require.Len(t, opened, 1)
	assert.Equal(t, outcome.WhatsAppURL, opened[0])
	assert.True(t, strings.HasPrefix(opened[0], "https://wa.me/5215512345678?text="))

	parsed, err := url.Parse(opened[0])
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Contains(t, text, req.Contact.Name)
	assert.Contains(t, text, order.FormatDateES(req.Event.DeliveryDate))

	// deep links cannot carry the attachment
	assert.NotEmpty(t, outcome.ImageNote)
}

// ==========================
// Failure Handling Tests
// ==========================

func TestSubmit_ServerMessageSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"smtp down"}`))
	}))
	t.Cleanup(srv.Close)

	c := intake.NewClient(srv.URL, "5215512345678", nil, logger.NewTestLogger(t))

	_, err := c.Submit(context.Background(), validRequest(), nil, order.IntentEmailOnly)
	require.Error(t, err)

	var srvErr *intake.ServerError
	require.True(t, errors.As(err, &srvErr))
	assert.Equal(t, "smtp down", srvErr.Message)
}

func TestSubmit_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	c := intake.NewClient(srv.URL, "5215512345678", nil, logger.NewTestLogger(t))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), validRequest(), nil, order.IntentEmailOnly)
		done <- err
	}()

	<-entered
	_, err := c.Submit(context.Background(), validRequest(), nil, order.IntentEmailOnly)
	assert.ErrorIs(t, err, intake.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
}
