// Package intake is the form-side half of the order workflow: it validates
// an order against the shared schema, serializes it into the multipart
// payload the relay expects, submits it with at most one request in flight,
// and performs the optional WhatsApp handoff after a successful send.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"sync/atomic"
	"time"

	"bakery-storefront/internal/common/httpclient"
	"bakery-storefront/internal/common/logger"
	"bakery-storefront/internal/order"
)

// ErrSubmissionInFlight is returned while an earlier submission is still
// outstanding; the trigger controls stay disabled until it completes.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// IncompleteFormError blocks the WhatsApp handoff intent with its own
// user-facing message; the per-field annotations ride along.
type IncompleteFormError struct {
	Fields order.ValidationErrors
}

func (e *IncompleteFormError) Error() string {
	return "complete the required fields before sharing your order on WhatsApp"
}

// ServerError carries the relay's message verbatim; it is already
// human-readable by contract.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// OpenFunc opens a URL in a new browsing context.
type OpenFunc func(url string) error

// Outcome reports a successful submission.
type Outcome struct {
	Message     string
	WhatsAppURL string
	// ImageNote is set when the handoff intent carried an attachment: a deep
	// link cannot transport binary payloads, so the user must re-attach the
	// image in the chat.
	ImageNote string
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Client struct {
	endpoint       string
	whatsappNumber string
	http           *httpclient.Client
	open           OpenFunc
	logger         logger.Logger
	inFlight       atomic.Bool
}

func NewClient(endpoint, whatsappNumber string, open OpenFunc, log logger.Logger) *Client {
	return &Client{
		endpoint:       endpoint,
		whatsappNumber: whatsappNumber,
		http:           httpclient.NewClient(60 * time.Second),
		open:           open,
		logger:         log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// Submit validates and sends one order. Both intents share the full schema
// check; nothing leaves the client while any field is invalid. Resubmitting
// after a failure deliberately creates new downstream side effects: the
// relay offers no idempotence.
func (c *Client) Submit(ctx context.Context, req *order.Request, img *order.ReferenceImage, intent order.Intent) (*Outcome, error) {
	errs := req.Validate(time.Now())
	errs = append(errs, img.Validate()...)
	if len(errs) > 0 {
		if intent == order.IntentEmailAndWhatsApp {
			return nil, &IncompleteFormError{Fields: errs}
		}
		return nil, errs
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	body, contentType, err := buildPayload(req, img)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &ServerError{Message: "The order could not be sent. Check your connection and try again."}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil {
		return nil, &ServerError{Message: "The order could not be sent. Please try again."}
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		return nil, &ServerError{Message: env.Message}
	}

	outcome := &Outcome{Message: env.Message}
	if intent == order.IntentEmailAndWhatsApp {
		outcome.WhatsAppURL = order.WhatsAppLink(c.whatsappNumber, req)
		if img != nil && len(img.Data) > 0 {
			outcome.ImageNote = "Please attach your reference image again in the chat; the link cannot carry it."
		}
		if c.open != nil {
			if err := c.open(outcome.WhatsAppURL); err != nil {
				c.logger.WithError(err).Warn("whatsapp handoff could not be opened", nil)
			}
		}
	}
	return outcome, nil
}

// buildPayload serializes the order into the relay's multipart contract:
// scalars as strings, the date as ISO 8601, consent as a boolean string and
// the file with filename and content type preserved.
func buildPayload(req *order.Request, img *order.ReferenceImage) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		order.FieldName:              req.Contact.Name,
		order.FieldEmail:             req.Contact.Email,
		order.FieldPhone:             req.Contact.Phone,
		order.FieldDeliveryDate:      req.Event.DeliveryDate.Format(order.DateFormat),
		order.FieldServings:          req.Event.Servings,
		order.FieldEventType:         req.Event.EventType,
		order.FieldEventTypeOther:    req.Event.EventTypeOther,
		order.FieldCakeFlavor:        req.Flavors.CakeFlavor,
		order.FieldCakeFlavorOther:   req.Flavors.CakeFlavorOther,
		order.FieldFilling:           req.Flavors.Filling,
		order.FieldFillingOther:      req.Flavors.FillingOther,
		order.FieldExtraFilling:      req.Flavors.ExtraFilling,
		order.FieldExtraFillingOther: req.Flavors.ExtraFillingOther,
		order.FieldDescription:       req.Brief.Description,
		order.FieldCakeText:          req.Brief.CakeText,
		order.FieldAllergies:         req.Brief.Allergies,
		order.FieldConsent:           strconv.FormatBool(req.Consent),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if img != nil && len(img.Data) > 0 {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, order.FieldImage, img.Filename))
		header.Set("Content-Type", img.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
