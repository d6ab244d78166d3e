package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func validRequest() Request {
	return Request{
		Contact: Contact{
			Name:  "María López",
			Email: "maria@example.com",
			Phone: "555 123 4567",
		},
		Event: EventDetails{
			DeliveryDate: MinDeliveryDate(time.Now()).AddDate(0, 0, 7),
			Servings:     "15-25",
			EventType:    "Cumpleaños",
		},
		Flavors: FlavorChoice{
			CakeFlavor: "Chocolate",
			Filling:    "Dulce de leche",
		},
		Brief: CreativeBrief{
			Description: "Pastel de dos pisos con flores azules y blancas.",
		},
		Consent: true,
	}
}

func hasField(errs ValidationErrors, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ==========================
// Request Validation Tests
// ==========================

func TestValidate_ValidRequest(t *testing.T) {
	req := validRequest()
	errs := req.Validate(time.Now())
	assert.Empty(t, errs)
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *Request)
		wantField string
	}{
		{"name too short", func(r *Request) { r.Contact.Name = "A" }, FieldName},
		{"name missing", func(r *Request) { r.Contact.Name = "" }, FieldName},
		{"email missing", func(r *Request) { r.Contact.Email = "" }, FieldEmail},
		{"email invalid", func(r *Request) { r.Contact.Email = "not-an-email" }, FieldEmail},
		{"date missing", func(r *Request) { r.Event.DeliveryDate = time.Time{} }, FieldDeliveryDate},
		{"date in the past", func(r *Request) { r.Event.DeliveryDate = time.Now().AddDate(0, 0, -1) }, FieldDeliveryDate},
		{"date inside lead time", func(r *Request) { r.Event.DeliveryDate = time.Now().AddDate(0, 0, 1) }, FieldDeliveryDate},
		{"servings not a preset", func(r *Request) { r.Event.Servings = "12" }, FieldServings},
		{"event type missing", func(r *Request) { r.Event.EventType = "" }, FieldEventType},
		{"event type not a preset", func(r *Request) { r.Event.EventType = "Graduación" }, FieldEventType},
		{"cake flavor missing", func(r *Request) { r.Flavors.CakeFlavor = "" }, FieldCakeFlavor},
		{"filling missing", func(r *Request) { r.Flavors.Filling = "" }, FieldFilling},
		{"extra filling not a preset", func(r *Request) { r.Flavors.ExtraFilling = "Mermelada casera" }, FieldExtraFilling},
		{"description too short", func(r *Request) { r.Brief.Description = "Un pastel" }, FieldDescription},
		{"consent not given", func(r *Request) { r.Consent = false }, FieldConsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			errs := req.Validate(time.Now())
			require.NotEmpty(t, errs)
			assert.True(t, hasField(errs, tt.wantField), "expected error on field %q, got %v", tt.wantField, errs)
		})
	}
}

func TestValidate_OtherEscapeRequiresText(t *testing.T) {
	req := validRequest()
	req.Event.EventType = OtherChoice

	errs := req.Validate(time.Now())
	require.NotEmpty(t, errs)
	assert.True(t, hasField(errs, FieldEventTypeOther))

	req.Event.EventTypeOther = "Pedida de mano"
	assert.Empty(t, req.Validate(time.Now()))
}

func TestValidate_OptionalFieldsMayBeEmpty(t *testing.T) {
	req := validRequest()
	req.Contact.Phone = ""
	req.Brief.CakeText = ""
	req.Brief.Allergies = ""
	req.Flavors.ExtraFilling = ""

	assert.Empty(t, req.Validate(time.Now()))
}

func TestValidate_CollectsEveryInvalidField(t *testing.T) {
	req := validRequest()
	req.Contact.Name = ""
	req.Contact.Email = "nope"
	req.Consent = false

	errs := req.Validate(time.Now())
	require.Len(t, errs, 3)
	assert.True(t, hasField(errs, FieldName))
	assert.True(t, hasField(errs, FieldEmail))
	assert.True(t, hasField(errs, FieldConsent))
}

// ==========================
// Reference Image Tests
// ==========================

func TestReferenceImage_Validate(t *testing.T) {
	t.Run("nil image is valid", func(t *testing.T) {
		var img *ReferenceImage
		assert.Empty(t, img.Validate())
	})

	t.Run("small png is valid", func(t *testing.T) {
		img := &ReferenceImage{Filename: "cake.png", ContentType: "image/png", Data: make([]byte, 1<<20)}
		assert.Empty(t, img.Validate())
	})

	t.Run("oversize image is rejected", func(t *testing.T) {
		img := &ReferenceImage{Filename: "cake.jpg", ContentType: "image/jpeg", Data: make([]byte, 6<<20)}
		errs := img.Validate()
		require.NotEmpty(t, errs)
		assert.True(t, hasField(errs, FieldImage))
	})

	t.Run("disallowed mime type is rejected", func(t *testing.T) {
		img := &ReferenceImage{Filename: "cake.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
		errs := img.Validate()
		require.NotEmpty(t, errs)
	})
}

// ==========================
// Date Policy Tests
// ==========================

func TestMinDeliveryDate_SkipsWeekends(t *testing.T) {
	// Friday 2026-09-04 + 3 business days = Wednesday 2026-09-09
	friday := time.Date(2026, 9, 4, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), MinDeliveryDate(friday))

	// Monday 2026-08-31 + 3 business days = Thursday 2026-09-03
	monday := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), MinDeliveryDate(monday))
}

func TestChoiceValue(t *testing.T) {
	assert.Equal(t, "Chocolate", ChoiceValue("Chocolate", ""))
	assert.Equal(t, "Pistache", ChoiceValue(OtherChoice, "Pistache"))
	assert.Equal(t, OtherChoice, ChoiceValue(OtherChoice, "  "))
}
