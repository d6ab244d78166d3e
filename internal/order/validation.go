package order

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	MinNameLength        = 2
	MinDescriptionLength = 20

	// MinLeadBusinessDays is the minimum lead time before a delivery date,
	// counted in business days (Mon-Fri).
	MinLeadBusinessDays = 3

	// MaxImageBytes caps the reference image at 5MB.
	MaxImageBytes = 5 << 20

	// OtherChoice is the free-text escape value for the choice fields.
	OtherChoice = "Otro"
)

// Preset choice lists. OtherChoice is always a valid member; when selected,
// the matching *Other field must carry the free text.
var (
	Servings = []string{"10-15", "15-25", "25-35", "35-50", "50+"}

	EventTypes = []string{
		"Cumpleaños", "Boda", "Aniversario", "Baby Shower", "Corporativo", OtherChoice,
	}

	CakeFlavors = []string{
		"Vainilla", "Chocolate", "Red Velvet", "Zanahoria", "Limón", OtherChoice,
	}

	Fillings = []string{
		"Crema de mantequilla", "Ganache de chocolate", "Dulce de leche",
		"Frutos rojos", "Crema de queso", OtherChoice,
	}
)

// AllowedImageTypes is the accepted MIME set for the reference image.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// FieldError annotates a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every invalid field of one submission attempt.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the full request against the schema. It returns nil when
// the request may be submitted; otherwise every offending field is reported.
func (r *Request) Validate(now time.Time) ValidationErrors {
	var errs ValidationErrors

	if len(strings.TrimSpace(r.Contact.Name)) < MinNameLength {
		errs = append(errs, FieldError{FieldName, fmt.Sprintf("name must be at least %d characters", MinNameLength)})
	}

	if strings.TrimSpace(r.Contact.Email) == "" {
		errs = append(errs, FieldError{FieldEmail, "email is required"})
	} else if _, err := mail.ParseAddress(r.Contact.Email); err != nil {
		errs = append(errs, FieldError{FieldEmail, "email address is not valid"})
	}

	if r.Event.DeliveryDate.IsZero() {
		errs = append(errs, FieldError{FieldDeliveryDate, "delivery date is required"})
	} else if dateOnly(r.Event.DeliveryDate).Before(MinDeliveryDate(now)) {
		errs = append(errs, FieldError{FieldDeliveryDate,
			fmt.Sprintf("delivery date must be at least %d business days from today", MinLeadBusinessDays)})
	}

	if !contains(Servings, r.Event.Servings) {
		errs = append(errs, FieldError{FieldServings, "servings must be one of the preset ranges"})
	}

	errs = append(errs, validateChoice(FieldEventType, r.Event.EventType, r.Event.EventTypeOther, EventTypes, true)...)
	errs = append(errs, validateChoice(FieldCakeFlavor, r.Flavors.CakeFlavor, r.Flavors.CakeFlavorOther, CakeFlavors, true)...)
	errs = append(errs, validateChoice(FieldFilling, r.Flavors.Filling, r.Flavors.FillingOther, Fillings, true)...)
	errs = append(errs, validateChoice(FieldExtraFilling, r.Flavors.ExtraFilling, r.Flavors.ExtraFillingOther, Fillings, false)...)

	if len(strings.TrimSpace(r.Brief.Description)) < MinDescriptionLength {
		errs = append(errs, FieldError{FieldDescription,
			fmt.Sprintf("description must be at least %d characters", MinDescriptionLength)})
	}

	if !r.Consent {
		errs = append(errs, FieldError{FieldConsent, "consent is required to submit an order"})
	}

	return errs
}

// Validate checks the optional attachment constraints. A nil image is valid.
func (img *ReferenceImage) Validate() ValidationErrors {
	if img == nil || len(img.Data) == 0 {
		return nil
	}

	var errs ValidationErrors
	if len(img.Data) > MaxImageBytes {
		errs = append(errs, FieldError{FieldImage, "image must be 5MB or smaller"})
	}
	if !AllowedImageTypes[img.ContentType] {
		errs = append(errs, FieldError{FieldImage, "image must be jpeg, png, webp or gif"})
	}
	return errs
}

// MinDeliveryDate returns the earliest acceptable delivery date: the given
// moment advanced by the business-day lead time, at date granularity.
func MinDeliveryDate(now time.Time) time.Time {
	d := dateOnly(now)
	remaining := MinLeadBusinessDays
	for remaining > 0 {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return d
}

// ChoiceValue resolves a choice field to its display value, substituting the
// free text when the escape value was selected.
func ChoiceValue(value, other string) string {
	if value == OtherChoice && strings.TrimSpace(other) != "" {
		return strings.TrimSpace(other)
	}
	return value
}

func validateChoice(field, value, other string, presets []string, required bool) ValidationErrors {
	if strings.TrimSpace(value) == "" {
		if required {
			return ValidationErrors{{field, "a choice is required"}}
		}
		return nil
	}
	if !contains(presets, value) {
		return ValidationErrors{{field, "choice is not one of the presets"}}
	}
	if value == OtherChoice && strings.TrimSpace(other) == "" {
		return ValidationErrors{{field + "Other", "please describe your choice"}}
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
