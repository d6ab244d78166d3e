// Package order holds the custom cake order intake model shared by the
// client-side intake controller and the server-side relay: the request
// schema, its validation rules, the notification composer and the WhatsApp
// handoff link builder.
package order

import "time"

// Request is the canonical order entity. It is never persisted: an instance
// lives for exactly one submission attempt.
type Request struct {
	Contact Contact
	Event   EventDetails
	Flavors FlavorChoice
	Brief   CreativeBrief
	Consent bool
}

type Contact struct {
	Name  string
	Email string
	Phone string // optional free text
}

type EventDetails struct {
	DeliveryDate time.Time
	Servings     string
	EventType    string
	// EventTypeOther carries the free text when EventType is "Otro".
	EventTypeOther string
}

type FlavorChoice struct {
	CakeFlavor      string
	CakeFlavorOther string
	Filling         string
	FillingOther    string
	// ExtraFilling is the optional second filling.
	ExtraFilling      string
	ExtraFillingOther string
}

type CreativeBrief struct {
	Description string
	CakeText    string // optional text written on the cake
	Allergies   string // optional
}

// ReferenceImage is the optional binary attachment sent with an order.
type ReferenceImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Intent is the user's chosen delivery channel for the order notification.
type Intent string

const (
	IntentEmailOnly        Intent = "email"
	IntentEmailAndWhatsApp Intent = "email+whatsapp"
)

// Multipart field names, shared by the intake payload builder and the relay
// handler so the two sides cannot drift apart.
const (
	FieldName              = "name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldDeliveryDate      = "deliveryDate"
	FieldServings          = "servings"
	FieldEventType         = "eventType"
	FieldEventTypeOther    = "eventTypeOther"
	FieldCakeFlavor        = "cakeFlavor"
	FieldCakeFlavorOther   = "cakeFlavorOther"
	FieldFilling           = "filling"
	FieldFillingOther      = "fillingOther"
	FieldExtraFilling      = "extraFilling"
	FieldExtraFillingOther = "extraFillingOther"
	FieldDescription       = "description"
	FieldCakeText          = "cakeText"
	FieldAllergies         = "allergies"
	FieldConsent           = "consent"
	FieldImage             = "image"
)

// DateFormat is the wire format for the delivery date (ISO 8601 date).
const DateFormat = "2006-01-02"
