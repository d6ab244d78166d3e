package order

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Fallback texts substituted for empty optional fields in the notification.
const (
	fallbackNotProvided   = "No especificado"
	fallbackNoneSpecified = "Ninguna"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDateES renders a date in the site's display locale.
func FormatDateES(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// ComposeSubject builds the notification subject line, including the
// requester's name so the bakery inbox is scannable.
func ComposeSubject(r *Request) string {
	return fmt.Sprintf("Nuevo pedido de pastel personalizado - %s", r.Contact.Name)
}

// ComposeHTML builds the HTML notification embedding every form field.
// imageURL is appended as link plus inline preview only when non-empty,
// i.e. only when the media relay actually produced one.
func ComposeHTML(r *Request, imageURL string) string {
	var b strings.Builder

	b.WriteString("<h2>Nuevo pedido de pastel personalizado</h2>")

	b.WriteString("<h3>Contacto</h3>")
	writeRow(&b, "Nombre", r.Contact.Name)
	writeRow(&b, "Email", r.Contact.Email)
	writeRow(&b, "Teléfono", orFallback(r.Contact.Phone, fallbackNotProvided))

	b.WriteString("<h3>Evento</h3>")
	writeRow(&b, "Fecha de entrega", FormatDateES(r.Event.DeliveryDate))
	writeRow(&b, "Porciones", r.Event.Servings)
	writeRow(&b, "Tipo de evento", ChoiceValue(r.Event.EventType, r.Event.EventTypeOther))

	b.WriteString("<h3>Sabores</h3>")
	writeRow(&b, "Sabor del pastel", ChoiceValue(r.Flavors.CakeFlavor, r.Flavors.CakeFlavorOther))
	writeRow(&b, "Relleno", ChoiceValue(r.Flavors.Filling, r.Flavors.FillingOther))
	writeRow(&b, "Relleno adicional",
		orFallback(ChoiceValue(r.Flavors.ExtraFilling, r.Flavors.ExtraFillingOther), fallbackNoneSpecified))

	b.WriteString("<h3>Detalles</h3>")
	writeRow(&b, "Descripción", r.Brief.Description)
	writeRow(&b, "Texto en el pastel", orFallback(r.Brief.CakeText, fallbackNotProvided))
	writeRow(&b, "Alergias", orFallback(r.Brief.Allergies, fallbackNoneSpecified))

	if imageURL != "" {
		escaped := html.EscapeString(imageURL)
		b.WriteString("<h3>Imagen de referencia</h3>")
		b.WriteString(fmt.Sprintf(`<p><a href="%s">%s</a></p>`, escaped, escaped))
		b.WriteString(fmt.Sprintf(`<p><img src="%s" alt="Imagen de referencia" style="max-width:480px"/></p>`, escaped))
	}

	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>", label, html.EscapeString(value)))
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
