package order

import (
	"fmt"
	"net/url"
)

// WhatsAppLink builds the wa.me deep link for the chat handoff intent,
// pre-filled with a human-readable order summary. Deep links cannot carry
// binary payloads, so the reference image is only mentioned: the user has to
// re-attach it in the chat.
func WhatsAppLink(number string, r *Request) string {
	text := fmt.Sprintf(
		"¡Hola! Soy %s. Acabo de enviar un pedido de pastel personalizado para el %s. Los detalles completos van en el correo.",
		r.Contact.Name, FormatDateES(r.Event.DeliveryDate),
	)
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text))
}
