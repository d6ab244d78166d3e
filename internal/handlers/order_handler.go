package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	stderrors "bakery-storefront/internal/common/errors"
	"bakery-storefront/internal/common/logger"
	"bakery-storefront/internal/order"
	"bakery-storefront/internal/relay"
)

// maxRequestBytes bounds the whole multipart body: the 5MB image plus
// generous headroom for the text fields.
const maxRequestBytes = 8 << 20

// OrderResponse is the uniform envelope for the order relay endpoint.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OrderHandler struct {
	service *relay.Service
	logger  logger.Logger
}

func NewOrderHandler(service *relay.Service, log logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "order"}),
	}
}

// SubmitOrder handles POST /api/order. Every failure category answers with
// HTTP 500 and a message that is safe to show to the end user; details stay
// in the server logs.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	if err := r.ParseMultipartForm(maxRequestBytes); err != nil {
		h.logger.WithError(err).Warn("order payload could not be parsed", nil)
		writeJSON(w, http.StatusInternalServerError, OrderResponse{
			Success: false,
			Message: "The order could not be read. Check the attached image size and try again.",
		})
		return
	}

	sub := &relay.Submission{Request: requestFromForm(r)}

	img, err := imageFromForm(r)
	if err != nil {
		h.logger.WithError(err).Warn("reference image could not be read", nil)
		writeJSON(w, http.StatusInternalServerError, OrderResponse{
			Success: false,
			Message: "The attached image could not be read. Please try again.",
		})
		return
	}
	sub.Image = img

	result, err := h.service.Process(r.Context(), sub)
	if err != nil {
		h.logger.WithError(err).Error("order relay failed", map[string]interface{}{
			"errorCode": string(stderrors.CodeOf(err)),
		})
		writeJSON(w, http.StatusInternalServerError, OrderResponse{
			Success: false,
			Message: stderrors.UserMessage(err),
		})
		return
	}

	h.logger.Info("order accepted", map[string]interface{}{"reference": result.Reference})
	writeJSON(w, http.StatusOK, OrderResponse{Success: true, Message: result.Message})
}

func requestFromForm(r *http.Request) order.Request {
	req := order.Request{
		Contact: order.Contact{
			Name:  r.FormValue(order.FieldName),
			Email: r.FormValue(order.FieldEmail),
			Phone: r.FormValue(order.FieldPhone),
		},
		Event: order.EventDetails{
			Servings:       r.FormValue(order.FieldServings),
			EventType:      r.FormValue(order.FieldEventType),
			EventTypeOther: r.FormValue(order.FieldEventTypeOther),
		},
		Flavors: order.FlavorChoice{
			CakeFlavor:        r.FormValue(order.FieldCakeFlavor),
			CakeFlavorOther:   r.FormValue(order.FieldCakeFlavorOther),
			Filling:           r.FormValue(order.FieldFilling),
			FillingOther:      r.FormValue(order.FieldFillingOther),
			ExtraFilling:      r.FormValue(order.FieldExtraFilling),
			ExtraFillingOther: r.FormValue(order.FieldExtraFillingOther),
		},
		Brief: order.CreativeBrief{
			Description: r.FormValue(order.FieldDescription),
			CakeText:    r.FormValue(order.FieldCakeText),
			Allergies:   r.FormValue(order.FieldAllergies),
		},
	}

	if d, err := time.Parse(order.DateFormat, r.FormValue(order.FieldDeliveryDate)); err == nil {
		req.Event.DeliveryDate = d
	}
	if consent, err := strconv.ParseBool(r.FormValue(order.FieldConsent)); err == nil {
		req.Consent = consent
	}
	return req
}

func imageFromForm(r *http.Request) (*order.ReferenceImage, error) {
	file, header, err := r.FormFile(order.FieldImage)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &order.ReferenceImage{
		Filename:    header.Filename,
		ContentType: partContentType(header),
		Data:        data,
	}, nil
}

func partContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
