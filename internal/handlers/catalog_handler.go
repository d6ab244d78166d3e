package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"bakery-storefront/internal/catalog"
	"bakery-storefront/internal/common/logger"
)

type CatalogHandler struct {
	service *catalog.Service
	logger  logger.Logger
}

func NewCatalogHandler(service *catalog.Service, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"handler": "catalog"}),
	}
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "products", h.service.Products)
}

// ListCourses handles GET /api/courses.
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "courses", h.service.Courses)
}

func (h *CatalogHandler) proxy(w http.ResponseWriter, r *http.Request, name string, fetch func(context.Context) (json.RawMessage, error)) {
	raw, err := fetch(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("catalog fetch failed", map[string]interface{}{"catalog": name})
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "The catalog is temporarily unavailable.",
		})
		return
	}
	writeRaw(w, http.StatusOK, raw)
}
