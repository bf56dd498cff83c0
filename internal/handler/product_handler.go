package handler

import (
	"net/http"
	"strconv"

	"dscatalog/internal/model"
	"dscatalog/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// FindAll handles GET /api/products?page=&size=&sort= requests.
func (h *ProductHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), nil, h.logger)
		return
	}

	page, err := h.service.FindAllPaged(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// FindByID handles GET /api/products/{id} requests.
func (h *ProductHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), nil, h.logger)
		return
	}

	product, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Insert handles POST /api/products requests.
func (h *ProductHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := decodeJSON(w, r, &product); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, h.logger)
		return
	}

	created, err := h.service.Insert(r.Context(), &product)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", "/api/products/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), nil, h.logger)
		return
	}

	var product model.Product
	if err := decodeJSON(w, r, &product); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &product)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), nil, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
