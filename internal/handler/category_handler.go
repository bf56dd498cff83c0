package handler

import (
	"net/http"
	"strconv"

	"dscatalog/internal/model"
	"dscatalog/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// FindAll handles GET /api/categories requests.
func (h *CategoryHandler) FindAll(w http.ResponseWriter, r *http.Request) {
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

// FindByID handles GET /api/categories/{id} requests.
func (h *CategoryHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), nil, h.logger)
		return
	}

	category, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Insert handles POST /api/categories requests.
func (h *CategoryHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if err := decodeJSON(w, r, &category); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, h.logger)
		return
	}

	created, err := h.service.Insert(r.Context(), &category)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", "/api/categories/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/categories/{id} requests.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), nil, h.logger)
		return
	}

	var category model.Category
	if err := decodeJSON(w, r, &category); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &category)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/categories/{id} requests. A category still
// referenced by products is an integrity violation.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
