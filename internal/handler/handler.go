package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dscatalog/internal/middleware"
	"dscatalog/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields []model.FieldError, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Timestamp:     time.Now().UTC(),
		Status:        status,
		Error:         code,
		Message:       message,
		Path:          r.URL.Path,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
		Errors:        fields,
	})
}

// writeServiceError maps a service error onto an HTTP error response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	domainErr, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", nil, logger)
		return
	}

	switch domainErr.Code {
	case model.ErrCodeResourceNotFound:
		writeError(w, r, http.StatusNotFound, domainErr.Code, domainErr.Message, nil, logger)
	case model.ErrCodeIntegrityViolation:
		writeError(w, r, http.StatusBadRequest, domainErr.Code, domainErr.Message, nil, logger)
	case model.ErrCodeValidation:
		writeError(w, r, http.StatusUnprocessableEntity, domainErr.Code, domainErr.Message, domainErr.Fields, logger)
	default:
		writeError(w, r, http.StatusBadRequest, domainErr.Code, domainErr.Message, domainErr.Fields, logger)
	}
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id: " + raw)
	}
	return id, nil
}

// parsePageRequest reads page, size and sort query parameters. sort may be
// repeated, e.g. ?sort=name,asc&sort=price,desc.
func parsePageRequest(r *http.Request) (model.PageRequest, error) {
	query := r.URL.Query()
	req := model.PageRequest{Page: 0, Size: model.DefaultPageSize}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("invalid page parameter")
		}
		req.Page = page
	}

	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("invalid size parameter")
		}
		req.Size = size
	}

	for _, expr := range query["sort"] {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		order, err := model.ParseSort(expr)
		if err != nil {
			return req, err
		}
		req.Sort = append(req.Sort, order)
	}

	return req, nil
}

// decodeJSON decodes a size-limited request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
