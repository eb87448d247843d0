// Package respond escribe respuestas JSON y mapea errores de dominio a
// status HTTP.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details"`
}

type ForbiddenResponse struct {
	Error string `json:"error"`
	Date  string `json:"date,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Error: msg})
}

// Messages permite que cada handler elija el texto de 404/500 sin repetir el switch.
type Messages struct {
	NotFound string // ErrNotFound y ErrNotFoundOrConflict
	Internal string
}

// ServiceError traduce la taxonomía de internal/errs a HTTP:
// validación 400, not found / conflict 404, forbidden 403, resto 500.
// Sólo los 500 se loguean (con el request id de chi).
func ServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error, msgs Messages) {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		JSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: []FieldError{{Field: ve.Field, Message: ve.Reason}},
		})
		return
	}

	var fe *errs.ForbiddenError
	if errors.As(err, &fe) {
		JSON(w, http.StatusForbidden, ForbiddenResponse{Error: fe.Reason, Date: fe.Date})
		return
	}

	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrNotFoundOrConflict):
		Error(w, http.StatusNotFound, orDefault(msgs.NotFound, "Not found"))
	case errors.Is(err, errs.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	default:
		if log != nil {
			log.Error("request failed", map[string]any{
				"err":        err,
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": chimw.GetReqID(r.Context()),
			})
		}
		Error(w, http.StatusInternalServerError, orDefault(msgs.Internal, "Internal server error"))
	}
}

// DecodeJSON decodifica el body; un body inválido se reporta como 400.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		Error(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
