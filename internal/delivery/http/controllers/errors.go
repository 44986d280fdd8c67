package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

// writeServiceError maps domain sentinel errors to HTTP responses.
// Anything unmapped is logged and answered with a 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrEventNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateRSVP),
		errors.Is(err, domain.ErrCapacityFull),
		errors.Is(err, domain.ErrNotWaitlisted):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		// Transient: the whole operation is safe to retry.
		h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeUnavailable, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
