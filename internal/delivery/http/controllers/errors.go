package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	h "eventreg/internal/delivery/http/helpers"
	"eventreg/internal/domain"
)

// writeServiceError maps a service error onto the response envelope. Unknown
// errors are logged and reported as internal without leaking storage detail.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, ve.Error())
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only an admin or the event owner may do this")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, domain.ErrAlreadyRegistered.Error())
	case errors.Is(err, domain.ErrNotRegistered):
		h.WriteJSONError(w, http.StatusUnprocessableEntity, h.ErrCodeInvalidState, domain.ErrNotRegistered.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, domain.ErrInvalidCredentials.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "something went wrong")
	}
}

// eventIDFromPath parses the {id} path value. A non-numeric id is reported
// as not found without consulting the store.
func eventIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		return 0, false
	}
	return id, true
}
