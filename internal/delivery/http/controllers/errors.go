package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// MessageResponse is the data payload of endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeServiceError maps a service error to its HTTP status and error code.
// Unrecognised errors are logged and answered with a generic 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeInvalidCredentials, "invalid credentials")
	case errors.Is(err, domain.ErrAccountNotVerified):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeAccountNotVerified, "account not verified, please verify your account first")
	case errors.Is(err, domain.ErrInvalidCode):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeInvalidCode, "invalid verification code")
	case errors.Is(err, domain.ErrUnauthenticated):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "you are not allowed to perform this action")
	case domain.IsConflict(err):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeConflict, err.Error())
	case domain.IsNotFound(err):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "correlation_id", domain.CorrelationIDFromContext(r.Context()), "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}
