package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"sharedliving/internal/domain"
)

// statusFor maps a service error to its HTTP status and envelope code. Unknown errors map to 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrLastAdmin):
		return http.StatusBadRequest, ErrCodeLastAdminViolation
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrGone):
		return http.StatusGone, ErrCodeGone
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// WriteServiceError writes the error envelope for err. Domain errors are returned verbatim;
// anything else is logged with the request context and answered with a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "internal server error")
		return
	}
	WriteJSONError(w, status, code, err.Error())
}
