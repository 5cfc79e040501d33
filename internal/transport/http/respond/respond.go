package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oms-labs/order-svc/internal/service/errs"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Error writes a JSON error with the given status.
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, errorBody{Error: message})
}

// NotFound writes the uniform not-found body used for both missing and
// not-owned resources.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "not found")
}

// AuditWarning reports whether err only signals a failed audit append after
// a committed mutation. The mutation itself succeeded, so the handler
// renders the success response; the failure is logged at warning level.
func AuditWarning(err error) bool {
	if errors.Is(err, errs.ErrAuditAppend) {
		slog.Warn("Order change persisted but audit append failed", "error", err)

		return true
	}

	return false
}

// DomainError maps a service error onto the HTTP taxonomy. Unexpected
// errors become a generic 500; their detail only reaches the log.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrInvalidState):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrAuthenticationFailed):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		NotFound(w)
	default:
		slog.Error("Unexpected error", "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
