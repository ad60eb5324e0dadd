package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/employee-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PaginatedEmployeesEnvelope wraps paginated employee list responses.
// NextCursor is opaque; pass it back as ?cursor= to fetch the next page.
type PaginatedEmployeesEnvelope struct {
	Data       []domain.Employee `json:"data"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// respondError maps domain sentinel errors onto the HTTP contract. 408 means
// the OTP expired, 429 means a code is still outstanding. Anything
// unclassified is logged with context and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrOTPMismatch),
		errors.Is(err, domain.ErrBadCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenWrongType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusRequestTimeout, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrNotification):
		writeError(w, http.StatusInternalServerError, "could not deliver the verification code, try again later")
	default:
		slog.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
