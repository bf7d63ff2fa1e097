package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bancore/ledger/internal/adapter/http/dto"
	"github.com/bancore/ledger/internal/domain"
)

// actorHeader carries the identity of the operator performing the request.
const actorHeader = "X-Actor"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Version conflicts
// and double voids come back as 409 so the client knows to re-read and
// resubmit rather than blame the payload.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrMovementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrAlreadyVoided):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidMovementKind),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrMissingMethodDetail),
		errors.Is(err, domain.ErrUnexpectedMethodDetail),
		errors.Is(err, domain.ErrMethodDetailMismatch),
		errors.Is(err, domain.ErrVoidReasonRequired),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrReferenceTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an RFC 3339 query parameter, nil when absent.
func parseTimeQuery(r *http.Request, key string) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

// requestActor extracts the acting operator, "system" when unidentified.
func requestActor(r *http.Request) string {
	if actor := r.Header.Get(actorHeader); actor != "" {
		return actor
	}
	return "system"
}
