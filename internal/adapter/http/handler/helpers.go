package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/splitemate/ledger/internal/adapter/http/dto"
	"github.com/splitemate/ledger/internal/domain"
)

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

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrBalanceNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSplitDetailsRequired),
		errors.Is(err, domain.ErrSplitMismatch),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrDuplicateSplitUser),
		errors.Is(err, domain.ErrPayerNotInSplit),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrSelfPair):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyActive),
		errors.Is(err, domain.ErrAlreadyDeleted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrStoreContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseInt64Query parses an int64 query parameter, zero when absent or
// malformed.
func parseInt64Query(r *http.Request, key string) int64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return 0
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

// parseInt64Param parses an int64 URL parameter.
func parseInt64Param(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}
