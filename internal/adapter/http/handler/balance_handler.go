package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitemate/ledger/internal/adapter/http/dto"
	"github.com/splitemate/ledger/internal/domain"
)

// balanceService is the slice of BalanceUseCase the handler needs.
type balanceService interface {
	GetPairBalance(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error)
	GetUserNetBalance(ctx context.Context, userID int64) (*domain.NetBalance, error)
	GetUserLedger(ctx context.Context, userID int64) ([]*domain.CounterpartyBalance, error)
}

// BalanceHandler handles balance-related HTTP requests.
type BalanceHandler struct {
	balanceUC balanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC balanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// GetPair retrieves the balance between two users.
func (h *BalanceHandler) GetPair(w http.ResponseWriter, r *http.Request) {
	userA := parseInt64Query(r, "user_a")
	userB := parseInt64Query(r, "user_b")

	if userA <= 0 || userB <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user IDs", "user_a and user_b must be positive integers")
		return
	}

	entry, err := h.balanceUC.GetPairBalance(r.Context(), userA, userB)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get pair balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CounterpartyFromDomain(entry))
}

// GetNetBalance retrieves a user's aggregate balance position.
func (h *BalanceHandler) GetNetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := parseInt64Param(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user ID", "")
		return
	}

	net, err := h.balanceUC.GetUserNetBalance(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get net balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.NetBalanceFromDomain(net))
}

// GetLedger retrieves a user's per-counterparty balance entries.
func (h *BalanceHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	userID, err := parseInt64Param(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user ID", "")
		return
	}

	entries, err := h.balanceUC.GetUserLedger(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get ledger", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CounterpartiesFromDomain(entries))
}
