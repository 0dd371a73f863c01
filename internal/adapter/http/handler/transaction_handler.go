package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitemate/ledger/internal/adapter/http/dto"
	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

// transactionService is the slice of TransactionUseCase the handler needs.
type transactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.TransactionResult, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*usecase.TransactionResult, error)
	DeleteTransaction(ctx context.Context, id string) (*usecase.TransactionResult, error)
	RestoreTransaction(ctx context.Context, id string) (*usecase.TransactionResult, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.Participant, error)
	GetTransactionActivity(ctx context.Context, id string) ([]*domain.AuditLog, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC transactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC transactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create creates a new transaction and reconciles the pairwise ledger.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MutationFromResult(result))
}

// Update modifies a transaction's splits and rebalances affected pairs.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MutationFromResult(result))
}

// Delete soft-deletes a transaction and reverses its ledger impact.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	result, err := h.transactionUC.DeleteTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MutationFromResult(result))
}

// Restore reactivates a soft-deleted transaction and reapplies its deltas.
func (h *TransactionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	result, err := h.transactionUC.RestoreTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to restore transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MutationFromResult(result))
}

// Get retrieves a transaction with its splits.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, participants, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionWithSplits(txn, participants))
}

// Activity returns the audit trail of a transaction, newest first.
// Works for soft-deleted transactions too.
func (h *TransactionHandler) Activity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	logs, err := h.transactionUC.GetTransactionActivity(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction activity", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ActivityFromDomain(logs))
}

// BulkFetch retrieves transactions by id for the calling user.
func (h *TransactionHandler) BulkFetch(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkFetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txns, err := h.transactionUC.ListTransactions(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list transactions", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
