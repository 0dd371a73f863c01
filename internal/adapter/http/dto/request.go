package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

// SplitItem is one (user, amount) entry of a transaction's split.
type SplitItem struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateTransactionRequest represents a request to record an expense
// or settlement.
type CreateTransactionRequest struct {
	PayerID         int64           `json:"payer_id"`
	GroupID         *string         `json:"group_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Description     string          `json:"description"`
	TransactionType string          `json:"transaction_type,omitempty"`
	TransactionDate *time.Time      `json:"transaction_date,omitempty"`
	SplitDetails    []SplitItem     `json:"split_details"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	input := usecase.CreateTransactionInput{
		PayerID:     r.PayerID,
		GroupID:     r.GroupID,
		TotalAmount: r.TotalAmount,
		Description: r.Description,
		Type:        domain.TransactionType(r.TransactionType),
		Splits:      splitsFromItems(r.SplitDetails),
	}

	if r.TransactionDate != nil {
		input.TransactionDate = *r.TransactionDate
	}

	return input
}

// UpdateTransactionRequest represents a request to edit a transaction.
type UpdateTransactionRequest struct {
	PayerID         int64           `json:"payer_id"`
	GroupID         *string         `json:"group_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Description     string          `json:"description"`
	TransactionType string          `json:"transaction_type,omitempty"`
	TransactionDate *time.Time      `json:"transaction_date,omitempty"`
	SplitDetails    []SplitItem     `json:"split_details"`
}

// ToUseCaseInput converts to use case input for the given transaction.
func (r *UpdateTransactionRequest) ToUseCaseInput(id string) usecase.UpdateTransactionInput {
	input := usecase.UpdateTransactionInput{
		ID:          id,
		PayerID:     r.PayerID,
		GroupID:     r.GroupID,
		TotalAmount: r.TotalAmount,
		Description: r.Description,
		Type:        domain.TransactionType(r.TransactionType),
		Splits:      splitsFromItems(r.SplitDetails),
	}

	if r.TransactionDate != nil {
		input.TransactionDate = *r.TransactionDate
	}

	return input
}

// BulkFetchRequest represents a bulk transaction fetch.
type BulkFetchRequest struct {
	TransactionIDs []string `json:"transaction_ids"`
	Limit          int      `json:"limit,omitempty"`
	Offset         int      `json:"offset,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *BulkFetchRequest) ToUseCaseInput() usecase.ListTransactionsInput {
	return usecase.ListTransactionsInput{
		IDs:    r.TransactionIDs,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
}

func splitsFromItems(items []SplitItem) []domain.Split {
	splits := make([]domain.Split, 0, len(items))
	for _, item := range items {
		splits = append(splits, domain.Split{UserID: item.UserID, Amount: item.Amount})
	}

	return splits
}
