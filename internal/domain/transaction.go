package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes an expense from a repayment. Both run
// through the same ledger arithmetic.
type TransactionType string

const (
	TransactionTypeDebt       TransactionType = "debt"
	TransactionTypeSettlement TransactionType = "settlement"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDebt || t == TransactionTypeSettlement
}

// Transaction represents one expense or settlement event. Deletion is
// a soft flag flip; the ledger effect is reversed, never erased.
type Transaction struct {
	ID              string
	PayerID         int64
	GroupID         *string
	TotalAmount     decimal.Decimal
	SplitCount      int
	Description     string
	Type            TransactionType
	TransactionDate time.Time
	CreatedBy       int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanBeModifiedBy reports whether userID may mutate the transaction.
// Checked before any ledger effect is computed.
func (t *Transaction) CanBeModifiedBy(userID int64) bool {
	return t.CreatedBy == userID
}

// Participant is one user's share of a transaction. It mirrors the
// active flag of its parent.
type Participant struct {
	ID            string
	TransactionID string
	UserID        int64
	AmountOwed    decimal.Decimal
	IsActive      bool
}

// Split is one (user, amount) entry of a transaction's split details.
type Split struct {
	UserID int64
	Amount decimal.Decimal
}

// SplitsFromParticipants converts stored participant rows back into
// split entries, the form the accumulator and diff calculator consume.
func SplitsFromParticipants(participants []*Participant) []Split {
	splits := make([]Split, 0, len(participants))
	for _, p := range participants {
		splits = append(splits, Split{UserID: p.UserID, Amount: p.AmountOwed})
	}

	return splits
}
