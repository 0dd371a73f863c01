package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the ledger aggregate for one unordered user pair, stored
// under its canonical PairKey. A positive Balance means the
// participant owes the initiator. Rows are created lazily on the first
// transaction touching a pair and reversed toward zero on deletion,
// never removed.
type Balance struct {
	ID                  string
	InitiatorID         int64
	ParticipantID       int64
	Balance             decimal.Decimal
	TotalAmountPaid     decimal.Decimal
	TotalAmountReceived decimal.Decimal
	TransactionCount    int64
	LastTransactionAt   time.Time
	IsActive            bool
}

// Pair returns the balance row's pair key.
func (b *Balance) Pair() PairKey {
	return PairKey{InitiatorID: b.InitiatorID, ParticipantID: b.ParticipantID}
}

// BalanceFor returns the signed balance from userID's point of view:
// positive means the counterparty owes userID.
func (b *Balance) BalanceFor(userID int64) decimal.Decimal {
	if b.InitiatorID == userID {
		return b.Balance
	}

	return b.Balance.Neg()
}

// NetBalance is a user's aggregate position across all pairs.
// TotalOwed sums rows where the user is initiator (credit), TotalDue
// sums rows where the user is participant (debit).
type NetBalance struct {
	UserID     int64
	TotalOwed  decimal.Decimal
	TotalDue   decimal.Decimal
	NetBalance decimal.Decimal
}

// CounterpartyBalance is one line of a user's ledger breakdown: the
// counterparty and the signed balance from the user's perspective.
type CounterpartyBalance struct {
	CounterpartyID    int64
	Name              string
	Email             string
	ImageURL          string
	Balance           decimal.Decimal
	TransactionCount  int64
	LastTransactionAt time.Time
}
