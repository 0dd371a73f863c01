package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated  = "transaction.created"
	EventTypeTransactionUpdated  = "transaction.updated"
	EventTypeTransactionDeleted  = "transaction.deleted"
	EventTypeTransactionRestored = "transaction.restored"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent is written in the same atomic unit as the ledger
// mutation it describes and published after commit by a background
// worker. Notification fan-out never holds ledger row locks.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionEvent is the payload shape shared by all transaction
// lifecycle events. ExcludeUserID names the acting user, carried
// explicitly so subscribers can suppress self-notification without any
// ambient request state.
type TransactionEvent struct {
	TransactionID string           `json:"transaction_id"`
	EventType     string           `json:"event_type"`
	PayerID       int64            `json:"payer_id"`
	TotalAmount   string           `json:"total_amount"`
	Type          string           `json:"transaction_type"`
	GroupID       string           `json:"group_id,omitempty"`
	ExcludeUserID int64            `json:"exclude_user_id,omitempty"`
	AffectedPairs []PairKey        `json:"affected_pairs"`
	OldSplits     []SplitSnapshot  `json:"old_splits,omitempty"`
	NewSplits     []SplitSnapshot  `json:"new_splits,omitempty"`
	Balances      []BalanceSummary `json:"balances"`
}

// SplitSnapshot is a split entry in event payloads, with the amount as
// an exact decimal string.
type SplitSnapshot struct {
	UserID int64  `json:"user_id"`
	Amount string `json:"amount"`
}

// BalanceSummary is an affected balance row in event payloads.
type BalanceSummary struct {
	InitiatorID      int64  `json:"initiator_id"`
	ParticipantID    int64  `json:"participant_id"`
	Balance          string `json:"balance"`
	TransactionCount int64  `json:"transaction_count"`
}

// SnapshotSplits converts splits into their event payload form.
func SnapshotSplits(splits []Split) []SplitSnapshot {
	snapshots := make([]SplitSnapshot, 0, len(splits))
	for _, s := range splits {
		snapshots = append(snapshots, SplitSnapshot{UserID: s.UserID, Amount: s.Amount.String()})
	}

	return snapshots
}

// SummarizeBalances converts affected balance rows into their event
// payload form.
func SummarizeBalances(balances []*Balance) []BalanceSummary {
	summaries := make([]BalanceSummary, 0, len(balances))
	for _, b := range balances {
		summaries = append(summaries, BalanceSummary{
			InitiatorID:      b.InitiatorID,
			ParticipantID:    b.ParticipantID,
			Balance:          b.Balance.String(),
			TransactionCount: b.TransactionCount,
		})
	}

	return summaries
}
