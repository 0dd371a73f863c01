package dto

import (
	"time"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              string      `json:"id"`
	PayerID         int64       `json:"payer_id"`
	GroupID         *string     `json:"group_id,omitempty"`
	TotalAmount     string      `json:"total_amount"`
	SplitCount      int         `json:"split_count"`
	Description     string      `json:"description"`
	TransactionType string      `json:"transaction_type"`
	TransactionDate time.Time   `json:"transaction_date"`
	CreatedBy       int64       `json:"created_by"`
	IsActive        bool        `json:"is_active"`
	Splits          []SplitItem `json:"split_details,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction.
func TransactionFromDomain(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              txn.ID,
		PayerID:         txn.PayerID,
		GroupID:         txn.GroupID,
		TotalAmount:     txn.TotalAmount.String(),
		SplitCount:      txn.SplitCount,
		Description:     txn.Description,
		TransactionType: string(txn.Type),
		TransactionDate: txn.TransactionDate,
		CreatedBy:       txn.CreatedBy,
		IsActive:        txn.IsActive,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.UpdatedAt,
	}
}

// TransactionWithSplits attaches participant rows to the response.
func TransactionWithSplits(txn *domain.Transaction, participants []*domain.Participant) TransactionResponse {
	resp := TransactionFromDomain(txn)

	resp.Splits = make([]SplitItem, 0, len(participants))
	for _, p := range participants {
		resp.Splits = append(resp.Splits, SplitItem{UserID: p.UserID, Amount: p.AmountOwed})
	}

	return resp
}

// TransactionsFromDomain converts a list of transactions.
func TransactionsFromDomain(txns []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, TransactionFromDomain(txn))
	}

	return out
}

// BalanceResponse represents one pairwise balance row.
type BalanceResponse struct {
	InitiatorID         int64     `json:"initiator_id"`
	ParticipantID       int64     `json:"participant_id"`
	Balance             string    `json:"balance"`
	TotalAmountPaid     string    `json:"total_amount_paid"`
	TotalAmountReceived string    `json:"total_amount_received"`
	TransactionCount    int64     `json:"transaction_count"`
	LastTransactionAt   time.Time `json:"last_transaction_at"`
}

// BalanceFromDomain converts a domain balance row.
func BalanceFromDomain(b *domain.Balance) BalanceResponse {
	return BalanceResponse{
		InitiatorID:         b.InitiatorID,
		ParticipantID:       b.ParticipantID,
		Balance:             b.Balance.String(),
		TotalAmountPaid:     b.TotalAmountPaid.String(),
		TotalAmountReceived: b.TotalAmountReceived.String(),
		TransactionCount:    b.TransactionCount,
		LastTransactionAt:   b.LastTransactionAt,
	}
}

// MutationResponse is returned by every transaction mutation: the
// transaction plus the balance rows the mutation touched.
type MutationResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balances    []BalanceResponse   `json:"affected_balances"`
}

// MutationFromResult converts a usecase mutation result.
func MutationFromResult(result *usecase.TransactionResult) MutationResponse {
	balances := make([]BalanceResponse, 0, len(result.Balances))
	for _, b := range result.Balances {
		balances = append(balances, BalanceFromDomain(b))
	}

	return MutationResponse{
		Transaction: TransactionFromDomain(result.Transaction),
		Balances:    balances,
	}
}

// ActivityEntryResponse is one entry of a transaction's activity
// trail.
type ActivityEntryResponse struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"user_id"`
	Action      string      `json:"action"`
	BeforeState domain.JSON `json:"before_state,omitempty"`
	AfterState  domain.JSON `json:"after_state,omitempty"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ActivityFromDomain converts audit log entries.
func ActivityFromDomain(logs []*domain.AuditLog) []ActivityEntryResponse {
	out := make([]ActivityEntryResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ActivityEntryResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			Action:      l.Action,
			BeforeState: l.BeforeState,
			AfterState:  l.AfterState,
			Status:      l.Status,
			CreatedAt:   l.CreatedAt,
		})
	}

	return out
}

// NetBalanceResponse is a user's aggregate position.
type NetBalanceResponse struct {
	UserID     int64  `json:"user_id"`
	TotalOwed  string `json:"total_owed"`
	TotalDue   string `json:"total_due"`
	NetBalance string `json:"net_balance"`
}

// NetBalanceFromDomain converts a domain net balance.
func NetBalanceFromDomain(net *domain.NetBalance) NetBalanceResponse {
	return NetBalanceResponse{
		UserID:     net.UserID,
		TotalOwed:  net.TotalOwed.String(),
		TotalDue:   net.TotalDue.String(),
		NetBalance: net.NetBalance.String(),
	}
}

// CounterpartyResponse is one line of a user's ledger breakdown.
type CounterpartyResponse struct {
	CounterpartyID    int64     `json:"counterparty_id"`
	Name              string    `json:"name,omitempty"`
	Email             string    `json:"email,omitempty"`
	ImageURL          string    `json:"image_url,omitempty"`
	Balance           string    `json:"balance"`
	TransactionCount  int64     `json:"transaction_count"`
	LastTransactionAt time.Time `json:"last_transaction_at"`
}

// CounterpartyFromDomain converts a domain counterparty balance.
func CounterpartyFromDomain(c *domain.CounterpartyBalance) CounterpartyResponse {
	return CounterpartyResponse{
		CounterpartyID:    c.CounterpartyID,
		Name:              c.Name,
		Email:             c.Email,
		ImageURL:          c.ImageURL,
		Balance:           c.Balance.String(),
		TransactionCount:  c.TransactionCount,
		LastTransactionAt: c.LastTransactionAt,
	}
}

// CounterpartiesFromDomain converts a ledger breakdown.
func CounterpartiesFromDomain(entries []*domain.CounterpartyBalance) []CounterpartyResponse {
	out := make([]CounterpartyResponse, 0, len(entries))
	for _, c := range entries {
		out = append(out, CounterpartyFromDomain(c))
	}

	return out
}
