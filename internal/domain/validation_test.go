package domain_test

import (
	"errors"
	"testing"

	"github.com/splitemate/ledger/internal/domain"
)

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name    string
		payerID int64
		splits  []domain.Split
		total   string
		wantErr error
	}{
		{
			name:    "valid split",
			payerID: 1,
			splits: []domain.Split{
				{UserID: 1, Amount: dec("40")},
				{UserID: 2, Amount: dec("60")},
			},
			total: "100",
		},
		{
			name:    "zero share is allowed",
			payerID: 1,
			splits: []domain.Split{
				{UserID: 1, Amount: dec("0")},
				{UserID: 2, Amount: dec("100")},
			},
			total: "100",
		},
		{
			name:    "empty splits",
			payerID: 1,
			splits:  nil,
			total:   "100",
			wantErr: domain.ErrSplitDetailsRequired,
		},
		{
			name:    "sum mismatch",
			payerID: 1,
			splits: []domain.Split{
				{UserID: 1, Amount: dec("40")},
				{UserID: 2, Amount: dec("40")},
			},
			total:   "100",
			wantErr: domain.ErrSplitMismatch,
		},
		{
			name:    "negative amount",
			payerID: 1,
			splits: []domain.Split{
				{UserID: 1, Amount: dec("110")},
				{UserID: 2, Amount: dec("-10")},
			},
			total:   "100",
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "duplicate user",
			payerID: 1,
			splits: []domain.Split{
				{UserID: 1, Amount: dec("50")},
				{UserID: 1, Amount: dec("50")},
			},
			total:   "100",
			wantErr: domain.ErrDuplicateSplitUser,
		},
		{
			name:    "payer absent",
			payerID: 9,
			splits: []domain.Split{
				{UserID: 1, Amount: dec("50")},
				{UserID: 2, Amount: dec("50")},
			},
			total:   "100",
			wantErr: domain.ErrPayerNotInSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateSplits(tt.payerID, tt.splits, dec(tt.total))

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransaction_CanBeModifiedBy(t *testing.T) {
	txn := &domain.Transaction{CreatedBy: 7}

	if !txn.CanBeModifiedBy(7) {
		t.Error("creator must be allowed to modify")
	}

	if txn.CanBeModifiedBy(8) {
		t.Error("non-creator must not be allowed to modify")
	}
}

func TestBalance_BalanceFor(t *testing.T) {
	b := &domain.Balance{InitiatorID: 1, ParticipantID: 2, Balance: dec("30")}

	if !b.BalanceFor(1).Equal(dec("30")) {
		t.Errorf("initiator view = %s", b.BalanceFor(1))
	}

	if !b.BalanceFor(2).Equal(dec("-30")) {
		t.Errorf("participant view = %s", b.BalanceFor(2))
	}
}
