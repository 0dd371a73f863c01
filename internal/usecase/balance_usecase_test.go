package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
	"github.com/splitemate/ledger/internal/usecase/mocks"
)

func TestBalanceUseCase_GetPairBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	balanceRepo := mocks.NewMockBalanceRepository(ctrl)
	balanceRepo.EXPECT().GetByPair(gomock.Any(), domain.NormalizePair(7, 3)).Return(&domain.Balance{
		ID:               "b1",
		InitiatorID:      3,
		ParticipantID:    7,
		Balance:          decimal.NewFromInt(25),
		TransactionCount: 4,
	}, nil)

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&domain.User{ID: 3, Name: "Ana"}, nil)

	uc := usecase.NewBalanceUseCase(balanceRepo, userRepo, nil, zerolog.Nop())

	// Queried from user 7's side: positive 25 belongs to user 3.
	entry, err := uc.GetPairBalance(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.CounterpartyID != 3 {
		t.Errorf("expected counterparty 3, got %d", entry.CounterpartyID)
	}

	if !entry.Balance.Equal(decimal.NewFromInt(-25)) {
		t.Errorf("expected balance -25, got %s", entry.Balance)
	}

	if entry.Name != "Ana" {
		t.Errorf("expected counterparty profile, got %q", entry.Name)
	}
}

func TestBalanceUseCase_GetPairBalanceSelf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := usecase.NewBalanceUseCase(mocks.NewMockBalanceRepository(ctrl), mocks.NewMockUserRepository(ctrl), nil, zerolog.Nop())

	if _, err := uc.GetPairBalance(context.Background(), 5, 5); err != domain.ErrSelfPair {
		t.Errorf("expected ErrSelfPair, got %v", err)
	}
}

func TestBalanceUseCase_GetUserNetBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	balanceRepo := mocks.NewMockBalanceRepository(ctrl)
	balanceRepo.EXPECT().GetUserNetBalance(gomock.Any(), int64(1)).Return(&domain.NetBalance{
		UserID:     1,
		TotalOwed:  decimal.NewFromInt(60),
		TotalDue:   decimal.NewFromInt(10),
		NetBalance: decimal.NewFromInt(50),
	}, nil)

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&domain.User{ID: 1}, nil)

	cache := mocks.NewMockCache()

	uc := usecase.NewBalanceUseCase(balanceRepo, userRepo, cache, zerolog.Nop())

	net, err := uc.GetUserNetBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !net.NetBalance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected net 50, got %s", net.NetBalance)
	}

	// Second call is served from cache: no further repo expectations.
	cached, err := uc.GetUserNetBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cached.NetBalance.Equal(net.NetBalance) {
		t.Errorf("cached net balance mismatch: %s vs %s", cached.NetBalance, net.NetBalance)
	}
}

func TestBalanceUseCase_GetUserNetBalanceUnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, domain.ErrUserNotFound)

	uc := usecase.NewBalanceUseCase(mocks.NewMockBalanceRepository(ctrl), userRepo, nil, zerolog.Nop())

	if _, err := uc.GetUserNetBalance(context.Background(), 404); err != domain.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestBalanceUseCase_GetUserLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lastTxn := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

	balanceRepo := mocks.NewMockBalanceRepository(ctrl)
	balanceRepo.EXPECT().ListByUser(gomock.Any(), int64(2)).Return([]*domain.Balance{
		{InitiatorID: 1, ParticipantID: 2, Balance: decimal.NewFromInt(30), TransactionCount: 2, LastTransactionAt: lastTxn},
		{InitiatorID: 2, ParticipantID: 5, Balance: decimal.NewFromInt(45), TransactionCount: 1, LastTransactionAt: lastTxn},
	}, nil)

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&domain.User{ID: 2}, nil)
	userRepo.EXPECT().GetByIDs(gomock.Any(), []int64{1, 5}).Return([]*domain.User{
		{ID: 1, Name: "Ana"},
		{ID: 5, Name: "Eli"},
	}, nil)

	uc := usecase.NewBalanceUseCase(balanceRepo, userRepo, nil, zerolog.Nop())

	ledger, err := uc.GetUserLedger(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ledger) != 2 {
		t.Fatalf("expected 2 ledger lines, got %d", len(ledger))
	}

	// Sorted largest credit first: user 5 owes 45, user 1 is owed 30.
	if ledger[0].CounterpartyID != 5 || !ledger[0].Balance.Equal(decimal.NewFromInt(45)) {
		t.Errorf("unexpected first line: %+v", ledger[0])
	}

	if ledger[1].CounterpartyID != 1 || !ledger[1].Balance.Equal(decimal.NewFromInt(-30)) {
		t.Errorf("unexpected second line: %+v", ledger[1])
	}

	if ledger[0].Name != "Eli" || ledger[1].Name != "Ana" {
		t.Errorf("counterparty profiles not attached: %q, %q", ledger[0].Name, ledger[1].Name)
	}
}
