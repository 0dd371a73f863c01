package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitemate/ledger/internal/adapter/http/dto"
	"github.com/splitemate/ledger/internal/domain"
)

type balanceServiceStub struct {
	pairFn   func(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error)
	netFn    func(ctx context.Context, userID int64) (*domain.NetBalance, error)
	ledgerFn func(ctx context.Context, userID int64) ([]*domain.CounterpartyBalance, error)
}

func (s *balanceServiceStub) GetPairBalance(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error) {
	return s.pairFn(ctx, userA, userB)
}

func (s *balanceServiceStub) GetUserNetBalance(ctx context.Context, userID int64) (*domain.NetBalance, error) {
	return s.netFn(ctx, userID)
}

func (s *balanceServiceStub) GetUserLedger(ctx context.Context, userID int64) ([]*domain.CounterpartyBalance, error) {
	return s.ledgerFn(ctx, userID)
}

func TestBalanceHandler_GetPair(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		pairFn: func(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error) {
			if userA != 3 || userB != 7 {
				t.Fatalf("unexpected pair (%d, %d)", userA, userB)
			}
			return &domain.CounterpartyBalance{CounterpartyID: 7, Balance: decimal.NewFromInt(25)}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances/pair?user_a=3&user_b=7", nil)
	rec := httptest.NewRecorder()

	handler.GetPair(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.CounterpartyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CounterpartyID != 7 || resp.Balance != "25" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBalanceHandler_GetPair_MissingParams(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		pairFn: func(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error) {
			t.Fatal("GetPairBalance should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances/pair?user_a=3", nil)
	rec := httptest.NewRecorder()

	handler.GetPair(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_GetPair_SelfPair(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		pairFn: func(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error) {
			return nil, domain.ErrSelfPair
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances/pair?user_a=3&user_b=3", nil)
	rec := httptest.NewRecorder()

	handler.GetPair(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_GetNetBalance(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		netFn: func(ctx context.Context, userID int64) (*domain.NetBalance, error) {
			return &domain.NetBalance{
				UserID:     userID,
				TotalOwed:  decimal.NewFromInt(100),
				TotalDue:   decimal.NewFromInt(40),
				NetBalance: decimal.NewFromInt(60),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/5/balance", nil)
	req = setChiURLParam(req, "id", "5")
	rec := httptest.NewRecorder()

	handler.GetNetBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.NetBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != 5 || resp.NetBalance != "60" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBalanceHandler_GetNetBalance_UnknownUser(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		netFn: func(ctx context.Context, userID int64) (*domain.NetBalance, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/99/balance", nil)
	req = setChiURLParam(req, "id", "99")
	rec := httptest.NewRecorder()

	handler.GetNetBalance(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBalanceHandler_GetNetBalance_InvalidID(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		netFn: func(ctx context.Context, userID int64) (*domain.NetBalance, error) {
			t.Fatal("GetUserNetBalance should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/abc/balance", nil)
	req = setChiURLParam(req, "id", "abc")
	rec := httptest.NewRecorder()

	handler.GetNetBalance(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_GetLedger(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		ledgerFn: func(ctx context.Context, userID int64) ([]*domain.CounterpartyBalance, error) {
			return []*domain.CounterpartyBalance{
				{CounterpartyID: 2, Name: "Ana", Balance: decimal.NewFromInt(45)},
				{CounterpartyID: 4, Balance: decimal.NewFromInt(-30)},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/1/ledger", nil)
	req = setChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.GetLedger(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.CounterpartyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].Name != "Ana" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
