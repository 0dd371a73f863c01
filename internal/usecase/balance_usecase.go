package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/splitemate/ledger/internal/domain"
)

// BalanceUseCase serves the read side of the pairwise ledger.
type BalanceUseCase struct {
	balanceRepo BalanceRepository
	userRepo    UserRepository
	cache       Cache
	logger      zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(balanceRepo BalanceRepository, userRepo UserRepository, cache Cache, logger zerolog.Logger) *BalanceUseCase {
	return &BalanceUseCase{
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		cache:       cache,
		logger:      logger,
	}
}

// NetBalanceCacheKey is the cache key for a user's net balance.
func NetBalanceCacheKey(userID int64) string {
	return fmt.Sprintf("netbalance:%d", userID)
}

// GetPairBalance returns the single ledger row for an unordered user
// pair, oriented from userA's perspective.
func (uc *BalanceUseCase) GetPairBalance(ctx context.Context, userA, userB int64) (*domain.CounterpartyBalance, error) {
	if userA == userB {
		return nil, domain.ErrSelfPair
	}

	pair := domain.NormalizePair(userA, userB)

	balance, err := uc.balanceRepo.GetByPair(ctx, pair)
	if err != nil {
		return nil, err
	}

	entry := &domain.CounterpartyBalance{
		CounterpartyID:    userB,
		Balance:           balance.BalanceFor(userA),
		TransactionCount:  balance.TransactionCount,
		LastTransactionAt: balance.LastTransactionAt,
	}

	if user, err := uc.userRepo.GetByID(ctx, userB); err == nil {
		entry.Name = user.Name
		entry.Email = user.Email
		entry.ImageURL = user.ImageURL
	}

	return entry, nil
}

// GetUserNetBalance aggregates a user's rows on both sides of the pair
// ordering into one net figure. The result is cached; writers
// invalidate the key for every user whose pairs they touch.
func (uc *BalanceUseCase) GetUserNetBalance(ctx context.Context, userID int64) (*domain.NetBalance, error) {
	key := NetBalanceCacheKey(userID)

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != "" {
			var net domain.NetBalance
			if err := json.Unmarshal([]byte(cached), &net); err == nil {
				return &net, nil
			}
		}
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	net, err := uc.balanceRepo.GetUserNetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(net); err == nil {
			if err := uc.cache.Set(ctx, key, string(data), NetBalanceCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to cache net balance")
			}
		}
	}

	return net, nil
}

// GetUserLedger lists a user's per-counterparty balances, each oriented
// from the user's perspective, largest debt first.
func (uc *BalanceUseCase) GetUserLedger(ctx context.Context, userID int64) ([]*domain.CounterpartyBalance, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	balances, err := uc.balanceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	counterpartyIDs := make([]int64, 0, len(balances))
	for _, b := range balances {
		counterpartyIDs = append(counterpartyIDs, b.Pair().Other(userID))
	}

	profiles := make(map[int64]*domain.User, len(counterpartyIDs))
	if len(counterpartyIDs) > 0 {
		users, err := uc.userRepo.GetByIDs(ctx, counterpartyIDs)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to load counterparty profiles")
		}

		for _, u := range users {
			profiles[u.ID] = u
		}
	}

	ledger := make([]*domain.CounterpartyBalance, 0, len(balances))
	for _, b := range balances {
		counterpartyID := b.Pair().Other(userID)

		entry := &domain.CounterpartyBalance{
			CounterpartyID:    counterpartyID,
			Balance:           b.BalanceFor(userID),
			TransactionCount:  b.TransactionCount,
			LastTransactionAt: b.LastTransactionAt,
		}

		if u, ok := profiles[counterpartyID]; ok {
			entry.Name = u.Name
			entry.Email = u.Email
			entry.ImageURL = u.ImageURL
		}

		ledger = append(ledger, entry)
	}

	sort.Slice(ledger, func(i, j int) bool {
		return ledger[i].Balance.GreaterThan(ledger[j].Balance)
	})

	return ledger, nil
}
