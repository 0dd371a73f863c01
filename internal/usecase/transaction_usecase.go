package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/infrastructure/metrics"
)

// TransactionUseCase is the transaction lifecycle controller. Create,
// delete and restore run the delta accumulator forward or reversed
// over the full split set; an ordinary edit routes through the diff
// calculator so only the incremental change reaches the ledger.
type TransactionUseCase struct {
	txManager       TransactionManager
	txnRepo         TransactionRepository
	participantRepo ParticipantRepository
	balanceRepo     BalanceRepository
	userRepo        UserRepository
	outboxRepo      OutboxRepository
	auditRepo       AuditRepository
	retrier         Retrier
	cache           Cache
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	txnRepo TransactionRepository,
	participantRepo ParticipantRepository,
	balanceRepo BalanceRepository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	retrier Retrier,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		txnRepo:         txnRepo,
		participantRepo: participantRepo,
		balanceRepo:     balanceRepo,
		userRepo:        userRepo,
		outboxRepo:      outboxRepo,
		auditRepo:       auditRepo,
		retrier:         retrier,
		cache:           cache,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	PayerID         int64
	GroupID         *string
	TotalAmount     decimal.Decimal
	Description     string
	Type            domain.TransactionType
	TransactionDate time.Time
	Splits          []domain.Split
}

// UpdateTransactionInput represents input for editing a transaction.
type UpdateTransactionInput struct {
	ID              string
	PayerID         int64
	GroupID         *string
	TotalAmount     decimal.Decimal
	Description     string
	Type            domain.TransactionType
	TransactionDate time.Time
	Splits          []domain.Split
}

// TransactionResult carries a mutated transaction together with the
// balance rows the mutation touched.
type TransactionResult struct {
	Transaction *domain.Transaction
	Balances    []*domain.Balance
}

// CreateTransaction validates the split set, accumulates its forward
// ledger effect and applies it atomically together with the
// transaction and participant rows.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionResult, error) {
	actor, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.Type == "" {
		input.Type = domain.TransactionTypeDebt
	}

	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidAmount, input.Type)
	}

	if err := domain.ValidateSplits(input.PayerID, input.Splits, input.TotalAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := uc.ensureUsersExist(ctx, splitUserIDs(input.Splits)); err != nil {
		return nil, err
	}

	acc := domain.NewAccumulator()
	acc.AccumulateSplits(input.PayerID, input.Splits, domain.AccumulateForward)

	now := time.Now().UTC()

	transactionDate := input.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = now
	}

	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		PayerID:         input.PayerID,
		GroupID:         input.GroupID,
		TotalAmount:     input.TotalAmount,
		SplitCount:      len(input.Splits),
		Description:     input.Description,
		Type:            input.Type,
		TransactionDate: transactionDate,
		CreatedBy:       actor.ID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	participants := make([]*domain.Participant, 0, len(input.Splits))
	for _, split := range input.Splits {
		participants = append(participants, &domain.Participant{
			ID:            uc.idGen.Generate(),
			TransactionID: txn.ID,
			UserID:        split.UserID,
			AmountOwed:    split.Amount,
			IsActive:      true,
		})
	}

	var balances []*domain.Balance

	err := uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
			return err
		}

		if err := uc.participantRepo.CreateBatch(txCtx, tx, participants); err != nil {
			return err
		}

		balances, err = uc.balanceRepo.ApplyDeltas(txCtx, tx, acc, now)
		if err != nil {
			return err
		}

		event := uc.buildEvent(txn, domain.EventTypeTransactionCreated, actor.ID, acc, nil, input.Splits, balances, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := uc.audit(txCtx, tx, actor.ID, domain.AuditActionTransactionCreate, txn.ID, nil, txn, now); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.countError("create")
		return nil, err
	}

	uc.afterCommit(ctx, acc)

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
		uc.metrics.PairsTouched.Add(float64(len(balances)))
		amount, _ := input.TotalAmount.Float64()
		uc.metrics.TransactionAmount.Observe(amount)
	}

	return &TransactionResult{Transaction: txn, Balances: balances}, nil
}

// UpdateTransaction edits a transaction in place. Only the incremental
// ledger effect computed by the diff calculator is applied; a no-op
// edit mutates no balance row.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*TransactionResult, error) {
	actor, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.Type != "" && !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidAmount, input.Type)
	}

	if err := domain.ValidateSplits(input.PayerID, input.Splits, input.TotalAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := uc.ensureUsersExist(ctx, splitUserIDs(input.Splits)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var (
		txn      *domain.Transaction
		balances []*domain.Balance
		acc      domain.Accumulator
	)

	err := uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		txn, err = uc.txnRepo.GetByIDForUpdate(txCtx, tx, input.ID)
		if err != nil {
			return err
		}

		if !txn.IsActive {
			return domain.ErrAlreadyDeleted
		}

		if !txn.CanBeModifiedBy(actor.ID) {
			return domain.ErrNotOwner
		}

		participants, err := uc.participantRepo.GetByTransactionForUpdate(txCtx, tx, txn.ID)
		if err != nil {
			return err
		}

		oldPayerID := txn.PayerID
		oldSplits := domain.SplitsFromParticipants(participants)

		acc = domain.NewAccumulator()
		for _, entry := range domain.DiffSplits(oldPayerID, input.PayerID, oldSplits, input.Splits) {
			acc.Add(entry)
		}

		if err := uc.reconcileParticipants(txCtx, tx, txn.ID, participants, input.Splits); err != nil {
			return err
		}

		before := *txn

		txn.PayerID = input.PayerID
		txn.GroupID = input.GroupID
		txn.TotalAmount = input.TotalAmount
		txn.Description = input.Description
		txn.SplitCount = len(input.Splits)
		txn.UpdatedAt = now

		// An edit that does not resend the date keeps the stored one.
		if !input.TransactionDate.IsZero() {
			txn.TransactionDate = input.TransactionDate
		}

		if input.Type != "" {
			txn.Type = input.Type
		}

		if err := uc.txnRepo.Update(txCtx, tx, txn); err != nil {
			return err
		}

		balances = nil
		if !acc.IsEmpty() {
			balances, err = uc.balanceRepo.ApplyDeltas(txCtx, tx, acc, now)
			if err != nil {
				return err
			}
		}

		event := uc.buildEvent(txn, domain.EventTypeTransactionUpdated, actor.ID, acc, oldSplits, input.Splits, balances, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := uc.audit(txCtx, tx, actor.ID, domain.AuditActionTransactionUpdate, txn.ID, &before, txn, now); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.countError("update")
		return nil, err
	}

	uc.afterCommit(ctx, acc)

	if uc.metrics != nil {
		uc.metrics.TransactionsUpdated.Inc()
		uc.metrics.PairsTouched.Add(float64(len(balances)))
	}

	return &TransactionResult{Transaction: txn, Balances: balances}, nil
}

// DeleteTransaction soft-deletes: the live split set is reversed
// against the current payer, then the transaction and its participants
// are flagged inactive, all in one atomic unit.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) (*TransactionResult, error) {
	return uc.transition(ctx, id, false)
}

// RestoreTransaction re-applies a soft-deleted transaction's ledger
// effect and flags it active again.
func (uc *TransactionUseCase) RestoreTransaction(ctx context.Context, id string) (*TransactionResult, error) {
	return uc.transition(ctx, id, true)
}

// transition flips the active flag in either direction, running the
// accumulator reversed on delete and forward on restore. The flag flip
// and the ledger mutation commit together or not at all.
func (uc *TransactionUseCase) transition(ctx context.Context, id string, activate bool) (*TransactionResult, error) {
	actor, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC()

	var (
		txn      *domain.Transaction
		balances []*domain.Balance
		acc      domain.Accumulator
	)

	err := uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		txn, err = uc.txnRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		if activate && txn.IsActive {
			return domain.ErrAlreadyActive
		}

		if !activate && !txn.IsActive {
			return domain.ErrAlreadyDeleted
		}

		if !txn.CanBeModifiedBy(actor.ID) {
			return domain.ErrNotOwner
		}

		participants, err := uc.participantRepo.GetByTransactionForUpdate(txCtx, tx, txn.ID)
		if err != nil {
			return err
		}

		splits := domain.SplitsFromParticipants(participants)

		mode := domain.AccumulateReverse
		eventType := domain.EventTypeTransactionDeleted
		action := domain.AuditActionTransactionDelete

		if activate {
			mode = domain.AccumulateForward
			eventType = domain.EventTypeTransactionRestored
			action = domain.AuditActionTransactionRestore
		}

		acc = domain.NewAccumulator()
		acc.AccumulateSplits(txn.PayerID, splits, mode)

		balances, err = uc.balanceRepo.ApplyDeltas(txCtx, tx, acc, now)
		if err != nil {
			return err
		}

		before := *txn

		if err := uc.txnRepo.SetActive(txCtx, tx, txn.ID, activate, now); err != nil {
			return err
		}

		if err := uc.participantRepo.SetActiveByTransaction(txCtx, tx, txn.ID, activate); err != nil {
			return err
		}

		txn.IsActive = activate
		txn.UpdatedAt = now

		event := uc.buildEvent(txn, eventType, actor.ID, acc, splits, nil, balances, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := uc.audit(txCtx, tx, actor.ID, action, txn.ID, &before, txn, now); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		if activate {
			uc.countError("restore")
		} else {
			uc.countError("delete")
		}

		return nil, err
	}

	uc.afterCommit(ctx, acc)

	if uc.metrics != nil {
		if activate {
			uc.metrics.TransactionsRestored.Inc()
		} else {
			uc.metrics.TransactionsDeleted.Inc()
		}
		uc.metrics.PairsTouched.Add(float64(len(balances)))
	}

	return &TransactionResult{Transaction: txn, Balances: balances}, nil
}

// GetTransaction retrieves an active transaction visible to the acting
// user (payer or participant).
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.Participant, error) {
	actor, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}

	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	participants, err := uc.participantRepo.GetByTransaction(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !uc.isParty(actor.ID, txn, participants) {
		return nil, nil, domain.ErrUnauthorized
	}

	return txn, participants, nil
}

// GetTransactionActivity returns the audit trail for a transaction,
// newest first, restricted to parties of the transaction. The lookup
// ignores the active flag so a deleted transaction's history stays
// readable.
func (uc *TransactionUseCase) GetTransactionActivity(ctx context.Context, id string) ([]*domain.AuditLog, error) {
	actor, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	txn, err := uc.txnRepo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}

	participants, err := uc.participantRepo.GetByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if !uc.isParty(actor.ID, txn, participants) {
		return nil, domain.ErrUnauthorized
	}

	if uc.auditRepo == nil {
		return nil, nil
	}

	return uc.auditRepo.GetByResourceID(ctx, domain.AggregateTypeTransaction, id)
}

// ListTransactionsInput represents input for a bulk fetch.
type ListTransactionsInput struct {
	IDs    []string
	Limit  int
	Offset int
}

// ListTransactions bulk-fetches transactions by id, restricted to the
// ones the acting user participates in.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	actor, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.Limit <= 0 {
		input.Limit = 50
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.txnRepo.ListByIDsForUser(ctx, input.IDs, actor.ID, input.Limit, input.Offset)
}

func (uc *TransactionUseCase) isParty(userID int64, txn *domain.Transaction, participants []*domain.Participant) bool {
	if txn.PayerID == userID || txn.CreatedBy == userID {
		return true
	}

	for _, p := range participants {
		if p.UserID == userID {
			return true
		}
	}

	return false
}

// reconcileParticipants brings the participant rows in line with the
// new split set: amounts updated in place, new users inserted, removed
// users deleted.
func (uc *TransactionUseCase) reconcileParticipants(
	ctx context.Context,
	tx Transaction,
	transactionID string,
	existing []*domain.Participant,
	newSplits []domain.Split,
) error {
	byUser := make(map[int64]*domain.Participant, len(existing))
	for _, p := range existing {
		byUser[p.UserID] = p
	}

	var added []*domain.Participant

	for _, split := range newSplits {
		if p, ok := byUser[split.UserID]; ok {
			if !p.AmountOwed.Equal(split.Amount) {
				if err := uc.participantRepo.UpdateAmount(ctx, tx, p.ID, split.Amount); err != nil {
					return err
				}
			}

			delete(byUser, split.UserID)

			continue
		}

		added = append(added, &domain.Participant{
			ID:            uc.idGen.Generate(),
			TransactionID: transactionID,
			UserID:        split.UserID,
			AmountOwed:    split.Amount,
			IsActive:      true,
		})
	}

	if len(added) > 0 {
		if err := uc.participantRepo.CreateBatch(ctx, tx, added); err != nil {
			return err
		}
	}

	for _, p := range byUser {
		if err := uc.participantRepo.Delete(ctx, tx, p.ID); err != nil {
			return err
		}
	}

	return nil
}

func (uc *TransactionUseCase) ensureUsersExist(ctx context.Context, ids []int64) error {
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	if len(users) == len(ids) {
		return nil
	}

	found := make(map[int64]bool, len(users))
	for _, u := range users {
		found[u.ID] = true
	}

	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("%w: user %d", domain.ErrParticipantNotFound, id)
		}
	}

	return nil
}

func (uc *TransactionUseCase) buildEvent(
	txn *domain.Transaction,
	eventType string,
	excludeUserID int64,
	acc domain.Accumulator,
	oldSplits, newSplits []domain.Split,
	balances []*domain.Balance,
	now time.Time,
) *domain.OutboxEvent {
	groupID := ""
	if txn.GroupID != nil {
		groupID = *txn.GroupID
	}

	payload := domain.TransactionEvent{
		TransactionID: txn.ID,
		EventType:     eventType,
		PayerID:       txn.PayerID,
		TotalAmount:   txn.TotalAmount.String(),
		Type:          string(txn.Type),
		GroupID:       groupID,
		ExcludeUserID: excludeUserID,
		AffectedPairs: acc.Keys(),
		OldSplits:     domain.SnapshotSplits(oldSplits),
		NewSplits:     domain.SnapshotSplits(newSplits),
		Balances:      domain.SummarizeBalances(balances),
	}

	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       domain.MarshalState(payload),
		CreatedAt:     now,
		Published:     false,
	}
}

func (uc *TransactionUseCase) audit(
	ctx context.Context,
	tx Transaction,
	userID int64,
	action, resourceID string,
	before, after *domain.Transaction,
	now time.Time,
) error {
	if uc.auditRepo == nil {
		return nil
	}

	var beforeState domain.JSON
	if before != nil {
		beforeState = domain.MarshalState(before)
	}

	return uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       action,
		ResourceType: domain.AggregateTypeTransaction,
		ResourceID:   resourceID,
		BeforeState:  beforeState,
		AfterState:   domain.MarshalState(after),
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    now,
	})
}

// afterCommit invalidates the per-user net balance cache for everyone
// whose pairs were touched. Best effort: the cache TTL is the backstop.
func (uc *TransactionUseCase) afterCommit(ctx context.Context, acc domain.Accumulator) {
	if uc.cache == nil || acc.IsEmpty() {
		return
	}

	keys := make([]string, 0, len(acc))
	for _, userID := range acc.Users() {
		keys = append(keys, NetBalanceCacheKey(userID))
	}

	_ = uc.cache.Delete(ctx, keys...)
}

func (uc *TransactionUseCase) retry(ctx context.Context, operation func() error) error {
	timed := operation
	if uc.metrics != nil {
		timed = func() error {
			start := time.Now()
			err := operation()
			uc.metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())

			return err
		}
	}

	if uc.retrier == nil {
		return timed()
	}

	attempt := 0

	return uc.retrier.Retry(ctx, func() error {
		attempt++
		if attempt > 1 && uc.metrics != nil {
			uc.metrics.ReconciliationRetries.Inc()
		}

		return timed()
	})
}

func (uc *TransactionUseCase) countError(operation string) {
	if uc.metrics != nil {
		uc.metrics.TransactionErrors.WithLabelValues(operation).Inc()
	}
}

func splitUserIDs(splits []domain.Split) []int64 {
	ids := make([]int64, 0, len(splits))
	for _, split := range splits {
		ids = append(ids, split.UserID)
	}

	return ids
}
