package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDAnyFunc       func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	SetActiveFunc        func(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error
	ListByIDsForUserFunc func(ctx context.Context, ids []string, userID int64, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	m.transactions[txn.ID] = &copied
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok && txn.IsActive {
		copied := *txn
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDAny(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDAnyFunc != nil {
		return m.GetByIDAnyFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		copied := *txn
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByIDAny(ctx, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	copied := *txn
	m.transactions[txn.ID] = &copied
	return nil
}

func (m *MockTransactionRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tx, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.IsActive = active
	txn.UpdatedAt = updatedAt
	return nil
}

func (m *MockTransactionRepository) ListByIDsForUser(ctx context.Context, ids []string, userID int64, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByIDsForUserFunc != nil {
		return m.ListByIDsForUserFunc(ctx, ids, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, id := range ids {
		if txn, ok := m.transactions[id]; ok && txn.IsActive {
			copied := *txn
			result = append(result, &copied)
		}
	}
	return result, nil
}

// Seed places a transaction directly into the mock's store.
func (m *MockTransactionRepository) Seed(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	m.transactions[txn.ID] = &copied
}

// MockParticipantRepository is a mock implementation of ParticipantRepository.
type MockParticipantRepository struct {
	mu           sync.RWMutex
	participants map[string][]*domain.Participant

	CreateBatchFunc               func(ctx context.Context, tx usecase.Transaction, participants []*domain.Participant) error
	GetByTransactionFunc          func(ctx context.Context, transactionID string) ([]*domain.Participant, error)
	GetByTransactionForUpdateFunc func(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.Participant, error)
	UpdateAmountFunc              func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal) error
	DeleteFunc                    func(ctx context.Context, tx usecase.Transaction, id string) error
	SetActiveByTransactionFunc    func(ctx context.Context, tx usecase.Transaction, transactionID string, active bool) error
}

func NewMockParticipantRepository() *MockParticipantRepository {
	return &MockParticipantRepository{
		participants: make(map[string][]*domain.Participant),
	}
}

func (m *MockParticipantRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, participants []*domain.Participant) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, participants)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range participants {
		copied := *p
		m.participants[p.TransactionID] = append(m.participants[p.TransactionID], &copied)
	}
	return nil
}

func (m *MockParticipantRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Participant, error) {
	if m.GetByTransactionFunc != nil {
		return m.GetByTransactionFunc(ctx, transactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Participant
	for _, p := range m.participants[transactionID] {
		copied := *p
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockParticipantRepository) GetByTransactionForUpdate(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.Participant, error) {
	if m.GetByTransactionForUpdateFunc != nil {
		return m.GetByTransactionForUpdateFunc(ctx, tx, transactionID)
	}
	return m.GetByTransaction(ctx, transactionID)
}

func (m *MockParticipantRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal) error {
	if m.UpdateAmountFunc != nil {
		return m.UpdateAmountFunc(ctx, tx, id, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.participants {
		for _, p := range list {
			if p.ID == id {
				p.AmountOwed = amount
				return nil
			}
		}
	}
	return domain.ErrParticipantNotFound
}

func (m *MockParticipantRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for txnID, list := range m.participants {
		for i, p := range list {
			if p.ID == id {
				m.participants[txnID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrParticipantNotFound
}

func (m *MockParticipantRepository) SetActiveByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string, active bool) error {
	if m.SetActiveByTransactionFunc != nil {
		return m.SetActiveByTransactionFunc(ctx, tx, transactionID, active)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants[transactionID] {
		p.IsActive = active
	}
	return nil
}

// Seed places participants directly into the mock's store.
func (m *MockParticipantRepository) Seed(participants ...*domain.Participant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range participants {
		copied := *p
		m.participants[p.TransactionID] = append(m.participants[p.TransactionID], &copied)
	}
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			result = append(result, e)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns all captured events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc        func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	GetByResourceIDFunc func(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	if m.GetByResourceIDFunc != nil {
		return m.GetByResourceIDFunc(ctx, resourceType, resourceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AuditLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].ResourceType == resourceType && m.logs[i].ResourceID == resourceID {
			result = append(result, m.logs[i])
		}
	}
	return result, nil
}

// Logs returns all captured audit logs.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockTransaction is a mock database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock transaction manager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	LastTx *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.LastTx = &MockTransaction{}
	return m.LastTx, nil
}

// MockRetrier runs the operation once, with no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error

	Calls int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	m.Calls++
	return operation()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return string(rune('A'+m.counter-1)) + "-mock-id"
}

// MockCache is an in-memory cache mock.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, keys ...string) error

	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, keys...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		m.Deleted = append(m.Deleted, key)
	}
	return nil
}

// MockIdempotencyStore is an in-memory idempotency store mock.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockBalanceStore is an in-memory balance repository mock that applies
// deltas the same way the reconciler does, keyed by canonical pair.
type MockBalanceStore struct {
	mu       sync.RWMutex
	balances map[domain.PairKey]*domain.Balance
	nextID   int

	ApplyDeltasFunc func(ctx context.Context, tx usecase.Transaction, deltas domain.Accumulator, now time.Time) ([]*domain.Balance, error)
}

func NewMockBalanceStore() *MockBalanceStore {
	return &MockBalanceStore{
		balances: make(map[domain.PairKey]*domain.Balance),
	}
}

func (m *MockBalanceStore) ApplyDeltas(ctx context.Context, tx usecase.Transaction, deltas domain.Accumulator, now time.Time) ([]*domain.Balance, error) {
	if m.ApplyDeltasFunc != nil {
		return m.ApplyDeltasFunc(ctx, tx, deltas, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var affected []*domain.Balance
	for _, key := range deltas.Keys() {
		delta := deltas[key]
		row, ok := m.balances[key]
		if !ok {
			m.nextID++
			row = &domain.Balance{
				ID:            string(rune('a'+m.nextID-1)) + "-balance",
				InitiatorID:   key.InitiatorID,
				ParticipantID: key.ParticipantID,
				IsActive:      true,
			}
			m.balances[key] = row
		}
		row.Balance = row.Balance.Add(delta.Balance)
		row.TotalAmountPaid = row.TotalAmountPaid.Add(delta.TotalAmountPaid)
		row.TotalAmountReceived = row.TotalAmountReceived.Add(delta.TotalAmountReceived)
		row.TransactionCount += delta.TransactionCount
		row.LastTransactionAt = now
		copied := *row
		affected = append(affected, &copied)
	}
	return affected, nil
}

func (m *MockBalanceStore) GetByPair(ctx context.Context, pair domain.PairKey) (*domain.Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row, ok := m.balances[pair]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceStore) GetUserNetBalance(ctx context.Context, userID int64) (*domain.NetBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	net := &domain.NetBalance{UserID: userID}
	for _, row := range m.balances {
		if !row.Pair().Contains(userID) {
			continue
		}
		signed := row.BalanceFor(userID)
		if signed.IsPositive() {
			net.TotalOwed = net.TotalOwed.Add(signed)
		} else {
			net.TotalDue = net.TotalDue.Add(signed.Neg())
		}
	}
	net.NetBalance = net.TotalOwed.Sub(net.TotalDue)
	return net, nil
}

func (m *MockBalanceStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Balance
	for _, row := range m.balances {
		if row.Pair().Contains(userID) {
			copied := *row
			result = append(result, &copied)
		}
	}
	return result, nil
}

// MockUserStore is an in-memory user repository mock.
type MockUserStore struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
}

func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[int64]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}
