package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitemate/ledger/internal/domain"
)

// TransactionRepository defines data access for transactions.
// Reads come in two flavors: GetByID sees active rows only, while
// GetByIDAny also sees soft-deleted rows (the activity history stays
// readable after a delete).
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDAny(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	SetActive(ctx context.Context, tx Transaction, id string, active bool, updatedAt time.Time) error
	ListByIDsForUser(ctx context.Context, ids []string, userID int64, limit, offset int) ([]*domain.Transaction, error)
}

// ParticipantRepository defines data access for transaction
// participants. Participant rows change only through the diff
// calculator's instructions.
type ParticipantRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, participants []*domain.Participant) error
	GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Participant, error)
	GetByTransactionForUpdate(ctx context.Context, tx Transaction, transactionID string) ([]*domain.Participant, error)
	UpdateAmount(ctx context.Context, tx Transaction, id string, amount decimal.Decimal) error
	Delete(ctx context.Context, tx Transaction, id string) error
	SetActiveByTransaction(ctx context.Context, tx Transaction, transactionID string, active bool) error
}

// BalanceRepository defines data access for the pairwise ledger
// aggregates. ApplyDeltas is the store reconciler: it locks the rows
// for every accumulated pair key, adds the deltas onto existing rows,
// inserts rows seeded from the deltas for unseen pairs, and returns
// the affected rows. It must run inside the supplied transaction.
type BalanceRepository interface {
	ApplyDeltas(ctx context.Context, tx Transaction, deltas domain.Accumulator, now time.Time) ([]*domain.Balance, error)
	GetByPair(ctx context.Context, pair domain.PairKey) (*domain.Balance, error)
	GetUserNetBalance(ctx context.Context, userID int64) (*domain.NetBalance, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Balance, error)
}

// UserRepository defines read access to externally owned users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for the activity trail.
// GetByResourceID returns entries newest first.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on retryable store conflicts
// (serialization failures, deadlocks). Safe here because delta
// accumulation is idempotent given the same input diff.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-side results.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
