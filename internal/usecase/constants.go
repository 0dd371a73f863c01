package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one reconciliation's database
	// transaction so a stuck request cannot pin row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// NetBalanceCacheTTL bounds staleness of the per-user net balance
	// cache; writes invalidate eagerly, the TTL is a backstop.
	NetBalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
