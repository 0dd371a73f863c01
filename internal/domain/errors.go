package domain

import "errors"

var (
	// Split validation errors
	ErrSplitDetailsRequired = errors.New("split details are required")
	ErrSplitMismatch        = errors.New("split amounts do not sum to the transaction total")
	ErrInvalidAmount        = errors.New("amount must be a non-negative decimal")
	ErrDuplicateSplitUser   = errors.New("duplicate user in split details")
	ErrPayerNotInSplit      = errors.New("payer must be part of the split details")
	ErrParticipantNotFound  = errors.New("participant not found")

	// Pair errors
	ErrSelfPair = errors.New("cannot hold a balance against oneself")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotOwner            = errors.New("only the transaction creator may modify it")
	ErrAlreadyActive       = errors.New("transaction is already active")
	ErrAlreadyDeleted      = errors.New("transaction is already deleted")

	// Balance errors
	ErrBalanceNotFound = errors.New("balance not found")

	// Store errors. ErrStoreContention marks a reconciliation that
	// kept losing lock or serialization conflicts until the retry
	// budget ran out; the request is safe to resend.
	ErrStoreContention = errors.New("store contention, retries exhausted")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
