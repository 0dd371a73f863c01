package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records one mutation of a transaction for the activity
// trail: who did what, with the state before and after.
type AuditLog struct {
	ID           string
	UserID       int64
	Action       string
	ResourceType string
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// Audit actions
const (
	AuditActionTransactionCreate  = "transaction.create"
	AuditActionTransactionUpdate  = "transaction.update"
	AuditActionTransactionDelete  = "transaction.delete"
	AuditActionTransactionRestore = "transaction.restore"
)

// Audit statuses
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// MarshalState converts a domain object to JSON for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
