package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// CreateTx writes an audit entry within the mutation's transaction, so
// the trail and the mutation commit together.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	pgxTx := tx.(*Tx).PgxTx()

	beforeState, err := marshalNullableJSON(log.BeforeState)
	if err != nil {
		return err
	}

	afterState, err := marshalNullableJSON(log.AfterState)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, before_state, after_state, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		beforeState,
		afterState,
		log.Status,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// GetByResourceID lists the audit trail for a resource, newest first.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, action, resource_type, resource_id, before_state, after_state, status, created_at
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC`,
		resourceType, resourceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log         domain.AuditLog
			beforeState []byte
			afterState  []byte
			createdAt   pgtype.Timestamptz
		)

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&beforeState,
			&afterState,
			&log.Status,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if beforeState != nil {
			if err := json.Unmarshal(beforeState, &log.BeforeState); err != nil {
				return nil, err
			}
		}

		if afterState != nil {
			if err := json.Unmarshal(afterState, &log.AfterState); err != nil {
				return nil, err
			}
		}

		log.CreatedAt = createdAt.Time
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalNullableJSON(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}
