package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

const participantColumns = `id, transaction_id, user_id, amount_owed, is_active`

// ParticipantRepository implements usecase.ParticipantRepository.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// CreateBatch inserts participant rows in one batch.
func (r *ParticipantRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, participants []*domain.Participant) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, p := range participants {
		batch.Queue(`
			INSERT INTO transaction_participants (`+participantColumns+`)
			VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.TransactionID, p.UserID, decimalToNumeric(p.AmountOwed), p.IsActive,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range participants {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

// GetByTransaction lists a transaction's participant rows.
func (r *ParticipantRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Participant, error) {
	return r.getByTransaction(ctx, r.pool, transactionID, "")
}

// GetByTransactionForUpdate lists a transaction's participant rows with
// FOR UPDATE locks, in user id order.
func (r *ParticipantRepository) GetByTransactionForUpdate(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.Participant, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return r.getByTransaction(ctx, pgxTx, transactionID, "FOR UPDATE")
}

func (r *ParticipantRepository) getByTransaction(ctx context.Context, q querier, transactionID, lock string) ([]*domain.Participant, error) {
	rows, err := q.Query(ctx, `
		SELECT `+participantColumns+`
		FROM transaction_participants
		WHERE transaction_id = $1
		ORDER BY user_id `+lock, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		var (
			p      domain.Participant
			amount pgtype.Numeric
		)

		if err := rows.Scan(&p.ID, &p.TransactionID, &p.UserID, &amount, &p.IsActive); err != nil {
			return nil, err
		}

		p.AmountOwed = numericToDecimal(amount)
		participants = append(participants, &p)
	}

	return participants, rows.Err()
}

// UpdateAmount rewrites one participant's owed amount.
func (r *ParticipantRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transaction_participants
		SET amount_owed = $2
		WHERE id = $1`,
		id, decimalToNumeric(amount),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}

	return nil
}

// Delete removes a participant row. Edits that drop a user remove the
// row outright; the transaction's own soft delete keeps rows and flips
// their flag instead.
func (r *ParticipantRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		DELETE FROM transaction_participants
		WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}

	return nil
}

// SetActiveByTransaction flips every participant row of a transaction
// together with its soft delete or restore.
func (r *ParticipantRepository) SetActiveByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string, active bool) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE transaction_participants
		SET is_active = $2
		WHERE transaction_id = $1`,
		transactionID, active,
	)

	return err
}
