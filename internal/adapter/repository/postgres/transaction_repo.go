package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// scan paths serve pooled reads and in-transaction reads.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const transactionColumns = `id, payer_id, group_id, total_amount, split_count, description, transaction_type, transaction_date, created_by, is_active, created_at, updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction within the given database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		txn.ID,
		txn.PayerID,
		stringPtrToPgText(txn.GroupID),
		decimalToNumeric(txn.TotalAmount),
		txn.SplitCount,
		txn.Description,
		string(txn.Type),
		timeToPgTimestamptz(txn.TransactionDate),
		txn.CreatedBy,
		txn.IsActive,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// GetByID retrieves an active transaction by ID. Soft-deleted rows are
// invisible on this path.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND is_active = TRUE`, id))
}

// GetByIDAny retrieves a transaction by ID regardless of its active
// flag. Activity history reads through this path so the trail of a
// soft-deleted transaction stays reachable.
func (r *TransactionRepository) GetByIDAny(ctx context.Context, id string) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE
// lock, visible in either lifecycle state.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanTransaction(pgxTx.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
		FOR UPDATE`, id))
}

// Update rewrites the mutable transaction fields.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET payer_id = $2,
		    group_id = $3,
		    total_amount = $4,
		    split_count = $5,
		    description = $6,
		    transaction_type = $7,
		    transaction_date = $8,
		    updated_at = $9
		WHERE id = $1`,
		txn.ID,
		txn.PayerID,
		stringPtrToPgText(txn.GroupID),
		decimalToNumeric(txn.TotalAmount),
		txn.SplitCount,
		txn.Description,
		string(txn.Type),
		timeToPgTimestamptz(txn.TransactionDate),
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// SetActive flips the soft-delete flag.
func (r *TransactionRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET is_active = $2, updated_at = $3
		WHERE id = $1`,
		id, active, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByIDsForUser bulk-fetches active transactions by ID, restricted
// to rows the user pays for, created, or participates in.
func (r *TransactionRepository) ListByIDsForUser(ctx context.Context, ids []string, userID int64, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.id = ANY($1)
		  AND t.is_active = TRUE
		  AND (t.payer_id = $2 OR t.created_by = $2 OR EXISTS (
			SELECT 1 FROM transaction_participants p
			WHERE p.transaction_id = t.id AND p.user_id = $2 AND p.is_active = TRUE
		  ))
		ORDER BY t.transaction_date DESC, t.id
		LIMIT $3 OFFSET $4`,
		ids, userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn             domain.Transaction
		groupID         pgtype.Text
		totalAmount     pgtype.Numeric
		txnType         string
		transactionDate pgtype.Timestamptz
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.PayerID,
		&groupID,
		&totalAmount,
		&txn.SplitCount,
		&txn.Description,
		&txnType,
		&transactionDate,
		&txn.CreatedBy,
		&txn.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.GroupID = pgTextToStringPtr(groupID)
	txn.TotalAmount = numericToDecimal(totalAmount)
	txn.Type = domain.TransactionType(txnType)
	txn.TransactionDate = transactionDate.Time
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}
