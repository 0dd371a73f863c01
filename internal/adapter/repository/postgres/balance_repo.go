package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/usecase"
)

const balanceColumns = `id, initiator_id, participant_id, balance, total_amount_paid, total_amount_received, transaction_count, last_transaction_at, is_active`

// BalanceRepository implements usecase.BalanceRepository. ApplyDeltas
// is the reconciler: it locks the balance row of every accumulated
// pair in canonical order, adds deltas onto rows that exist and
// inserts rows seeded from the deltas for pairs seen for the first
// time.
type BalanceRepository struct {
	pool  *pgxpool.Pool
	idGen usecase.IDGenerator
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *BalanceRepository {
	return &BalanceRepository{pool: pool, idGen: idGen}
}

// ApplyDeltas applies an accumulated delta map inside the given
// database transaction and returns the resulting rows. Locking follows
// the accumulator's canonical key order so two overlapping
// reconciliations always acquire row locks in the same sequence.
func (r *BalanceRepository) ApplyDeltas(ctx context.Context, tx usecase.Transaction, deltas domain.Accumulator, now time.Time) ([]*domain.Balance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	keys := make([]domain.PairKey, 0, len(deltas))
	for _, key := range deltas.Keys() {
		// The accumulator never emits a self pair; guard the store
		// boundary anyway.
		if key.IsSelf() {
			continue
		}

		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	existing, err := r.lockPairs(ctx, pgxTx, keys)
	if err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for _, key := range keys {
		delta := deltas[key]

		if _, ok := existing[key]; ok {
			batch.Queue(`
				UPDATE balances
				SET balance = balance + $3,
				    total_amount_paid = total_amount_paid + $4,
				    total_amount_received = total_amount_received + $5,
				    transaction_count = transaction_count + $6,
				    last_transaction_at = $7
				WHERE initiator_id = $1 AND participant_id = $2
				RETURNING `+balanceColumns,
				key.InitiatorID,
				key.ParticipantID,
				decimalToNumeric(delta.Balance),
				decimalToNumeric(delta.TotalAmountPaid),
				decimalToNumeric(delta.TotalAmountReceived),
				delta.TransactionCount,
				timeToPgTimestamptz(now),
			)

			continue
		}

		batch.Queue(`
			INSERT INTO balances (`+balanceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
			RETURNING `+balanceColumns,
			r.idGen.Generate(),
			key.InitiatorID,
			key.ParticipantID,
			decimalToNumeric(delta.Balance),
			decimalToNumeric(delta.TotalAmountPaid),
			decimalToNumeric(delta.TotalAmountReceived),
			delta.TransactionCount,
			timeToPgTimestamptz(now),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	balances := make([]*domain.Balance, 0, len(keys))
	for range keys {
		balance, err := scanBalance(results.QueryRow())
		if err != nil {
			return nil, err
		}

		balances = append(balances, balance)
	}

	if err := results.Close(); err != nil {
		return nil, err
	}

	return balances, nil
}

// lockPairs selects the existing rows for the given canonical pairs
// with FOR UPDATE locks, keyed back by pair.
func (r *BalanceRepository) lockPairs(ctx context.Context, q querier, keys []domain.PairKey) (map[domain.PairKey]*domain.Balance, error) {
	initiators := make([]int64, 0, len(keys))
	participants := make([]int64, 0, len(keys))
	for _, key := range keys {
		initiators = append(initiators, key.InitiatorID)
		participants = append(participants, key.ParticipantID)
	}

	rows, err := q.Query(ctx, `
		SELECT `+balanceColumns+`
		FROM balances
		WHERE (initiator_id, participant_id) IN (
			SELECT * FROM unnest($1::bigint[], $2::bigint[])
		)
		ORDER BY initiator_id, participant_id
		FOR UPDATE`,
		initiators, participants,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[domain.PairKey]*domain.Balance, len(keys))
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}

		existing[balance.Pair()] = balance
	}

	return existing, rows.Err()
}

// GetByPair retrieves the balance row for a canonical pair.
func (r *BalanceRepository) GetByPair(ctx context.Context, pair domain.PairKey) (*domain.Balance, error) {
	balance, err := scanBalance(r.pool.QueryRow(ctx, `
		SELECT `+balanceColumns+`
		FROM balances
		WHERE initiator_id = $1 AND participant_id = $2 AND is_active = TRUE`,
		pair.InitiatorID, pair.ParticipantID,
	))
	if err != nil {
		return nil, err
	}

	return balance, nil
}

// GetUserNetBalance folds a user's rows on both sides of the canonical
// ordering into one aggregate position.
func (r *BalanceRepository) GetUserNetBalance(ctx context.Context, userID int64) (*domain.NetBalance, error) {
	var totalOwed, totalDue pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN s.signed > 0 THEN s.signed ELSE 0 END), 0) AS total_owed,
			COALESCE(SUM(CASE WHEN s.signed < 0 THEN -s.signed ELSE 0 END), 0) AS total_due
		FROM (
			SELECT CASE WHEN initiator_id = $1 THEN balance ELSE -balance END AS signed
			FROM balances
			WHERE (initiator_id = $1 OR participant_id = $1) AND is_active = TRUE
		) s`,
		userID,
	).Scan(&totalOwed, &totalDue)
	if err != nil {
		return nil, err
	}

	net := &domain.NetBalance{
		UserID:    userID,
		TotalOwed: numericToDecimal(totalOwed),
		TotalDue:  numericToDecimal(totalDue),
	}
	net.NetBalance = net.TotalOwed.Sub(net.TotalDue)

	return net, nil
}

// ListByUser lists every balance row the user appears in, most
// recently touched first.
func (r *BalanceRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Balance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+balanceColumns+`
		FROM balances
		WHERE (initiator_id = $1 OR participant_id = $1) AND is_active = TRUE
		ORDER BY last_transaction_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.Balance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}

		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

func scanBalance(row pgx.Row) (*domain.Balance, error) {
	var (
		balance           domain.Balance
		amount            pgtype.Numeric
		totalPaid         pgtype.Numeric
		totalReceived     pgtype.Numeric
		lastTransactionAt pgtype.Timestamptz
	)

	err := row.Scan(
		&balance.ID,
		&balance.InitiatorID,
		&balance.ParticipantID,
		&amount,
		&totalPaid,
		&totalReceived,
		&balance.TransactionCount,
		&lastTransactionAt,
		&balance.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}

		return nil, err
	}

	balance.Balance = numericToDecimal(amount)
	balance.TotalAmountPaid = numericToDecimal(totalPaid)
	balance.TotalAmountReceived = numericToDecimal(totalReceived)
	balance.LastTransactionAt = lastTransactionAt.Time

	return &balance, nil
}
