package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitemate/ledger/internal/domain"
)

// UserRepository implements usecase.UserRepository against the locally
// synced user table. Users are owned by the identity service; the
// ledger only reads them.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT id, name, email, image_url, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active = TRUE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

// GetByIDs retrieves users by IDs. Missing ids are simply absent from
// the result; callers diff against their input.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, image_url, is_active, created_at, updated_at
		FROM users
		WHERE id = ANY($1) AND is_active = TRUE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		imageURL  pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &imageURL, &user.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	user.ImageURL = imageURL.String
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return &user, nil
}
