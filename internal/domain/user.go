package domain

import (
	"context"
	"time"
)

// User is an externally owned identity. The ledger only needs the id
// (its total order defines pair key ordering) plus display fields for
// event payloads.
type User struct {
	ID        int64
	Name      string
	Email     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
	IsActive  bool
}

type userContextKey struct{}

// WithUser returns a context carrying the acting user. The HTTP auth
// middleware sets it; usecases read it for the creator-only check and
// for the self-notification exclusion on events.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the acting user from context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
