package revokedtokens

import (
	"context"
	"time"
)

// Repository is a denylist of session token ids (jti).
type Repository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
