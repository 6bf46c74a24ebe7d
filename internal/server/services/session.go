package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/revokedtokens"
)

// SessionVerifier turns a session token into the caller's Identity.
type SessionVerifier struct {
	secret  []byte
	revoked revokedtokens.Repository
	now     func() time.Time
}

// NewSessionVerifier builds a verifier. revoked may be nil.
func NewSessionVerifier(secret string, revoked revokedtokens.Repository) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret), revoked: revoked, now: time.Now}
}

// Verify checks signature and expiry and, if a denylist is configured,
// that the token has not been revoked.
func (v *SessionVerifier) Verify(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := auth.ParseToken(token, v.secret, v.now())
	if err != nil {
		return auth.Identity{}, err
	}

	if v.revoked != nil && claims.ID != "" {
		revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return auth.Identity{}, fmt.Errorf("%w: denylist lookup: %v", common.ErrorInternal, err)
		}
		if revoked {
			return auth.Identity{}, common.ErrTokenRevoked
		}
	}

	return auth.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
