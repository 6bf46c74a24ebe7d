// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, logout and the caller's
// profile.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/revokedtokens"
	"github.com/google/uuid"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a session token
// - Logout: put the token on the denylist when one is configured
// - GetProfile / UpdateProfileName: the caller's own settings
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	revoked     revokedtokens.Repository
	jwtSecret   []byte
	sessionTTL  time.Duration
	bcryptCost  int

	now   func() time.Time
	newID func() string
}

// NewUserService constructs a UserService using repositories and server config.
// revoked may be nil, in which case Logout only clears the cookie.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, revoked revokedtokens.Repository, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		revoked:     revoked,
		jwtSecret:   []byte(cfg.SecretKey),
		sessionTTL:  cfg.SessionTTL,
		bcryptCost:  cfg.BcryptCost,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user. The existence check and the insert share a
// transaction; a concurrent duplicate is still caught by the unique index.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	switch {
	case email == "":
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	case password == "":
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	case name == "":
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    s.now().UTC(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(auth.Identity{UserID: user.ID, Email: user.Email}, s.jwtSecret, s.sessionTTL, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: signing token: %v", common.ErrorInternal, err)
	}

	return &Session{Token: token.Value, ExpiresAt: token.ExpiresAt, User: user}, nil
}

// Logout revokes token until its natural expiry when a denylist is
// configured. Tokens that do not verify need no revocation.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if s.revoked == nil || token == "" {
		return nil
	}

	claims, err := auth.ParseToken(token, s.jwtSecret, s.now())
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// checkOwnEmail allows an empty email (meaning "mine") or the caller's own.
func checkOwnEmail(id auth.Identity, email string) error {
	email = normalizeEmail(email)
	if email != "" && email != normalizeEmail(id.Email) {
		return common.ErrorForbidden
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, id auth.Identity, email string) (*models.User, error) {
	if id.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	if err := checkOwnEmail(id, email); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfileName(ctx context.Context, id auth.Identity, email, name string) (*models.User, error) {
	if id.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if err := checkOwnEmail(id, email); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).UpdateName(ctx, id.UserID, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}
