// Package auth mints and verifies session tokens and hashes passwords.
// Token verification is a pure function of the token, the signing secret
// and the current time.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Claims carries the identity plus the registered claims. ID (jti) lets a
// token be put on a denylist.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Token is a freshly minted session token.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration, now time.Time) (*Token, error) {
	expiresAt := now.Add(validityDuration)
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: id.UserID,
		Email:  id.Email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return nil, err
	}

	return &Token{Value: tokenString, ID: jti, ExpiresAt: expiresAt}, nil
}

// ParseToken validates signature and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired, anything else that is wrong
// with the token yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte, now time.Time) (*Claims, error) {
	if tokenString == "" {
		return nil, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: user id is missing", common.ErrInvalidToken)
	}

	return claims, nil
}

// VerifyToken is ParseToken reduced to the caller's Identity.
func VerifyToken(tokenString string, secretKey []byte, now time.Time) (Identity, error) {
	claims, err := ParseToken(tokenString, secretKey, now)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
