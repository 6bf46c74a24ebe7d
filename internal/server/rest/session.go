package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func identityFrom(ctx context.Context) auth.Identity {
	id, _ := ctx.Value(identityKey).(auth.Identity)
	return id
}

func sessionToken(r *http.Request) string {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *HTTPServer) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
