package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs one line per request after it completes.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// requireSession rejects requests without a valid session cookie before
// they reach any handler and stores the caller's identity in the context.
func (s *HTTPServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}

// pageGuard redirects visitors without a valid session to the login page.
func (s *HTTPServer) pageGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.verifier.Verify(r.Context(), sessionToken(r))
		if err != nil {
			if common.IsUnauthenticated(err) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}
