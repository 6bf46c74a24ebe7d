package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

type sessionResponse struct {
	User *auth.Identity `json:"user,omitempty"`
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, sess.Token, sess.ExpiresAt)
	writeJSON(w, http.StatusOK, userResponse{User: sess.User})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), sessionToken(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "Logged out")
}

// handleSession reports who the cookie belongs to; no cookie is not an error.
func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	id, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: &id})
}
