package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

type updateSettingsRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type updateSettingsResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

func (s *HTTPServer) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetProfile(r.Context(), identityFrom(r.Context()), r.URL.Query().Get("email"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (s *HTTPServer) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfileName(r.Context(), identityFrom(r.Context()), req.Email, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updateSettingsResponse{Message: "User updated successfully", User: user})
}
