package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type entryRequest struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (s *HTTPServer) handleListEntries(w http.ResponseWriter, r *http.Request) {
	filter := models.EntryFilter{Category: models.Category(r.URL.Query().Get("category"))}

	entries, err := s.entries.List(r.Context(), identityFrom(r.Context()), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *HTTPServer) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entries.Get(r.Context(), identityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *HTTPServer) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.entries.Create(r.Context(), identityFrom(r.Context()), req.Title, req.Content, req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *HTTPServer) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.entries.Update(r.Context(), identityFrom(r.Context()), req.ID, req.Title, req.Content, req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *HTTPServer) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.entries.Delete(r.Context(), identityFrom(r.Context()), req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Journal entry deleted")
}

func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: days must be a number", common.ErrorValidation))
			return
		}
		days = n
	}

	sum, err := s.entries.Summary(r.Context(), identityFrom(r.Context()), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	out, err := s.exports.Export(r.Context(), identityFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "journal exported", "key", out.Key, "count", out.Count)
	writeJSON(w, http.StatusOK, out)
}
