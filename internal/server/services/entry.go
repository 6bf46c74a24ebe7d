package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// EntryService is the only way entries are read or written. Every method
// takes the caller's identity and refuses to expose or touch entries owned
// by anyone else.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	now   func() time.Time
	newID func() string
}

func NewEntryService(db *sql.DB, repomanager repomanager.RepositoryManager) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func requireIdentity(id auth.Identity) error {
	if id.UserID == "" {
		return common.ErrInvalidToken
	}
	return nil
}

// isEntryID reports whether id can name a stored entry. Entry ids are uuids,
// so anything else is simply absent.
func isEntryID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validateFields(title, content, category string) (models.Category, error) {
	switch {
	case strings.TrimSpace(title) == "":
		return "", fmt.Errorf("%w: title is required", common.ErrorValidation)
	case strings.TrimSpace(content) == "":
		return "", fmt.Errorf("%w: content is required", common.ErrorValidation)
	case strings.TrimSpace(category) == "":
		return "", fmt.Errorf("%w: category is required", common.ErrorValidation)
	}
	c, ok := models.ParseCategory(category)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", common.ErrorValidation, category)
	}
	return c, nil
}

// List returns the caller's entries, newest first.
func (s *EntryService) List(ctx context.Context, id auth.Identity, filter models.EntryFilter) ([]*models.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if filter.Category != "" {
		c, ok := models.ParseCategory(string(filter.Category))
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, filter.Category)
		}
		filter.Category = c
	}

	entries, err := s.repomanager.Entries(s.db).ListByUser(ctx, id.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	return entries, nil
}

// Get returns one of the caller's entries.
func (s *EntryService) Get(ctx context.Context, id auth.Identity, entryID string) (*models.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(entryID) == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if !isEntryID(entryID) {
		return nil, common.ErrorNotFound
	}
	return s.getOwned(ctx, id, entryID)
}

func (s *EntryService) getOwned(ctx context.Context, id auth.Identity, entryID string) (*models.Entry, error) {
	e, err := s.repomanager.Entries(s.db).GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching entry: %w", err)
	}
	if e.UserID != id.UserID {
		return nil, common.ErrorForbidden
	}
	return e, nil
}

func (s *EntryService) Create(ctx context.Context, id auth.Identity, title, content, category string) (*models.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	c, err := validateFields(title, content, category)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e := &models.Entry{
		ID:        s.newID(),
		UserID:    id.UserID,
		Title:     title,
		Content:   content,
		Category:  c,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repomanager.Entries(s.db).Create(ctx, e); err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}
	return e, nil
}

// Update rewrites title, content and category of one of the caller's
// entries. Validation runs before any lookup.
func (s *EntryService) Update(ctx context.Context, id auth.Identity, entryID, title, content, category string) (*models.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(entryID) == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	c, err := validateFields(title, content, category)
	if err != nil {
		return nil, err
	}
	if !isEntryID(entryID) {
		return nil, common.ErrorNotFound
	}

	e, err := s.getOwned(ctx, id, entryID)
	if err != nil {
		return nil, err
	}

	e.Title = title
	e.Content = content
	e.Category = c
	e.UpdatedAt = s.now().UTC()

	if err := s.repomanager.Entries(s.db).Update(ctx, e); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating entry: %w", err)
	}
	return e, nil
}

func (s *EntryService) Delete(ctx context.Context, id auth.Identity, entryID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if strings.TrimSpace(entryID) == "" {
		return fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if !isEntryID(entryID) {
		return common.ErrorNotFound
	}

	if _, err := s.getOwned(ctx, id, entryID); err != nil {
		return err
	}

	if err := s.repomanager.Entries(s.db).Delete(ctx, entryID, id.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

// Summary aggregates the caller's entries over the last days days
// (7, 30 or 365; zero means DefaultSummaryDays).
func (s *EntryService) Summary(ctx context.Context, id auth.Identity, days int) (*Summary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if days == 0 {
		days = DefaultSummaryDays
	}
	if !ValidSummaryDays(days) {
		return nil, fmt.Errorf("%w: days must be one of 7, 30 or 365", common.ErrorValidation)
	}

	entries, err := s.repomanager.Entries(s.db).ListByUser(ctx, id.UserID, models.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	sum := Summarize(entries, days, s.now())
	return &sum, nil
}
