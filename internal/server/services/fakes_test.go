package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/users"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

// --- users ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	createErr error
	getErr    error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) UpdateName(_ context.Context, id, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Name = name
	cp := *u
	return &cp, nil
}

// --- entries ---

type fakeEntriesRepo struct {
	mu      sync.Mutex
	entries map[string]*models.Entry

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

// malformed mirrors Postgres, where a non-uuid id never matches a row.
func malformed(id string) bool {
	_, err := uuid.Parse(id)
	return err != nil
}

func newFakeEntriesRepo() *fakeEntriesRepo {
	return &fakeEntriesRepo{entries: make(map[string]*models.Entry)}
}

func (f *fakeEntriesRepo) Create(_ context.Context, e *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeEntriesRepo) GetByID(_ context.Context, id string) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.entries[id]
	if !ok || malformed(id) {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEntriesRepo) ListByUser(_ context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Entry, 0)
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEntriesRepo) Update(_ context.Context, e *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	cur, ok := f.entries[e.ID]
	if !ok || malformed(e.ID) || cur.UserID != e.UserID {
		return common.ErrorNotFound
	}
	cur.Title, cur.Content, cur.Category, cur.UpdatedAt = e.Title, e.Content, e.Category, e.UpdatedAt
	return nil
}

func (f *fakeEntriesRepo) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	cur, ok := f.entries[id]
	if !ok || malformed(id) || cur.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.entries, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	e *fakeEntriesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), e: newFakeEntriesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository          { return m.e }

// --- denylist ---

type fakeRevoked struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newFakeRevoked() *fakeRevoked {
	return &fakeRevoked{revoked: make(map[string]time.Time)}
}

func (f *fakeRevoked) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = expiresAt
	return nil
}

func (f *fakeRevoked) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

// --- clock ---

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
