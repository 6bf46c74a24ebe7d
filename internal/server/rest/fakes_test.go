package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
)

var (
	alice = auth.Identity{UserID: "alice-id", Email: "alice@example.com"}
	t0    = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
)

// fakeVerifier accepts tokens listed in ids.
type fakeVerifier struct {
	ids map[string]auth.Identity
	err error
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	if f.err != nil {
		return auth.Identity{}, f.err
	}
	if token == "expired" {
		return auth.Identity{}, common.ErrTokenExpired
	}
	id, ok := f.ids[token]
	if !ok {
		return auth.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}

type fakeUsers struct {
	registerUser *models.User
	registerErr  error
	session      *services.Session
	loginErr     error
	logoutErr    error
	loggedOut    []string
	profile      *models.User
	profileErr   error

	gotEmail string
	gotName  string
	gotID    auth.Identity
}

func (f *fakeUsers) Register(_ context.Context, email, password, name string) (*models.User, error) {
	f.gotEmail, f.gotName = email, name
	return f.registerUser, f.registerErr
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.Session, error) {
	f.gotEmail = email
	return f.session, f.loginErr
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return f.logoutErr
}

func (f *fakeUsers) GetProfile(_ context.Context, id auth.Identity, email string) (*models.User, error) {
	f.gotID, f.gotEmail = id, email
	return f.profile, f.profileErr
}

func (f *fakeUsers) UpdateProfileName(_ context.Context, id auth.Identity, email, name string) (*models.User, error) {
	f.gotID, f.gotEmail, f.gotName = id, email, name
	return f.profile, f.profileErr
}

type fakeEntries struct {
	list    []*models.Entry
	entry   *models.Entry
	summary *services.Summary
	err     error

	calls     int
	gotID     auth.Identity
	gotFilter models.EntryFilter
	gotEntry  string
	gotFields [3]string
	gotDays   int
}

func (f *fakeEntries) List(_ context.Context, id auth.Identity, filter models.EntryFilter) ([]*models.Entry, error) {
	f.calls++
	f.gotID, f.gotFilter = id, filter
	return f.list, f.err
}

func (f *fakeEntries) Get(_ context.Context, id auth.Identity, entryID string) (*models.Entry, error) {
	f.calls++
	f.gotID, f.gotEntry = id, entryID
	return f.entry, f.err
}

func (f *fakeEntries) Create(_ context.Context, id auth.Identity, title, content, category string) (*models.Entry, error) {
	f.calls++
	f.gotID, f.gotFields = id, [3]string{title, content, category}
	return f.entry, f.err
}

func (f *fakeEntries) Update(_ context.Context, id auth.Identity, entryID, title, content, category string) (*models.Entry, error) {
	f.calls++
	f.gotID, f.gotEntry, f.gotFields = id, entryID, [3]string{title, content, category}
	return f.entry, f.err
}

func (f *fakeEntries) Delete(_ context.Context, id auth.Identity, entryID string) error {
	f.calls++
	f.gotID, f.gotEntry = id, entryID
	return f.err
}

func (f *fakeEntries) Summary(_ context.Context, id auth.Identity, days int) (*services.Summary, error) {
	f.calls++
	f.gotID, f.gotDays = id, days
	return f.summary, f.err
}

type fakeExports struct {
	out *services.Export
	err error
}

func (f *fakeExports) Export(context.Context, auth.Identity) (*services.Export, error) {
	return f.out, f.err
}

type testEnv struct {
	srv      *HTTPServer
	users    *fakeUsers
	entries  *fakeEntries
	exports  *fakeExports
	verifier *fakeVerifier
}

func newTestEnv(mutate ...func(*config.Config)) *testEnv {
	c := &config.Config{}
	c.LoadDefaults()
	for _, m := range mutate {
		m(c)
	}

	env := &testEnv{
		users:    &fakeUsers{},
		entries:  &fakeEntries{},
		exports:  &fakeExports{},
		verifier: &fakeVerifier{ids: map[string]auth.Identity{"good": alice}},
	}
	env.srv = NewHTTPServer(c, logging.Nop{}, env.users, env.entries, env.exports, env.verifier)
	return env
}
