package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "k"

var baseTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:  testSecret,
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager, revoked *fakeRevoked, clock *stepClock) *UserService {
	t.Helper()
	var s *UserService
	if revoked != nil {
		s = NewUserService(db, rm, revoked, testConfig())
	} else {
		s = NewUserService(db, rm, nil, testConfig())
	}
	if clock != nil {
		s.now = clock.Now
	}
	return s
}

func seedUser(t *testing.T, rm *fakeRepoManager, id, email, password, name string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{ID: id, Email: email, PasswordHash: hash, Name: name, CreatedAt: baseTime}
	_, err = rm.u.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := newUserService(t, db, rm, nil, &stepClock{now: baseTime})
	s.newID = func() string { return "u-1" }

	u, err := s.Register(context.Background(), "  Alice@Example.com ", "secret1", "Alice")
	require.NoError(t, err)

	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, baseTime, u.CreatedAt)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, auth.VerifyPassword(u.PasswordHash, "secret1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name, email, password, userName string
	}{
		{"empty email", "", "pw", "A"},
		{"blank email", "   ", "pw", "A"},
		{"empty password", "a@example.com", "", "A"},
		{"empty name", "a@example.com", "pw", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			s := newUserService(t, db, newFakeRepoManager(), nil, nil)

			_, err := s.Register(context.Background(), tt.email, tt.password, tt.userName)
			assert.ErrorIs(t, err, common.ErrorValidation)
			// no transaction is opened for invalid input
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	seedUser(t, rm, "u-1", "alice@example.com", "pw", "Alice")
	s := newUserService(t, db, rm, nil, nil)

	_, err := s.Register(context.Background(), "ALICE@example.com", "other", "Alice 2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_UniqueViolationOnInsert(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.u.createErr = common.ErrorAlreadyExists
	s := newUserService(t, db, rm, nil, nil)

	_, err := s.Register(context.Background(), "bob@example.com", "pw", "Bob")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_StoreError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.u.getErr = errBoom
	s := newUserService(t, db, rm, nil, nil)

	_, err := s.Register(context.Background(), "bob@example.com", "pw", "Bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_BeginError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin().WillReturnError(errBoom)

	s := newUserService(t, db, newFakeRepoManager(), nil, nil)

	_, err := s.Register(context.Background(), "bob@example.com", "pw", "Bob")
	assert.ErrorIs(t, err, errBoom)
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	seedUser(t, rm, "u-1", "alice@example.com", "secret1", "Alice")
	s := newUserService(t, db, rm, nil, &stepClock{now: baseTime})

	sess, err := s.Login(context.Background(), "Alice@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "u-1", sess.User.ID)
	assert.Equal(t, baseTime.Add(time.Hour), sess.ExpiresAt)

	id, err := auth.VerifyToken(sess.Token, []byte(testSecret), baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: "u-1", Email: "alice@example.com"}, id)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		getErr   error
		want     error
	}{
		{name: "wrong password", email: "alice@example.com", password: "nope", want: common.ErrorUnauthorized},
		{name: "unknown email", email: "ghost@example.com", password: "secret1", want: common.ErrorUnauthorized},
		{name: "empty password", email: "alice@example.com", password: "", want: common.ErrorValidation},
		{name: "empty email", email: "", password: "secret1", want: common.ErrorValidation},
		{name: "store error", email: "alice@example.com", password: "secret1", getErr: errBoom, want: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newSQLMockDB(t)
			rm := newFakeRepoManager()
			seedUser(t, rm, "u-1", "alice@example.com", "secret1", "Alice")
			rm.u.getErr = tt.getErr
			s := newUserService(t, db, rm, nil, nil)

			sess, err := s.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, sess)
		})
	}
}

func TestLogout_RevokesWhenDenylistConfigured(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	seedUser(t, rm, "u-1", "alice@example.com", "pw", "Alice")
	revoked := newFakeRevoked()
	clock := &stepClock{now: baseTime}
	s := newUserService(t, db, rm, revoked, clock)

	sess, err := s.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), sess.Token))
	require.Len(t, revoked.revoked, 1)
	for _, exp := range revoked.revoked {
		assert.True(t, sess.ExpiresAt.Equal(exp), "expiry %v != %v", exp, sess.ExpiresAt)
	}

	v := NewSessionVerifier(testSecret, revoked)
	v.now = clock.Now
	_, err = v.Verify(context.Background(), sess.Token)
	assert.ErrorIs(t, err, common.ErrTokenRevoked)
}

func TestLogout_NoDenylistOrBadToken(t *testing.T) {
	db, _ := newSQLMockDB(t)

	s := newUserService(t, db, newFakeRepoManager(), nil, nil)
	assert.NoError(t, s.Logout(context.Background(), "whatever"))

	revoked := newFakeRevoked()
	s = newUserService(t, db, newFakeRepoManager(), revoked, nil)
	assert.NoError(t, s.Logout(context.Background(), ""))
	assert.NoError(t, s.Logout(context.Background(), "not.a.jwt"))
	assert.Empty(t, revoked.revoked)
}

func TestLogout_DenylistError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	revoked := newFakeRevoked()
	revoked.err = errBoom
	s := newUserService(t, db, newFakeRepoManager(), revoked, &stepClock{now: baseTime})

	tok, err := auth.GenerateToken(auth.Identity{UserID: "u-1"}, []byte(testSecret), time.Hour, baseTime)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Logout(context.Background(), tok.Value), errBoom)
}

func TestGetProfile(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	seedUser(t, rm, "u-1", "alice@example.com", "pw", "Alice")
	s := newUserService(t, db, rm, nil, nil)
	alice := auth.Identity{UserID: "u-1", Email: "alice@example.com"}

	u, err := s.GetProfile(context.Background(), alice, "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	u, err = s.GetProfile(context.Background(), alice, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	_, err = s.GetProfile(context.Background(), alice, "bob@example.com")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.GetProfile(context.Background(), auth.Identity{UserID: "gone", Email: "gone@example.com"}, "")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.GetProfile(context.Background(), auth.Identity{}, "")
	assert.True(t, common.IsUnauthenticated(err))
}

func TestUpdateProfileName(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	seedUser(t, rm, "u-1", "alice@example.com", "pw", "Alice")
	s := newUserService(t, db, rm, nil, nil)
	alice := auth.Identity{UserID: "u-1", Email: "alice@example.com"}

	u, err := s.UpdateProfileName(context.Background(), alice, "alice@example.com", "  Alice B ")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)

	_, err = s.UpdateProfileName(context.Background(), alice, "", "")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.UpdateProfileName(context.Background(), alice, "bob@example.com", "Bob")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.UpdateProfileName(context.Background(), auth.Identity{UserID: "gone"}, "", "X")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	rm.u.updateErr = errBoom
	_, err = s.UpdateProfileName(context.Background(), alice, "", "X")
	assert.True(t, errors.Is(err, errBoom))
}
