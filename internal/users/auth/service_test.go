// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/sec"
	"github.com/parleyhq/parley/internal/users/auth"
)

// fakeUserRepository is an in-memory auth.UserRepository.
type fakeUserRepository struct {
	users      map[string]*auth.User // keyed by id
	roles      map[string][]string
	moderating map[string][]string
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:      make(map[string]*auth.User),
		roles:      make(map[string][]string),
		moderating: make(map[string][]string),
	}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("user")
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) Roles(_ context.Context, userID string) ([]string, error) {
	return r.roles[userID], nil
}

func (r *fakeUserRepository) Moderating(_ context.Context, userID string) ([]string, error) {
	return r.moderating[userID], nil
}

// fakeMirror records IdentityMirror calls in order.
type fakeMirror struct {
	calls      []string
	sessions   map[string]int64 // userID:sessionID -> timestamp
	profiles   map[string]map[string]string
	roles      map[string][]string
	moderating map[string][]string
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		sessions:   make(map[string]int64),
		profiles:   make(map[string]map[string]string),
		roles:      make(map[string][]string),
		moderating: make(map[string][]string),
	}
}

func (m *fakeMirror) WriteSession(_ context.Context, userID, sessionID string, timestamp int64) error {
	m.calls = append(m.calls, "write_session")
	m.sessions[userID+":"+sessionID] = timestamp
	return nil
}

func (m *fakeMirror) WriteIdentity(_ context.Context, userID string, profile map[string]string, roles, moderating []string) error {
	m.calls = append(m.calls, "write_identity")
	m.profiles[userID] = profile
	m.roles[userID] = roles
	m.moderating[userID] = moderating
	return nil
}

func (m *fakeMirror) DeleteSession(_ context.Context, userID, sessionID string) error {
	m.calls = append(m.calls, "delete_session")
	delete(m.sessions, userID+":"+sessionID)
	return nil
}

func (m *fakeMirror) UpdateProfile(_ context.Context, userID string, profile map[string]string) error {
	m.calls = append(m.calls, "update_profile")
	for field, value := range profile {
		if m.profiles[userID] == nil {
			m.profiles[userID] = make(map[string]string)
		}
		m.profiles[userID][field] = value
	}
	return nil
}

func (m *fakeMirror) DeleteIdentity(_ context.Context, userID string) error {
	m.calls = append(m.calls, "delete_identity")
	delete(m.profiles, userID)
	return nil
}

// fakeTokens records the claims it was asked to sign.
type fakeTokens struct {
	userID    string
	sessionID string
	timestamp int64
	ttl       time.Duration
}

func (f *fakeTokens) GenerateSessionToken(userID, sessionID string, timestamp int64, ttl time.Duration) (string, error) {
	f.userID = userID
	f.sessionID = sessionID
	f.timestamp = timestamp
	f.ttl = ttl
	return "signed-token", nil
}

func newTestService(t *testing.T) (*auth.Service, *fakeUserRepository, *fakeMirror, *fakeTokens) {
	t.Helper()

	repository := newFakeUserRepository()
	mirror := newFakeMirror()
	tokens := &fakeTokens{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return auth.NewService(repository, mirror, tokens, logger), repository, mirror, tokens
}

// seedUser registers a user directly in the fake repository.
func seedUser(t *testing.T, repository *fakeUserRepository, id, username, email, password string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{ID: id, Username: username, Email: email, PasswordHash: hash}
	repository.users[id] = user
	return user
}

/*
TestService_Register tests account creation and the duplicate guards.
*/
func TestService_Register(t *testing.T) {
	service, repository, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("creates_account", func(t *testing.T) {
		user, err := service.Register(ctx, auth.RegisterInput{
			Username:    "ada",
			Email:       "ada@parleyhq.io",
			Password:    "correct horse battery",
			DisplayName: "Ada",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "correct horse battery", user.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("correct horse battery", user.PasswordHash))
	})

	t.Run("duplicate_email", func(t *testing.T) {
		_, err := service.Register(ctx, auth.RegisterInput{
			Username: "other",
			Email:    "ada@parleyhq.io",
			Password: "irrelevant-pass",
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		_, err := service.Register(ctx, auth.RegisterInput{
			Username: "ada",
			Email:    "fresh@parleyhq.io",
			Password: "irrelevant-pass",
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	})

	assert.Len(t, repository.users, 1)
}

/*
TestService_Login tests the session establishment flow: mirror write order,
token claims, and the uniform credential rejection.
*/
func TestService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, repository, mirror, tokens := newTestService(t)
		user := seedUser(t, repository, "u1", "ada", "ada@parleyhq.io", "correct horse battery")
		repository.roles["u1"] = []string{"administrator"}
		repository.moderating["u1"] = []string{"board-1"}

		session, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "ada",
			Password: "correct horse battery",
		})
		require.NoError(t, err)

		assert.Equal(t, "signed-token", session.AccessToken)
		assert.Equal(t, user, session.User)

		// The identity mirror must be fully written before the token is
		// signed, identity before session key.
		assert.Equal(t, []string{"write_identity", "write_session"}, mirror.calls)
		assert.Equal(t, "ada", mirror.profiles["u1"]["username"])
		assert.Equal(t, []string{"administrator"}, mirror.roles["u1"])
		assert.Equal(t, []string{"board-1"}, mirror.moderating["u1"])

		// The signed claims must carry the exact timestamp mirrored under
		// the session key.
		require.NotEmpty(t, tokens.sessionID)
		assert.Equal(t, "u1", tokens.userID)
		assert.Equal(t, mirror.sessions["u1:"+tokens.sessionID], tokens.timestamp)
		assert.Equal(t, auth.SessionTokenTTL, tokens.ttl)
	})

	t.Run("email_login_fallback", func(t *testing.T) {
		service, repository, _, _ := newTestService(t)
		seedUser(t, repository, "u1", "ada", "ada@parleyhq.io", "correct horse battery")

		_, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "ada@parleyhq.io",
			Password: "correct horse battery",
		})
		assert.NoError(t, err)
	})

	t.Run("uniform_rejection", func(t *testing.T) {
		service, repository, _, _ := newTestService(t)
		seedUser(t, repository, "u1", "ada", "ada@parleyhq.io", "correct horse battery")

		// Unknown account and wrong password must be indistinguishable.
		_, unknownErr := service.Login(context.Background(), auth.LoginInput{
			Login:    "nobody",
			Password: "whatever-pass",
		})
		_, wrongErr := service.Login(context.Background(), auth.LoginInput{
			Login:    "ada",
			Password: "wrong password",
		})

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
		assert.Equal(t, "UNAUTHORIZED", apperr.As(unknownErr).Code)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongErr).Code)
	})

	t.Run("relogin_rotates_timestamp", func(t *testing.T) {
		service, repository, mirror, tokens := newTestService(t)
		seedUser(t, repository, "u1", "ada", "ada@parleyhq.io", "correct horse battery")

		_, err := service.Login(context.Background(), auth.LoginInput{Login: "ada", Password: "correct horse battery"})
		require.NoError(t, err)
		firstSession := tokens.sessionID
		firstTimestamp := tokens.timestamp

		time.Sleep(2 * time.Millisecond) // UnixMilli granularity

		_, err = service.Login(context.Background(), auth.LoginInput{Login: "ada", Password: "correct horse battery"})
		require.NoError(t, err)

		assert.NotEqual(t, firstSession, tokens.sessionID)
		assert.Greater(t, tokens.timestamp, firstTimestamp)
		assert.Len(t, mirror.sessions, 2)
	})
}

/*
TestService_Logout tests that logout removes exactly the presented session.
*/
func TestService_Logout(t *testing.T) {
	service, repository, mirror, tokens := newTestService(t)
	seedUser(t, repository, "u1", "ada", "ada@parleyhq.io", "correct horse battery")

	_, err := service.Login(context.Background(), auth.LoginInput{Login: "ada", Password: "correct horse battery"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), "u1", tokens.sessionID))
	assert.NotContains(t, mirror.sessions, "u1:"+tokens.sessionID)
}
