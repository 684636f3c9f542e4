package auth

import (
	"context"
	"strings"
	"testing"

	"doctrack/pkg/apperror"
	"doctrack/pkg/metrics"
	"doctrack/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T, sessions TokenIssuer) (*Service, *store.Entity[store.User], *metrics.Metrics) {
	t.Helper()
	users := store.NewEntity(store.NewMemoryBackend(), store.UserEntity)
	m := metrics.New()
	svc := NewService(users, sessions, m)
	svc.HashCost = bcrypt.MinCost
	return svc, users, m
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc, users, m := newService(t, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, store.User{ID: "alice", Username: "alice", IsAdmin: true}, first)

	second, err := svc.Register(ctx, Credentials{Username: "bob", Password: "secret2"})
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)

	stored, err := users.Get(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UsersCreated))
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Credentials{Username: "alice", Password: "other-pass"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "Username already taken", err.Error())
}

func TestCredentialsValidation(t *testing.T) {
	svc, users, _ := newService(t, nil)
	ctx := context.Background()

	cases := map[string]struct {
		creds   Credentials
		message string
	}{
		"short username": {Credentials{Username: "al", Password: "secret1"}, "Username must be at least 3 characters"},
		"short password": {Credentials{Username: "alice", Password: "12345"}, "Password must be at least 6 characters"},
		"too long":       {Credentials{Username: "alice", Password: strings.Repeat("x", 80)}, "Password is too long"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.creds)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
			assert.Equal(t, tc.message, err.Error())
		})
	}

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)
	assert.Empty(t, user.Password)

	_, err = svc.Login(ctx, Credentials{Username: "alice", Password: "wrong-one"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Invalid username or password", err.Error())

	_, err = svc.Login(ctx, Credentials{Username: "nobody", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Invalid username or password", err.Error())
}
