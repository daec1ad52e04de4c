package services

import (
	"context"
	"errors"
	"testing"

	"github.com/epeers/watchlist/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth() (*AuthService, *fakeTenants, *fakeUsers) {
	tenants, users := newFakeTenants(), newFakeUsers()
	return NewAuthService(tenants, users).WithCost(bcrypt.MinCost), tenants, users
}

func TestRegister(t *testing.T) {
	svc, tenants, users := newTestAuth()

	user, store, err := svc.Register(context.Background(), "Alice", "Passw0rd!")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user_alice", store.Schema)
	assert.True(t, tenants.created["alice"])
	assert.NotEqual(t, "Passw0rd!", users.users[store.Schema].PasswordHash)
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuth()
	_, _, err := svc.Register(context.Background(), "alice", "Passw0rd!")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "ALICE", "Other1pass")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "al", "Passw0rd!"},
		{"username with dash", "al-ice", "Passw0rd!"},
		{"short password", "alice", "Pw0"},
		{"no digit", "alice", "Password"},
		{"no upper", "alice", "passw0rd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tenants, _ := newTestAuth()
			_, _, err := svc.Register(context.Background(), tt.username, tt.password)
			var verr *validation.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Zero(t, tenants.calls)
		})
	}
}

func TestRegister_ProvisionFailure(t *testing.T) {
	svc, tenants, users := newTestAuth()
	tenants.err = errors.New("permission denied for database")

	_, _, err := svc.Register(context.Background(), "alice", "Passw0rd!")
	assert.ErrorIs(t, err, tenants.err)
	assert.Empty(t, users.users)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuth()
	_, _, err := svc.Register(context.Background(), "alice", "Passw0rd!")
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "alice", "Passw0rd!")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticate_RejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuth()
	_, _, err := svc.Register(context.Background(), "alice", "Passw0rd!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "Passw0rd?"},
		{"unknown user", "bob", "Passw0rd!"},
		{"invalid username", "a b", "Passw0rd!"},
		{"empty password", "alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}
