package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/netwake/authd/internal/auth/store/drivers/sqlite"
	"github.com/netwake/authd/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "authd-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "authd-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return &AuthService{Store: st}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	user, err := svc.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "a@x.com", user.Email)
	require.NotEqual(t, "pw1", user.HashedPassword, "plaintext must never be stored")
	require.False(t, user.HasSession())
	require.False(t, user.HasPendingReset())

	t.Run("second registration fails", func(t *testing.T) {
		_, err := svc.RegisterUser(ctx, "a@x.com", "other")
		require.ErrorIs(t, err, ErrAlreadyExists)

		count, err := svc.Store.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 1, count)
	})
}

func TestValidLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"correct credentials", "a@x.com", "pw1", true},
		{"wrong password", "a@x.com", "wrong", false},
		{"unknown email", "nobody@x.com", "pw1", false},
		{"empty email", "", "pw1", false},
		{"empty password", "a@x.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidLogin(ctx, tt.email, tt.password)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	registered, err := svc.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	sessionID, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	t.Run("session resolves to the user", func(t *testing.T) {
		user, err := svc.GetUserBySessionID(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, registered.ID, user.ID)
	})

	t.Run("new session replaces the old one", func(t *testing.T) {
		replacement, err := svc.CreateSession(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotEqual(t, sessionID, replacement)

		user, err := svc.GetUserBySessionID(ctx, sessionID)
		require.NoError(t, err)
		require.Nil(t, user, "old session must be dead")

		user, err = svc.GetUserBySessionID(ctx, replacement)
		require.NoError(t, err)
		require.NotNil(t, user)

		sessionID = replacement
	})

	t.Run("destroy clears the session", func(t *testing.T) {
		require.NoError(t, svc.DestroySession(ctx, registered.ID))

		user, err := svc.GetUserBySessionID(ctx, sessionID)
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("destroy is idempotent", func(t *testing.T) {
		require.NoError(t, svc.DestroySession(ctx, registered.ID))
		require.NoError(t, svc.DestroySession(ctx, "no-such-user"))
	})
}

func TestCreateSession_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	sessionID, err := svc.CreateSession(ctx, "nobody@x.com")
	require.NoError(t, err)
	require.Empty(t, sessionID)
}

func TestGetUserBySessionID_Empty(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	// A registered user without a session must not match an empty lookup.
	_, err := svc.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	user, err := svc.GetUserBySessionID(ctx, "")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.RegisterUser(ctx, "a@x.com", "oldpw")
	require.NoError(t, err)

	t.Run("unknown email is rejected", func(t *testing.T) {
		_, err := svc.GetResetToken(ctx, "nobody@x.com")
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	token, err := svc.GetResetToken(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("new token replaces the pending one", func(t *testing.T) {
		replacement, err := svc.GetResetToken(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotEqual(t, token, replacement)

		err = svc.UpdatePassword(ctx, token, "newpw")
		require.ErrorIs(t, err, ErrInvalidResetToken)

		token = replacement
	})

	require.NoError(t, svc.UpdatePassword(ctx, token, "newpw"))

	t.Run("token is single use", func(t *testing.T) {
		err := svc.UpdatePassword(ctx, token, "anotherpw")
		require.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("empty token never matches", func(t *testing.T) {
		err := svc.UpdatePassword(ctx, "", "anotherpw")
		require.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("old password is dead, new one works", func(t *testing.T) {
		valid, err := svc.ValidLogin(ctx, "a@x.com", "oldpw")
		require.NoError(t, err)
		require.False(t, valid)

		valid, err = svc.ValidLogin(ctx, "a@x.com", "newpw")
		require.NoError(t, err)
		require.True(t, valid)
	})
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	valid, err := svc.ValidLogin(ctx, "a@x.com", "wrong")
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = svc.ValidLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.True(t, valid)

	sessionID, err := svc.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	user, err := svc.GetUserBySessionID(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "a@x.com", user.Email)

	require.NoError(t, svc.DestroySession(ctx, user.ID))

	user, err = svc.GetUserBySessionID(ctx, sessionID)
	require.NoError(t, err)
	require.Nil(t, user)
}
