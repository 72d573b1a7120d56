package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/netwake/authd/internal/auth/domain"
	"github.com/netwake/authd/internal/auth/store"
	"github.com/netwake/authd/pkg/cryptox"
	"github.com/netwake/authd/pkg/idx"
	"github.com/netwake/authd/pkg/slogx"
)

var (
	ErrAlreadyExists     = errors.New("user already exists")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidResetToken = errors.New("invalid reset token")
)

// AuthService orchestrates registration, login, session issuance and
// destruction, and the password reset flow. It holds no state of its own;
// everything durable lives behind the injected Store.
//
// Store-level not-found errors never leave this layer: they are translated
// into domain outcomes (a nil user, a false verdict, or one of the sentinel
// errors above).
type AuthService struct {
	Store store.Store
}

// RegisterUser creates a new user with a freshly hashed password.
// Returns ErrAlreadyExists when the email is already registered.
func (s *AuthService) RegisterUser(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// Check first for the friendly error; the UNIQUE index on email is the
	// backstop against a concurrent registration winning the race.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up email", slog.Any("error", err))
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrAlreadyExists
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", slogx.Email(user.Email)),
	)
	return user, nil
}

// ValidLogin reports whether the credentials match an existing user. An
// unknown email is an ordinary false verdict, not an error.
func (s *AuthService) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return cryptox.VerifyPassword(password, user.HashedPassword) == nil, nil
}

// CreateSession issues a fresh opaque session id for the user and stores it,
// replacing any prior session so at most one is ever live. Returns "" when no
// user matches the email. Credentials are NOT re-checked here; callers must
// have already gone through ValidLogin.
func (s *AuthService) CreateSession(ctx context.Context, email string) (string, error) {
	log := slogx.FromContext(ctx)

	sessionID, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate session id", slog.Any("error", err))
		return "", err
	}

	var unknown bool
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				unknown = true
				return nil
			}
			return err
		}

		return tx.Users().UpdateUser(ctx, user.ID, store.UserUpdate{
			SetSessionID: &sessionID,
		})
	})
	if err != nil {
		log.Error("failed to create session", slog.Any("error", err))
		return "", err
	}
	if unknown {
		return "", nil
	}

	log.Info("session created", slog.String("email", slogx.Email(email)))
	return sessionID, nil
}

// GetUserBySessionID resolves a session id to its user. An empty, absent, or
// unmatched session id yields (nil, nil) rather than an error.
func (s *AuthService) GetUserBySessionID(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	user, err := s.Store.Users().GetUserBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// DestroySession clears the user's session id. Idempotent: clearing an
// already-absent session, or a session for an unknown user id, is a no-op.
func (s *AuthService) DestroySession(ctx context.Context, userID string) error {
	err := s.Store.Users().UpdateUser(ctx, userID, store.UserUpdate{
		ClearSession: true,
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	slogx.FromContext(ctx).Info("session destroyed", slog.String("user_id", userID))
	return nil
}

// GetResetToken generates a single-use password reset token and stores it on
// the user, silently replacing any outstanding one. Returns ErrInvalidEmail
// when the user is unknown.
func (s *AuthService) GetResetToken(ctx context.Context, email string) (string, error) {
	log := slogx.FromContext(ctx)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}

		return tx.Users().UpdateUser(ctx, user.ID, store.UserUpdate{
			SetResetToken: &token,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidEmail
		}
		log.Error("failed to store reset token", slog.Any("error", err))
		return "", err
	}

	log.Info("reset token issued", slog.String("email", slogx.Email(email)))
	return token, nil
}

// UpdatePassword consumes a reset token: it re-hashes the new password and,
// in one transaction, stores the hash and clears the token. A token is
// single-use, so a second call with the same token fails with
// ErrInvalidResetToken.
func (s *AuthService) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByResetToken(ctx, resetToken)
		if err != nil {
			return err
		}

		return tx.Users().UpdateUser(ctx, user.ID, store.UserUpdate{
			SetHashedPassword: &hash,
			ClearReset:        true,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		log.Error("failed to update password", slog.Any("error", err))
		return err
	}

	log.Info("password updated")
	return nil
}
