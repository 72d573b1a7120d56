package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/netwake/authd/internal/auth/domain"
	"github.com/netwake/authd/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, hashed_password, session_id, reset_token, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	const query = `
		INSERT INTO users (id, email, hashed_password, session_id, reset_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.HashedPassword,
		nullString(u.SessionID),
		nullString(u.ResetToken),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *usersRepo) GetUserBySessionID(ctx context.Context, sessionID string) (domain.User, error) {
	// Empty means "no session"; NULL columns must never match it.
	if sessionID == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.getBy(ctx, "session_id", sessionID)
}

func (r *usersRepo) GetUserByResetToken(ctx context.Context, resetToken string) (domain.User, error) {
	if resetToken == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.getBy(ctx, "reset_token", resetToken)
}

// getBy fetches a single user by one of the uniqueness keys. Every column
// passed here carries a UNIQUE index, so at most one row can match.
func (r *usersRepo) getBy(ctx context.Context, column, value string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`

	var (
		u          domain.User
		sessionID  sql.NullString
		resetToken sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID,
		&u.Email,
		&u.HashedPassword,
		&sessionID,
		&resetToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.SessionID = mapNullString(sessionID)
	u.ResetToken = mapNullString(resetToken)
	return u, nil
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if upd.SetHashedPassword != nil {
		set = append(set, "hashed_password = ?")
		args = append(args, *upd.SetHashedPassword)
	}

	switch {
	case upd.ClearSession:
		set = append(set, "session_id = NULL")
	case upd.SetSessionID != nil:
		set = append(set, "session_id = ?")
		args = append(args, *upd.SetSessionID)
	}

	switch {
	case upd.ClearReset:
		set = append(set, "reset_token = NULL")
	case upd.SetResetToken != nil:
		set = append(set, "reset_token = ?")
		args = append(args, *upd.SetResetToken)
	}

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}
