package domain

import "time"

// User is the sole persistent entity. Email is the external identity and is
// unique. SessionID and ResetToken are nil unless a session is active or a
// password reset is outstanding; both are unique across users when present.
type User struct {
	ID             string
	Email          string
	HashedPassword string  // argon2id PHC encoded, never plaintext
	SessionID      *string // nil iff no active session
	ResetToken     *string // nil iff no pending reset, single use
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasSession reports whether the user currently holds an active session.
func (u User) HasSession() bool { return u.SessionID != nil }

// HasPendingReset reports whether a password reset is outstanding.
func (u User) HasPendingReset() bool { return u.ResetToken != nil }
