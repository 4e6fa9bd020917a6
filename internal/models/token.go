package models

import "time"

// ResetToken is a single-use password reset credential.
type ResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// Expired reports whether the token is older than ttl at now.
func (t ResetToken) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(t.CreatedAt.Add(ttl))
}
