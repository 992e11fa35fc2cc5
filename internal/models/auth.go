package models

import (
	"time"
)

// GoogleUserInfo is the profile returned by the Google userinfo endpoint
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// UserSession represents a server-side login session
type UserSession struct {
	ID        string    `json:"id" badgerhold:"key"` // 32-byte URL-safe random token
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry
func (s *UserSession) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
