package models

import "time"

// Session binds an opaque client-held token to an authenticated user.
// Tokens are never serialized into API responses; they travel only in the cookie.
type Session struct {
	Token     string    `json:"-"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
