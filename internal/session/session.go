// Package session keeps the server-side record of logged-in sessions so a
// session can be revoked before its token expires.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown, expired or revoked sessions.
var ErrNotFound = errors.New("session not found")

// Record is a stored session.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists session records.
type Store interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Revoke(ctx context.Context, id string) error
	// RevokeUser drops every session belonging to userID.
	RevokeUser(ctx context.Context, userID string) error
}
