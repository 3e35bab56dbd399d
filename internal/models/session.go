package models

import "time"

// Session is the authenticated context of a single request. It is built by
// the auth middleware and passed explicitly into the services.
type Session struct {
	ID        string
	Actor     *User
	ExpiresAt time.Time
}

// Owns reports whether the session actor is the user with the given ID.
func (s *Session) Owns(userID string) bool {
	return s != nil && s.Actor != nil && s.Actor.ID == userID
}
