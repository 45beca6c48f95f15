package domain

import "github.com/google/uuid"

// Session identifies the authenticated caller of a service operation.
// Handlers build it from the verified bearer token and pass it down
// explicitly; services never reach into ambient request state.
type Session struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}
