package services

import (
	"context"

	"restaurant-pos/models"
)

// Session identifies who is calling. Every write takes one explicitly; nothing is kept in
// package state.
type Session struct {
	UserID   uint
	Username string
	Role     models.UserRole
}

func NewSession(u *models.User) Session {
	return Session{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (s Session) Authenticated() bool {
	return s.UserID != 0
}

func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == models.RoleAdmin
}

type requestIDKey struct{}

// WithRequestID tags ctx with the id used in log lines
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
