// Package auth carries the authenticated user through request contexts.
package auth

import (
	"context"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/agenda"
)

type contextKey struct{}

type AuthContext struct {
	UserID    int64
	Name      string
	Role      access.Role
	SessionID int64
	Token     string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// Viewer is the agenda identity of the request. Without an authenticated
// user the name is empty, so the agenda falls back to its default user,
// and the role is RoleUnknown, which sees no cases.
func Viewer(ctx context.Context) agenda.Viewer {
	ac, ok := FromContext(ctx)
	if !ok {
		return agenda.Viewer{Role: access.RoleUnknown}
	}
	return agenda.Viewer{Name: ac.Name, Role: ac.Role}
}

func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == access.RoleAdmin
}
