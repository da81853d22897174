// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithAuth/FromContext for propagating the principal via context

package auth

import (
	"context"

	"github.com/stashhq/stashd/internal/store"
)

// AuthContext holds the authenticated principal extracted from a request.
// This is populated by the auth middleware and can be retrieved from context
// in handlers. It is derived per request from a verified token and the
// current account record; it is never persisted.
type AuthContext struct {
	UserID string     // UUID of the authenticated account
	Name   string     // account name, for logging
	Role   store.Role // role as currently recorded, not as claimed by the token
}

// IsAdmin returns true if the principal has the Admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == store.RoleAdmin
}

// CanAccess reports whether the principal may read or mutate a record owned
// by ownerID. Admins are unrestricted; everyone else is scoped to their own
// records. Every operation re-derives this from the current principal and
// owner rather than trusting a precomputed flag.
func (a *AuthContext) CanAccess(ownerID string) bool {
	return a.Role == store.RoleAdmin || a.UserID == ownerID
}

// authContextKey is the key type for storing AuthContext in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the AuthContext attached.
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// FromContext retrieves the AuthContext from the context, returning nil if not present.
func FromContext(ctx context.Context) *AuthContext {
	val := ctx.Value(authContextKey{})
	if val == nil {
		return nil
	}
	auth, ok := val.(*AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// MustFromContext retrieves the AuthContext from the context, panicking if not present.
func MustFromContext(ctx context.Context) *AuthContext {
	auth := FromContext(ctx)
	if auth == nil {
		panic("auth: AuthContext not found in context")
	}
	return auth
}
