package middleware

import (
	"context"

	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
)

type contextKey string

const (
	ctxIdentity contextKey = "identity"
	ctxAccess   contextKey = "access"
)

// IdentityFromContext returns the verified caller, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*auth.Identity); ok {
		return v
	}
	return nil
}

// AccessFromContext returns the resolved access. Requests that never went
// through ResolveAccess get the anonymous access.
func AccessFromContext(ctx context.Context) permissions.Access {
	if ctx == nil {
		return permissions.Anonymous()
	}
	if v, ok := ctx.Value(ctxAccess).(permissions.Access); ok {
		return v
	}
	return permissions.Anonymous()
}

func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

func WithAccess(ctx context.Context, access permissions.Access) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccess, access)
}
