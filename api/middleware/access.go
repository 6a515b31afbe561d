package middleware

import (
	"context"
	"net/http"

	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

type accessResolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) permissions.Access
}

// ResolveAccess resolves the caller's role and capabilities once per request.
// Resolution never fails; lookup errors only narrow the capability set.
func ResolveAccess(resolver accessResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			access := permissions.Anonymous()
			if identity != nil && resolver != nil {
				access = resolver.Resolve(r.Context(), identity)
			}

			ctx := WithAccess(r.Context(), access)
			if logg != nil && access.UserRole != "" {
				ctx = logg.WithActorRole(ctx, string(access.UserRole))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
