package controllers

import (
	"net/http"

	"github.com/taeyang999/xposconnect-sub000/api/middleware"
	"github.com/taeyang999/xposconnect-sub000/api/responses"
	"github.com/taeyang999/xposconnect-sub000/internal/employees"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

// MyAccess returns the caller's resolved role flags and capabilities. The
// caller's profile is mirrored from the token claims on the way through.
func MyAccess(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if svc != nil {
			if _, err := svc.SyncIdentity(r.Context(), identity); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "access.profile_sync_failed")
			}
		}

		responses.WriteSuccess(w, middleware.AccessFromContext(r.Context()))
	}
}
