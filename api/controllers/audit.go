package controllers

import (
	"net/http"
	"strings"

	"github.com/taeyang999/xposconnect-sub000/api/responses"
	"github.com/taeyang999/xposconnect-sub000/api/validators"
	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// ListAuditLogs is mounted behind the can_view_reports guard.
func ListAuditLogs(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		q := r.URL.Query()
		params := audit.ListParams{
			EntityType: strings.TrimSpace(q.Get("entity_type")),
			EntityID:   strings.TrimSpace(q.Get("entity_id")),
			ActorEmail: auth.NormalizeEmail(q.Get("actor_email")),
			Limit:      limit,
			Cursor:     strings.TrimSpace(q.Get("cursor")),
		}
		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
