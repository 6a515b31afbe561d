package controllers

import (
	"net/http"

	"github.com/taeyang999/xposconnect-sub000/api/middleware"
	"github.com/taeyang999/xposconnect-sub000/api/responses"
	"github.com/taeyang999/xposconnect-sub000/api/validators"
	"github.com/taeyang999/xposconnect-sub000/internal/employees"
	"github.com/taeyang999/xposconnect-sub000/internal/users"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

func ListEmployees(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employees service unavailable"))
			return
		}
		filter := users.ListFilter{
			Status: enums.UserStatus(r.URL.Query().Get("status")),
			Search: validators.ParseQuerySearch(r, "q"),
		}
		items, err := svc.List(r.Context(), middleware.AccessFromContext(r.Context()), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func InviteEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employees service unavailable"))
			return
		}
		var input employees.InviteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Invite(r.Context(), middleware.AccessFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func UpdateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employees service unavailable"))
			return
		}
		var input users.UpdateProfileDTO
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Update(r.Context(), middleware.AccessFromContext(r.Context()), pathEmail(r, "email"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AssignableEmployees never fails; callers without the capability get an empty list.
func AssignableEmployees(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteSuccess(w, map[string]any{"items": []employees.Assignee{}})
			return
		}
		items := svc.Assignable(r.Context(), middleware.AccessFromContext(r.Context()))
		if items == nil {
			items = []employees.Assignee{}
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
