package controllers

import (
	"net/http"
	"strings"

	"github.com/taeyang999/xposconnect-sub000/api/middleware"
	"github.com/taeyang999/xposconnect-sub000/api/responses"
	"github.com/taeyang999/xposconnect-sub000/internal/reports"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

func ReportSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}
		summary, err := svc.Summary(r.Context(), middleware.AccessFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ExportReport streams a csv or pdf export. The format defaults to csv.
func ExportReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}
		q := r.URL.Query()
		format := reports.Format(strings.ToLower(strings.TrimSpace(q.Get("format"))))
		if format == "" {
			format = reports.FormatCSV
		}
		resource := reports.Resource(strings.ToLower(strings.TrimSpace(q.Get("resource"))))

		export, err := svc.Export(r.Context(), middleware.AccessFromContext(r.Context()), resource, format)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFile(w, export.Filename, export.ContentType, export.Data)
	}
}
