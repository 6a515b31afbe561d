package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taeyang999/xposconnect-sub000/api/controllers"
	"github.com/taeyang999/xposconnect-sub000/api/middleware"
	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/customers"
	"github.com/taeyang999/xposconnect-sub000/internal/employees"
	"github.com/taeyang999/xposconnect-sub000/internal/inventory"
	"github.com/taeyang999/xposconnect-sub000/internal/notifications"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/internal/reports"
	"github.com/taeyang999/xposconnect-sub000/internal/schedule"
	"github.com/taeyang999/xposconnect-sub000/internal/servicelogs"
	"github.com/taeyang999/xposconnect-sub000/pkg/config"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/metrics"
)

// Services groups everything the HTTP layer dispatches to.
type Services struct {
	Permissions   permissions.Service
	Employees     employees.Service
	Customers     customers.Service
	Inventory     inventory.Service
	Schedule      schedule.Service
	ServiceLogs   servicelogs.Service
	Notifications notifications.Service
	Audit         audit.Service
	Reports       reports.Service
}

// Probes are pinged by the readiness endpoint. Nil values are skipped.
type Probes struct {
	DB    controllers.Pinger
	Redis controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	probes Probes,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, httpMetrics),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.PublicURL),
	)

	deps := map[string]controllers.Pinger{}
	if probes.DB != nil {
		deps["db"] = probes.DB
	}
	if probes.Redis != nil {
		deps["redis"] = probes.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.ResolveAccess(svcs.Permissions, logg))

		r.Get("/me/access", controllers.MyAccess(svcs.Employees, logg))

		r.Route("/permissions", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/templates", controllers.GetRoleTemplate(svcs.Permissions, logg))
			r.Put("/templates", controllers.SaveRoleTemplate(svcs.Permissions, logg))
			r.Get("/assignments", controllers.ListPermissionAssignments(svcs.Permissions, logg))
			r.Put("/assignments/{email}", controllers.SetPermissionAssignment(svcs.Permissions, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/assignable", controllers.AssignableEmployees(svcs.Employees, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(permissions.CanManageEmployees, logg))
				r.Get("/", controllers.ListEmployees(svcs.Employees, logg))
				r.Post("/invite", controllers.InviteEmployee(svcs.Employees, logg))
				r.Patch("/{email}", controllers.UpdateEmployee(svcs.Employees, logg))
			})
		})

		// Resource services enforce view/manage/delete capabilities themselves.
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.GetCustomer(svcs.Customers, logg))
			r.Patch("/{customerId}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.Delete("/{customerId}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(svcs.Inventory, logg))
			r.Post("/", controllers.CreateInventoryItem(svcs.Inventory, logg))
			r.Get("/{itemId}", controllers.GetInventoryItem(svcs.Inventory, logg))
			r.Patch("/{itemId}", controllers.UpdateInventoryItem(svcs.Inventory, logg))
			r.Post("/{itemId}/adjust", controllers.AdjustInventoryItem(svcs.Inventory, logg))
			r.Delete("/{itemId}", controllers.DeleteInventoryItem(svcs.Inventory, logg))
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", controllers.ListScheduleEvents(svcs.Schedule, logg))
			r.Post("/", controllers.CreateScheduleEvent(svcs.Schedule, logg))
			r.Get("/{eventId}", controllers.GetScheduleEvent(svcs.Schedule, logg))
			r.Patch("/{eventId}", controllers.UpdateScheduleEvent(svcs.Schedule, logg))
			r.Delete("/{eventId}", controllers.DeleteScheduleEvent(svcs.Schedule, logg))
		})

		r.Route("/service-logs", func(r chi.Router) {
			r.Get("/", controllers.ListServiceLogs(svcs.ServiceLogs, logg))
			r.Post("/", controllers.CreateServiceLog(svcs.ServiceLogs, logg))
			r.Get("/{logId}", controllers.GetServiceLog(svcs.ServiceLogs, logg))
			r.Patch("/{logId}", controllers.UpdateServiceLog(svcs.ServiceLogs, logg))
			r.Delete("/{logId}", controllers.DeleteServiceLog(svcs.ServiceLogs, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.With(middleware.RequireCapability(permissions.CanViewReports, logg)).
			Get("/audit", controllers.ListAuditLogs(svcs.Audit, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", controllers.ReportSummary(svcs.Reports, logg))
			r.Get("/export", controllers.ExportReport(svcs.Reports, logg))
		})
	})

	return r
}
