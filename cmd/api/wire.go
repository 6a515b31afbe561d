package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/api/routes"
	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/customers"
	"github.com/taeyang999/xposconnect-sub000/internal/employees"
	"github.com/taeyang999/xposconnect-sub000/internal/inventory"
	"github.com/taeyang999/xposconnect-sub000/internal/notifications"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/internal/reports"
	"github.com/taeyang999/xposconnect-sub000/internal/schedule"
	"github.com/taeyang999/xposconnect-sub000/internal/servicelogs"
	"github.com/taeyang999/xposconnect-sub000/internal/users"
	"github.com/taeyang999/xposconnect-sub000/pkg/config"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/mailer"
	"github.com/taeyang999/xposconnect-sub000/pkg/metrics"
	"github.com/taeyang999/xposconnect-sub000/pkg/redis"
)

// dependencies are the shared clients every service is built from.
type dependencies struct {
	cfg      *config.Config
	logg     *logger.Logger
	conn     *gorm.DB
	cache    *redis.Client
	mail     mailer.Sender
	registry prometheus.Registerer
}

func buildServices(deps dependencies) (routes.Services, error) {
	var svcs routes.Services
	logg := deps.logg
	permMetrics := metrics.NewPermissionMetrics(deps.registry)

	auditSvc, err := audit.NewService(audit.NewRepository(deps.conn))
	if err != nil {
		return svcs, err
	}

	permRepo := permissions.NewRepository(deps.conn)
	storeOpts := []permissions.StoreOption{
		permissions.WithStoreLogger(logg),
		permissions.WithStoreMetrics(permMetrics),
	}
	if deps.cache != nil {
		storeOpts = append(storeOpts, permissions.WithTemplateCache(deps.cache, deps.cfg.Permissions.TemplateCacheTTL))
	}
	store, err := permissions.NewTemplateStore(permRepo, storeOpts...)
	if err != nil {
		return svcs, err
	}
	permSvc, err := permissions.NewService(permissions.ServiceParams{
		Repo:    permRepo,
		Store:   store,
		Audit:   auditSvc,
		Logger:  logg,
		Metrics: permMetrics,
	})
	if err != nil {
		return svcs, err
	}

	profiles := users.NewRepository(deps.conn)
	employeeSvc, err := employees.NewService(employees.ServiceParams{
		Profiles:    profiles,
		Roles:       permSvc,
		Assignments: permRepo,
		Directory:   employees.NewDirectory(employees.PrimaryLookup(profiles), employees.FallbackLookup(permRepo), logg, permMetrics),
		Mailer:      deps.mail,
		Audit:       auditSvc,
		Logger:      logg,
		PublicURL:   deps.cfg.App.PublicURL,
	})
	if err != nil {
		return svcs, err
	}

	customerSvc, err := customers.NewService(customers.NewRepository(deps.conn), auditSvc, logg)
	if err != nil {
		return svcs, err
	}
	inventorySvc, err := inventory.NewService(inventory.NewRepository(deps.conn), auditSvc, logg)
	if err != nil {
		return svcs, err
	}
	scheduleSvc, err := schedule.NewService(schedule.NewRepository(deps.conn), auditSvc, logg)
	if err != nil {
		return svcs, err
	}

	notificationSvc, err := notifications.NewService(notifications.ServiceParams{
		Repo:      notifications.NewRepository(deps.conn),
		Mailer:    deps.mail,
		Logger:    logg,
		PublicURL: deps.cfg.App.PublicURL,
	})
	if err != nil {
		return svcs, err
	}

	serviceLogSvc, err := servicelogs.NewService(servicelogs.ServiceParams{
		Repo:     servicelogs.NewRepository(deps.conn),
		Schedule: scheduleSvc,
		Notifier: notificationSvc,
		Audit:    auditSvc,
		Logger:   logg,
	})
	if err != nil {
		return svcs, err
	}

	reportSvc, err := reports.NewService(reports.NewRepository(deps.conn), logg)
	if err != nil {
		return svcs, err
	}

	return routes.Services{
		Permissions:   permSvc,
		Employees:     employeeSvc,
		Customers:     customerSvc,
		Inventory:     inventorySvc,
		Schedule:      scheduleSvc,
		ServiceLogs:   serviceLogSvc,
		Notifications: notificationSvc,
		Audit:         auditSvc,
		Reports:       reportSvc,
	}, nil
}

// connectRedis returns nil when no endpoint is configured; the template
// store then reads straight from the database.
func connectRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*redis.Client, error) {
	if !cfg.Enabled() {
		logg.Warn(ctx, "redis not configured, template cache disabled")
		return nil, nil
	}
	return redis.New(ctx, cfg, logg)
}
