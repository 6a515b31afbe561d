package permissions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/metrics"
	"github.com/taeyang999/xposconnect-sub000/pkg/redis"
)

// TemplateStore loads and saves the role template singleton.
type TemplateStore interface {
	// Load returns nil, nil when no template was ever saved.
	Load(ctx context.Context) (*RoleTemplate, error)
	// Save upserts the template. Concurrent saves are last-write-wins.
	Save(ctx context.Context, template *RoleTemplate) error
}

type templateCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RoleTemplateKey(templateKey string) string
}

type templateStore struct {
	repo    Repository
	cache   templateCache
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.PermissionMetrics
}

// StoreOption configures the template store.
type StoreOption func(*templateStore)

// WithTemplateCache enables the read-through cache.
func WithTemplateCache(cache templateCache, ttl time.Duration) StoreOption {
	return func(s *templateStore) {
		s.cache = cache
		s.ttl = ttl
	}
}

// WithStoreLogger sets the logger used for cache failures.
func WithStoreLogger(logg *logger.Logger) StoreOption {
	return func(s *templateStore) {
		s.logg = logg
	}
}

// WithStoreMetrics records cache hits and misses.
func WithStoreMetrics(m *metrics.PermissionMetrics) StoreOption {
	return func(s *templateStore) {
		s.metrics = m
	}
}

// NewTemplateStore builds the template store over the repository.
func NewTemplateStore(repo Repository, opts ...StoreOption) (TemplateStore, error) {
	if repo == nil {
		return nil, errors.New("permissions repository required")
	}
	s := &templateStore{repo: repo, logg: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *templateStore) Load(ctx context.Context) (*RoleTemplate, error) {
	if cached, ok := s.readCache(ctx); ok {
		return TemplateFromModel(cached), nil
	}

	row, err := s.repo.FindTemplate(ctx, models.RoleTemplateKey)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	s.writeCache(ctx, row)
	return TemplateFromModel(row), nil
}

func (s *templateStore) Save(ctx context.Context, template *RoleTemplate) error {
	if template == nil {
		return errors.New("template required")
	}
	row := &models.RoleTemplate{
		Key:    models.RoleTemplateKey,
		Fields: template.Fields(),
	}
	if by := strings.TrimSpace(template.UpdatedBy); by != "" {
		row.UpdatedBy = &by
	}
	if err := s.repo.UpsertTemplate(ctx, row); err != nil {
		return err
	}
	s.invalidate(ctx)

	stored, err := s.repo.FindTemplate(ctx, models.RoleTemplateKey)
	if err != nil {
		return err
	}
	if stored != nil {
		template.ID = stored.ID
		template.UpdatedAt = stored.UpdatedAt
	}
	return nil
}

func (s *templateStore) readCache(ctx context.Context) (*models.RoleTemplate, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.RoleTemplateKey(models.RoleTemplateKey))
	if err != nil {
		if !errors.Is(err, redis.ErrMiss) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "role template cache read failed")
		}
		s.metrics.IncTemplateCache(false)
		return nil, false
	}
	var row models.RoleTemplate
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "role template cache entry unreadable")
		s.metrics.IncTemplateCache(false)
		return nil, false
	}
	s.metrics.IncTemplateCache(true)
	return &row, true
}

func (s *templateStore) writeCache(ctx context.Context, row *models.RoleTemplate) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.RoleTemplateKey(models.RoleTemplateKey), string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "role template cache write failed")
	}
}

func (s *templateStore) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.RoleTemplateKey(models.RoleTemplateKey)); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "role template cache invalidation failed")
	}
}
