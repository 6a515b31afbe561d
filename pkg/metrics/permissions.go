package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution sources reported by the access resolver.
const (
	SourceAnonymous = "anonymous"
	SourceAdmin     = "admin"
	SourceTemplate  = "template"
	SourceFallback  = "fallback"
	SourceError     = "error"
)

// Directory tiers reported by the assignable employee lookup.
const (
	TierPrimary  = "primary"
	TierFallback = "fallback"
	TierEmpty    = "empty"
)

// PermissionMetrics records how access is resolved.
type PermissionMetrics struct {
	resolutions *prometheus.CounterVec
	directory   *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewPermissionMetrics registers the permission metrics on the provided registerer.
func NewPermissionMetrics(reg prometheus.Registerer) *PermissionMetrics {
	if reg == nil {
		return &PermissionMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_resolutions_total",
		Help: "Access resolutions by the source that produced the capability set.",
	}, []string{"source"})
	directory := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignable_directory_lookups_total",
		Help: "Assignable employee lookups by the tier that answered.",
	}, []string{"tier"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "role_template_cache_total",
		Help: "Role template cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(resolutions, directory, cache)
	return &PermissionMetrics{
		resolutions: resolutions,
		directory:   directory,
		cache:       cache,
	}
}

// IncResolution counts one access resolution.
func (m *PermissionMetrics) IncResolution(source string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncDirectoryLookup counts one assignable directory lookup.
func (m *PermissionMetrics) IncDirectoryLookup(tier string) {
	if m == nil || m.directory == nil {
		return
	}
	m.directory.WithLabelValues(normalizeLabel(tier)).Inc()
}

// IncTemplateCache counts a template cache hit or miss.
func (m *PermissionMetrics) IncTemplateCache(hit bool) {
	if m == nil || m.cache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
