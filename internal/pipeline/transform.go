package pipeline

import (
	"context"

	"github.com/couchcryptid/health-facility-map/internal/adapter/leaflet"
	"github.com/couchcryptid/health-facility-map/internal/adapter/registry"
	"github.com/couchcryptid/health-facility-map/internal/domain"
	"github.com/couchcryptid/health-facility-map/internal/observability"
)

// FileLoader implements Loader for a registry file on disk.
type FileLoader struct {
	path string
	opts registry.Options
}

// NewFileLoader creates a FileLoader for path.
func NewFileLoader(path string, opts registry.Options) *FileLoader {
	return &FileLoader{path: path, opts: opts}
}

func (l *FileLoader) Load(ctx context.Context) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return registry.Load(l.path, l.opts)
}

// BuildMap places every geocoded facility of t onto a new map, in row order.
func BuildMap(t *domain.Table, opts Options, metrics *observability.Metrics) *leaflet.Map {
	m := leaflet.NewMap(opts.Center, opts.Zoom, opts.Palette)
	for _, f := range t.Facilities {
		layer, added := m.AddFacility(f)
		if added && metrics != nil {
			metrics.MarkersRendered.WithLabelValues(layer).Inc()
		}
	}
	return m
}
