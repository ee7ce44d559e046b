package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/health-facility-map/internal/domain"
	"github.com/couchcryptid/health-facility-map/internal/observability"
)

// Loader reads the facility registry into memory.
type Loader interface {
	Load(ctx context.Context) (*domain.Table, error)
}

// Sink receives the geocoded table after the map has been saved.
type Sink interface {
	Name() string
	Export(ctx context.Context, t *domain.Table) (int, error)
}

// Options controls the rendered map and where it is saved.
type Options struct {
	Center     domain.Coordinates
	Zoom       int
	Palette    *domain.Palette
	OutputPath string
}

// Report summarizes one run.
type Report struct {
	Rows     int
	Geocoded int
	Failed   int
	Markers  int
	Layers   int
	Output   string
	Exported map[string]int
	Started  time.Time
	Duration time.Duration
}

// Pipeline runs load, normalize, geocode, render and save once, in order.
type Pipeline struct {
	loader   Loader
	geocoder domain.Geocoder
	sinks    []Sink
	opts     Options
	progress io.Writer
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	ready    atomic.Bool
}

// New creates a Pipeline. progress receives one human-readable line per
// geocoded row and a closing line once the map is saved; nil discards them.
func New(l Loader, g domain.Geocoder, sinks []Sink, opts Options, progress io.Writer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.Palette == nil {
		opts.Palette = domain.DefaultPalette()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Pipeline{
		loader:   l,
		geocoder: g,
		sinks:    sinks,
		opts:     opts,
		progress: progress,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
}

// WithClock replaces the time source used for the run report.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// CheckReadiness returns nil once the map has been saved.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("map has not been saved yet")
	}
	return nil
}

// Run executes one pass. Loader, geocoding interruption and save errors are
// returned before anything is written; sink errors are returned after the
// map is on disk.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := p.clock.Now()
	report := &Report{Output: p.opts.OutputPath, Exported: map[string]int{}, Started: start.UTC()}

	table, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	report.Rows = table.Len()
	p.metrics.RowsLoaded.Add(float64(table.Len()))
	p.logger.Info("registry loaded", "rows", table.Len(), "columns", len(table.Columns))

	domain.NormalizeTable(table)

	if err := domain.GeocodeTable(ctx, table, p.geocoder, p.progress, p.metrics, p.logger); err != nil {
		return nil, err
	}
	report.Geocoded = len(table.Geocoded())
	report.Failed = report.Rows - report.Geocoded
	p.logger.Info("geocoding finished", "geocoded", report.Geocoded, "failed", report.Failed)

	m := BuildMap(table, p.opts, p.metrics)
	report.Markers = m.MarkerCount()
	report.Layers = len(m.Layers())

	if err := m.Save(p.opts.OutputPath); err != nil {
		return nil, fmt.Errorf("save map: %w", err)
	}
	p.ready.Store(true)
	fmt.Fprintf(p.progress, "Map saved to %s\n", p.opts.OutputPath)
	p.logger.Info("map saved", "path", p.opts.OutputPath, "markers", report.Markers, "layers", report.Layers)

	for _, s := range p.sinks {
		n, err := s.Export(ctx, table)
		if err != nil {
			return report, fmt.Errorf("export %s: %w", s.Name(), err)
		}
		report.Exported[s.Name()] = n
		p.metrics.FacilitiesExported.WithLabelValues(s.Name()).Add(float64(n))
		p.logger.Info("facilities exported", "sink", s.Name(), "count", n)
	}

	report.Duration = p.clock.Since(start)
	p.metrics.RunDuration.Observe(report.Duration.Seconds())
	return report, nil
}
