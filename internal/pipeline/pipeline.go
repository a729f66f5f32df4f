package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
	"github.com/couchcryptid/volcano-atlas/internal/observability"
	"github.com/couchcryptid/volcano-atlas/internal/render"
)

// Source reads the two input files.
type Source interface {
	LoadVolcanoes(ctx context.Context, path string) ([]domain.VolcanoRecord, error)
	LoadGeometry(ctx context.Context, path string) (*domain.GeometryDocument, error)
}

// SnapshotLoader publishes the per-country aggregates of a finished run.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, rows []domain.CountryAggregate) error
}

// Options names the inputs and the basemap style.
type Options struct {
	VolcanoPath  string
	GeometryPath string
	MapStyle     string
}

// Snapshot is the immutable result of one run. Everything the HTTP layer
// serves comes from a single snapshot.
type Snapshot struct {
	Records     []domain.VolcanoRecord
	Geometry    *domain.GeometryDocument
	Codes       domain.CountryCodes
	Aggregation domain.Aggregation
	Options     domain.SelectionOptions
	Renderer    *render.Renderer
	GeneratedAt time.Time
}

// Pipeline runs load, resolve and aggregate, and publishes the result.
type Pipeline struct {
	source   Source
	sink     SnapshotLoader
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
	snapshot atomic.Pointer[Snapshot]
}

// New creates a Pipeline. sink may be nil.
func New(source Source, sink SnapshotLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		source:  source,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// Snapshot returns the latest snapshot, or nil before the first successful run.
func (p *Pipeline) Snapshot() *Snapshot {
	return p.snapshot.Load()
}

// CheckReadiness returns nil once a snapshot is available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.snapshot.Load() == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Run builds a snapshot from the configured inputs and stores it. A failed
// run leaves any previous snapshot in place.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	snap, err := p.build(ctx)
	if err != nil {
		p.metrics.PipelineRuns.WithLabelValues("error").Inc()
		return err
	}

	p.snapshot.Store(snap)
	p.metrics.PipelineRuns.WithLabelValues("success").Inc()
	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	p.metrics.PipelineReady.Set(1)
	p.metrics.RecordsLoaded.Set(float64(len(snap.Records)))
	p.metrics.RecordsDropped.Set(float64(snap.Aggregation.Dropped))
	p.metrics.CountriesAggregated.Set(float64(len(snap.Aggregation.Rows)))

	p.logger.Info("dataset ready",
		"records", len(snap.Records),
		"matched", snap.Aggregation.Matched,
		"dropped", snap.Aggregation.Dropped,
		"countries", len(snap.Aggregation.Rows),
		"statuses", len(snap.Aggregation.Statuses),
		"duration", time.Since(start),
	)

	p.export(ctx, snap)
	return nil
}

func (p *Pipeline) build(ctx context.Context) (*Snapshot, error) {
	records, err := p.source.LoadVolcanoes(ctx, p.opts.VolcanoPath)
	if err != nil {
		return nil, fmt.Errorf("load volcanoes: %w", err)
	}
	geometry, err := p.source.LoadGeometry(ctx, p.opts.GeometryPath)
	if err != nil {
		return nil, fmt.Errorf("load geometry: %w", err)
	}

	codes := domain.NewCountryCodes(geometry.Features)
	agg := domain.Aggregate(records, codes)
	if agg.Dropped > 0 {
		p.logger.Debug("records without a country code were dropped", "dropped", agg.Dropped)
	}
	options := domain.NewSelectionOptions(agg)

	return &Snapshot{
		Records:     records,
		Geometry:    geometry,
		Codes:       codes,
		Aggregation: agg,
		Options:     options,
		Renderer:    render.NewRenderer(records, agg, options, render.NewLayout(p.opts.MapStyle)),
		GeneratedAt: domain.Now(),
	}, nil
}

// export hands the aggregates to the sink. Failures are logged and counted;
// the dashboard keeps serving.
func (p *Pipeline) export(ctx context.Context, snap *Snapshot) {
	if p.sink == nil {
		return
	}
	rows := snap.Aggregation.Rows
	if err := p.sink.LoadSnapshot(ctx, rows); err != nil {
		p.metrics.SnapshotExportErrors.Inc()
		p.logger.Error("snapshot export failed", "error", err, "rows", len(rows))
		return
	}
	p.metrics.SnapshotMessagesProduced.Add(float64(len(rows)))
	p.logger.Info("snapshot exported", "rows", len(rows))
}
