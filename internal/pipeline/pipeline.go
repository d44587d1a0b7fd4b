package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/couchcryptid/squirrel-census-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Stage names, used in logs, metrics and report file names.
const (
	StageCleanObservations = "clean-observations"
	StageCleanAreas        = "clean-areas"
	StageMerge             = "merge"
)

// topHectares is how many of the busiest hectares the merge summary lists.
const topHectares = 5

// Source reads the raw census exports.
type Source interface {
	ReadRawObservations() ([]domain.RawObservationRecord, error)
	ReadRawAreas() ([]domain.RawAreaRecord, error)
	ObservationPath() string
	AreaPath() string
}

// Store persists the cleaned and merged tables and the stage reports.
type Store interface {
	Lock() (unlock func() error, err error)
	WriteObservations(domain.ObservationTable) (string, error)
	ReadObservations() (domain.ObservationTable, error)
	WriteAreas([]domain.CleanedAreaRecord) (string, error)
	ReadAreas() ([]domain.CleanedAreaRecord, error)
	WriteMerged(domain.MergedTable) (string, error)
	SaveReport(stage string, report any) error
}

// Exporter hands the merged table to a downstream consumer and returns the
// number of records it accepted.
type Exporter interface {
	Name() string
	Export(ctx context.Context, table domain.MergedTable) (int, error)
}

// Inspector summarizes a raw export on disk.
type Inspector interface {
	Inspect(name, path string) (domain.DatasetInfo, error)
}

// Options configures a Pipeline.
type Options struct {
	Normalize domain.NormalizeOptions

	// Exporters run, in order, after the merged table is written.
	Exporters []Exporter

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Pipeline runs the census stages. Each stage reads its whole input, applies
// the domain rules, and writes its output in one step.
type Pipeline struct {
	source    Source
	store     Store
	inspector Inspector
	exporters []Exporter
	normalize domain.NormalizeOptions
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given adapters and observability.
func New(source Source, store Store, inspector Inspector, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:    source,
		store:     store,
		inspector: inspector,
		exporters: opts.Exporters,
		normalize: opts.Normalize,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CleanObservations normalizes the raw squirrel export into the cleaned
// squirrel table.
func (p *Pipeline) CleanObservations(ctx context.Context) (*Report, error) {
	return p.run(ctx, StageCleanObservations, func(_ context.Context, r *Report, logger *slog.Logger) error {
		r.Inputs = []string{p.source.ObservationPath()}

		raws, err := p.source.ReadRawObservations()
		if err != nil {
			return fmt.Errorf("read observations: %w", err)
		}
		p.metrics.RowsRead.WithLabelValues("raw_observations").Add(float64(len(raws)))

		table, nr := domain.NormalizeObservations(raws, p.normalize)
		p.recordIssues(logger, nr)

		path, err := p.store.WriteObservations(table)
		if err != nil {
			return fmt.Errorf("write observations: %w", err)
		}
		p.metrics.RowsWritten.WithLabelValues("observations").Add(float64(len(table.Records)))

		r.RowsIn, r.RowsOut, r.Output = len(raws), len(table.Records), path
		r.Normalize = &nr
		return nil
	})
}

// CleanAreas normalizes the raw hectare export, imputes missing Weather
// readings, and writes the cleaned hectare table.
func (p *Pipeline) CleanAreas(ctx context.Context) (*Report, error) {
	return p.run(ctx, StageCleanAreas, func(_ context.Context, r *Report, logger *slog.Logger) error {
		r.Inputs = []string{p.source.AreaPath()}

		raws, err := p.source.ReadRawAreas()
		if err != nil {
			return fmt.Errorf("read areas: %w", err)
		}
		p.metrics.RowsRead.WithLabelValues("raw_areas").Add(float64(len(raws)))

		areas, nr := domain.NormalizeAreas(raws)
		p.recordIssues(logger, nr)

		ir := domain.ImputeWeather(areas)
		p.recordImputation(logger, ir)

		path, err := p.store.WriteAreas(areas)
		if err != nil {
			return fmt.Errorf("write areas: %w", err)
		}
		p.metrics.RowsWritten.WithLabelValues("areas").Add(float64(len(areas)))

		r.RowsIn, r.RowsOut, r.Output = len(raws), len(areas), path
		r.Normalize = &nr
		r.Impute = &ir
		return nil
	})
}

// Merge joins the cleaned tables, writes the merged table, and hands it to
// every exporter. Exporters all run even when one fails; their errors are
// returned together after the report is saved.
func (p *Pipeline) Merge(ctx context.Context) (*Report, error) {
	return p.run(ctx, StageMerge, func(ctx context.Context, r *Report, logger *slog.Logger) error {
		obs, err := p.store.ReadObservations()
		if err != nil {
			return fmt.Errorf("read cleaned observations: %w", err)
		}
		areas, err := p.store.ReadAreas()
		if err != nil {
			return fmt.Errorf("read cleaned areas: %w", err)
		}
		p.metrics.RowsRead.WithLabelValues("observations").Add(float64(len(obs.Records)))
		p.metrics.RowsRead.WithLabelValues("areas").Add(float64(len(areas)))

		table, jr := domain.Join(obs, areas)
		if jr.Unmatched > 0 {
			logger.Info("sightings without a hectare survey", "count", jr.Unmatched)
		}
		if jr.FannedOut > 0 {
			logger.Info("sightings matched by several hectare surveys", "count", jr.FannedOut)
		}

		path, err := p.store.WriteMerged(table)
		if err != nil {
			return fmt.Errorf("write merged table: %w", err)
		}
		p.metrics.RowsWritten.WithLabelValues("merged").Add(float64(len(table.Records)))

		r.RowsIn, r.RowsOut, r.Output = len(obs.Records), len(table.Records), path
		summary := domain.SummarizeMerged(table, topHectares)
		r.Join = &jr
		r.Summary = &summary
		r.Exports = p.export(ctx, logger, table)
		return nil
	})
}

// Info describes both raw exports. Missing files are reported, not returned
// as errors.
func (p *Pipeline) Info(_ context.Context) []domain.DatasetInfo {
	sources := []struct{ name, path string }{
		{"Squirrel data", p.source.ObservationPath()},
		{"Hectare data", p.source.AreaPath()},
	}

	infos := make([]domain.DatasetInfo, 0, len(sources))
	for _, s := range sources {
		info, err := p.inspector.Inspect(s.name, s.path)
		if err != nil {
			p.logger.Warn("dataset inspection failed", "name", s.name, "path", s.path, "error", err)
			info.Error = err.Error()
		}
		infos = append(infos, info)
	}
	return infos
}

// CheckReadiness reports whether both raw exports are present.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	for _, path := range []string{p.source.ObservationPath(), p.source.AreaPath()} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("raw export unavailable: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) export(ctx context.Context, logger *slog.Logger, table domain.MergedTable) []ExportResult {
	results := make([]ExportResult, 0, len(p.exporters))
	for _, e := range p.exporters {
		n, err := e.Export(ctx, table)
		res := ExportResult{Exporter: e.Name(), Records: n}
		if err != nil {
			logger.Error("export failed", "exporter", e.Name(), "error", err)
			res.Error = err.Error()
		} else {
			p.metrics.ExportedRecords.WithLabelValues(e.Name()).Add(float64(n))
			logger.Info("export complete", "exporter", e.Name(), "records", n)
		}
		results = append(results, res)
	}
	return results
}

// run wraps a stage with the output lock, timing, metrics, and report
// persistence.
func (p *Pipeline) run(ctx context.Context, stage string, fn func(context.Context, *Report, *slog.Logger) error) (*Report, error) {
	start := p.clock.Now()
	r := &Report{
		RunID:     uuid.NewString(),
		Stage:     stage,
		StartedAt: start.UTC(),
	}
	logger := p.logger.With("stage", stage, "run_id", r.RunID)

	unlock, err := p.store.Lock()
	if err != nil {
		p.metrics.StageFailures.WithLabelValues(stage).Inc()
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("release output lock", "error", err)
		}
	}()

	logger.Info("stage started")
	err = fn(ctx, r, logger)
	r.Duration = p.clock.Since(start)
	p.metrics.StageDuration.WithLabelValues(stage).Observe(r.Duration.Seconds())
	if err != nil {
		p.metrics.StageFailures.WithLabelValues(stage).Inc()
		logger.Error("stage failed", "error", err)
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	if err := p.store.SaveReport(stage, r); err != nil {
		p.metrics.StageFailures.WithLabelValues(stage).Inc()
		return r, fmt.Errorf("%s: save report: %w", stage, err)
	}

	logger.Info("stage complete",
		"rows_in", r.RowsIn,
		"rows_out", r.RowsOut,
		"output", r.Output,
		"duration", r.Duration,
	)
	return r, r.exportErr()
}

func (p *Pipeline) recordIssues(logger *slog.Logger, nr domain.NormalizeReport) {
	for _, issue := range nr.Issues {
		p.metrics.UnparsableFields.WithLabelValues(issue.Column).Inc()
		logger.Debug("unparsable field", "row", issue.Row, "column", issue.Column, "value", issue.Value)
	}
	if len(nr.Issues) > 0 {
		logger.Warn("unparsable fields resolved to null", "count", len(nr.Issues))
	}
}

func (p *Pipeline) recordImputation(logger *slog.Logger, ir domain.ImputeReport) {
	p.metrics.ImputedCells.WithLabelValues("date").Add(float64(ir.FilledFromDate))
	p.metrics.ImputedCells.WithLabelValues("overall").Add(float64(ir.FilledFromOverall))
	p.metrics.ImputedCells.WithLabelValues("unresolved").Add(float64(ir.Unresolved))

	logger.Info("weather imputed",
		"from_date", ir.FilledFromDate,
		"from_overall", ir.FilledFromOverall,
	)
	if ir.Unresolved > 0 {
		logger.Warn("weather left null, table has no readings", "rows", ir.Unresolved)
	}
}
