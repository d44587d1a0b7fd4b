package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

// ErrExport is wrapped by the error Merge returns when an exporter failed.
var ErrExport = errors.New("export failed")

// Report describes one stage run. It is returned to the caller and saved as
// YAML next to the stage output.
type Report struct {
	RunID     string        `yaml:"run_id"`
	Stage     string        `yaml:"stage"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	Inputs    []string      `yaml:"inputs,omitempty"`
	Output    string        `yaml:"output"`
	RowsIn    int           `yaml:"rows_in"`
	RowsOut   int           `yaml:"rows_out"`

	Normalize *domain.NormalizeReport `yaml:"normalize,omitempty"`
	Impute    *domain.ImputeReport    `yaml:"impute,omitempty"`
	Join      *domain.JoinReport      `yaml:"join,omitempty"`
	Summary   *domain.MergeSummary    `yaml:"summary,omitempty"`
	Exports   []ExportResult          `yaml:"exports,omitempty"`
}

// ExportResult is the outcome of one exporter in the merge stage.
type ExportResult struct {
	Exporter string `yaml:"exporter"`
	Records  int    `yaml:"records"`
	Error    string `yaml:"error,omitempty"`
}

func (r *Report) exportErr() error {
	var errs []error
	for _, e := range r.Exports {
		if e.Error != "" {
			errs = append(errs, fmt.Errorf("%w: %s: %s", ErrExport, e.Exporter, e.Error))
		}
	}
	return errors.Join(errs...)
}
