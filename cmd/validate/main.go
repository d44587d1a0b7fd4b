// Command validate checks the files written by the census stages against the
// raw exports and against each other: row parity, imputation, geometry,
// join cardinality, and, when a database is given, the SQLite export.
//
// It reads the same environment as the census command. Run it after all
// three stages have completed:
//
//	go run ./cmd/validate -sqlite cleaned_data/census.db
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/filestore"
	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/couchcryptid/squirrel-census-etl/internal/observability"
	"github.com/couchcryptid/squirrel-census-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// tables holds everything the phases compare.
type tables struct {
	rawObservations []domain.RawObservationRecord
	rawAreas        []domain.RawAreaRecord
	observations    domain.ObservationTable
	areas           []domain.CleanedAreaRecord
	merged          domain.MergedTable
	mergeReport     *pipeline.Report
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	dbPath := flag.String("sqlite", cfg.SQLitePath, "SQLite export to check (optional)")
	flag.Parse()

	if code := run(cfg, *dbPath); code != 0 {
		os.Exit(code)
	}
}

func run(cfg *config.Config, dbPath string) int {
	ctx := context.Background()
	logger := observability.NewLogger(cfg)
	store := filestore.New(cfg, logger)

	fmt.Println("=== Squirrel Census Integrity Validation ===")
	fmt.Println()

	t, err := load(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRowParity(t),
		validateCleanedValues(t),
		validateJoin(t),
	}
	if dbPath != "" {
		phases = append(phases, validateSQLite(ctx, dbPath, t, logger))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw squirrel, %d raw hectare, %d merged\n",
		len(t.rawObservations), len(t.rawAreas), len(t.merged.Records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load(store *filestore.Store) (*tables, error) {
	var t tables
	var err error

	if t.rawObservations, err = store.ReadRawObservations(); err != nil {
		return nil, fmt.Errorf("read raw squirrel data: %w", err)
	}
	if t.rawAreas, err = store.ReadRawAreas(); err != nil {
		return nil, fmt.Errorf("read raw hectare data: %w", err)
	}
	if t.observations, err = store.ReadObservations(); err != nil {
		return nil, fmt.Errorf("read cleaned squirrel data: %w", err)
	}
	if t.areas, err = store.ReadAreas(); err != nil {
		return nil, fmt.Errorf("read cleaned hectare data: %w", err)
	}
	if t.merged, err = store.ReadMerged(); err != nil {
		return nil, fmt.Errorf("read merged data: %w", err)
	}

	var report pipeline.Report
	switch err := store.LoadReport(pipeline.StageMerge, &report); {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Println("  Note: no merge report found, skipping report checks")
	case err != nil:
		return nil, err
	default:
		t.mergeReport = &report
	}
	return &t, nil
}

// ── Phase 1: Row Parity ──
// Cleaning never adds or drops rows.

func validateRowParity(t *tables) *phase {
	p := &phase{name: "Phase 1: Row Parity (cleaned vs raw)"}

	if got, want := len(t.observations.Records), len(t.rawObservations); got != want {
		p.errorf("squirrel data: raw has %d rows, cleaned has %d", want, got)
	}
	if got, want := len(t.areas), len(t.rawAreas); got != want {
		p.errorf("hectare data: raw has %d rows, cleaned has %d", want, got)
	}

	n := min(len(t.observations.Records), len(t.rawObservations))
	for i := range n {
		if got, want := t.observations.Records[i].SquirrelID, t.rawObservations[i].SquirrelID; got != want {
			p.errorf("squirrel row %d: id %q, raw has %q", i, got, want)
		}
	}
	n = min(len(t.areas), len(t.rawAreas))
	for i := range n {
		if got, want := t.areas[i].Key(), (domain.Key{Hectare: t.rawAreas[i].Hectare, Shift: t.rawAreas[i].Shift}); got != want {
			p.errorf("hectare row %d: key %v, raw has %v", i, got, want)
		}
	}
	return p
}

// ── Phase 2: Cleaned Values ──
// Categories are filled, geometry is all-or-nothing, and Weather is imputed
// and rounded.

func validateCleanedValues(t *tables) *phase {
	p := &phase{name: "Phase 2: Cleaned Values"}

	for i, rec := range t.observations.Records {
		if rec.Age == "" {
			p.errorf("squirrel row %d: empty Age", i)
		}
		if rec.PrimaryFurColor == "" {
			p.errorf("squirrel row %d: empty Primary Fur Color", i)
		}
		if (rec.X == nil) != (rec.Y == nil) {
			p.errorf("squirrel row %d: only one of X and Y is set", i)
		}
		if !t.observations.HasGeometry && rec.X != nil {
			p.errorf("squirrel row %d: coordinates in a table without geometry", i)
		}
	}

	hasReading := false
	for _, raw := range t.rawAreas {
		if domain.ExtractTemperature(raw.Weather) != nil {
			hasReading = true
			break
		}
	}
	for i, rec := range t.areas {
		switch {
		case rec.Weather == nil && hasReading:
			p.errorf("hectare row %d: Weather not imputed", i)
		case rec.Weather != nil && math.Abs(*rec.Weather*10-math.Round(*rec.Weather*10)) > 1e-6:
			p.errorf("hectare row %d: Weather %g not rounded to one decimal", i, *rec.Weather)
		}
	}
	return p
}

// ── Phase 3: Join ──
// The merged table is the left join of the cleaned tables, and agrees with
// the saved merge report.

func validateJoin(t *tables) *phase {
	p := &phase{name: "Phase 3: Join (merged vs cleaned)"}

	expected, report := domain.Join(t.observations, t.areas)
	if diff := cmp.Diff(expected, t.merged); diff != "" {
		p.errorf("merged table differs from the join of the cleaned tables (-want +got):\n%s", diff)
	}

	ids := make(map[string]struct{}, len(t.observations.Records))
	for _, rec := range t.observations.Records {
		ids[rec.SquirrelID] = struct{}{}
	}
	for i, rec := range t.merged.Records {
		if _, ok := ids[rec.SquirrelID]; !ok {
			p.errorf("merged row %d: squirrel %q not in cleaned data", i, rec.SquirrelID)
		}
	}

	if len(t.merged.Records) < len(t.observations.Records) {
		p.errorf("merged table has %d rows, fewer than the %d sightings", len(t.merged.Records), len(t.observations.Records))
	}

	if r := t.mergeReport; r != nil && r.Join != nil {
		if r.Join.OutputRows != len(t.merged.Records) {
			p.errorf("merge report: %d output rows, merged table has %d", r.Join.OutputRows, len(t.merged.Records))
		}
		if r.Join.Unmatched != report.Unmatched {
			p.errorf("merge report: %d unmatched, recomputed %d", r.Join.Unmatched, report.Unmatched)
		}
		if r.Join.FannedOut != report.FannedOut {
			p.errorf("merge report: %d fanned out, recomputed %d", r.Join.FannedOut, report.FannedOut)
		}
	}
	return p
}

// ── Phase 4: SQLite Export ──
// The database holds the merged table, row for row per join key.

func validateSQLite(ctx context.Context, path string, t *tables, logger *slog.Logger) *phase {
	p := &phase{name: "Phase 4: SQLite Export"}

	db, err := sqlite.Open(ctx, path, logger)
	if err != nil {
		p.errorf("open %s: %v", path, err)
		return p
	}
	defer db.Close()

	got, err := db.CountByKey(ctx)
	if err != nil {
		p.errorf("%v", err)
		return p
	}

	want := make(map[domain.Key]int)
	for _, rec := range t.merged.Records {
		want[rec.Key()]++
	}
	if diff := cmp.Diff(want, got); diff != "" {
		p.errorf("rows per (Hectare, Shift) differ from the merged table (-want +got):\n%s", diff)
	}
	return p
}
