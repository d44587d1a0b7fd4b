package menu

import (
	"errors"
	"strings"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/couchcryptid/squirrel-census-etl/internal/pipeline"
)

// printStage prints the report of a stage run, then its error. A stage can
// return both when its output was written but an exporter failed.
func (m *Menu) printStage(title string, r *pipeline.Report, err error) {
	if r != nil {
		m.printReport(title, r)
	}
	if err == nil {
		return
	}

	var missing *domain.MissingInputError
	if errors.As(err, &missing) {
		m.printf("Error: %s failed, input file not found: %s\n", strings.ToLower(title), missing.Path)
		return
	}
	m.printf("Error: %s failed: %v\n", strings.ToLower(title), err)
}

func (m *Menu) printReport(title string, r *pipeline.Report) {
	m.printf("\n%s complete!\n", title)
	m.printf("Final dataset: %d rows (from %d)\n", r.RowsOut, r.RowsIn)
	m.printf("Saved as: %s\n", r.Output)

	if n := r.Normalize; n != nil {
		for _, c := range []string{domain.ColAge, domain.ColFurColor} {
			if filled := n.Filled[c]; filled > 0 {
				m.printf("Missing %s filled with %q: %d\n", c, domain.Unknown, filled)
			}
		}
		if issues := n.UnparsableCount(""); issues > 0 {
			m.printf("Unparsable values set to empty: %d\n", issues)
		}
	}

	if im := r.Impute; im != nil {
		m.printf("Weather imputed from same-day average: %d\n", im.FilledFromDate)
		m.printf("Weather imputed from overall average: %d\n", im.FilledFromOverall)
		if im.OverallMean != nil {
			m.printf("Overall average temperature: %.1f\n", *im.OverallMean)
		}
		if im.Unresolved > 0 {
			m.printf("Weather left empty (no readings in table): %d\n", im.Unresolved)
		}
	}

	if j := r.Join; j != nil {
		m.printf("Hectare+shift keys: %d in squirrel data, %d in hectare data, %d in both\n",
			j.ObservationKeys, j.AreaKeys, j.SharedKeys)
		m.printf("Sightings without a hectare survey: %d\n", j.Unmatched)
		m.printf("Sightings matching several surveys: %d\n", j.FannedOut)
	}

	if s := r.Summary; s != nil {
		m.printf("Unique hectares: %d\n", s.UniqueHectares)
		if len(s.TopHectares) > 0 {
			m.printf("Top hectares by observations:\n")
			for _, h := range s.TopHectares {
				m.printf("  %-5s %d\n", h.Hectare, h.Count)
			}
		}
		m.printf("Missing values in key columns:\n")
		for _, c := range domain.SummaryColumns {
			m.printf("  %s: %d (%.1f%%)\n", c, s.Missing[c], 100*s.MissingShare(c))
		}
	}

	for _, e := range r.Exports {
		if e.Error != "" {
			continue
		}
		m.printf("Exported %d records to %s\n", e.Records, e.Exporter)
	}
}

func (m *Menu) printInfo(infos []domain.DatasetInfo) {
	m.printf("\n%s\nDATASET INFORMATION\n%s\n", rule, rule)
	for _, info := range infos {
		switch {
		case !info.Found:
			m.printf("%s: File not found (%s)\n", info.Name, info.Path)
		case info.Error != "":
			m.printf("%s: could not be read: %s\n", info.Name, info.Error)
		default:
			m.printf("%s:\n", info.Name)
			m.printf("   - Rows: %d\n", info.Rows)
			m.printf("   - Columns: %d\n", info.Columns)
			m.printf("   - File: %s\n", info.Path)
			if missing := totalMissing(info.Missing); missing > 0 {
				m.printf("   - Empty cells: %d across %d columns\n", missing, len(info.Missing))
			}
		}
	}
	m.printf("\nCleaning outputs will be saved to '%s/' folder\n", m.outputDir)
}

func totalMissing(missing map[string]int) int {
	n := 0
	for _, v := range missing {
		n += v
	}
	return n
}
