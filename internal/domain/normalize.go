package domain

import (
	"strconv"
	"strings"
)

// NormalizeOptions selects between the cleaning variants of the squirrel table.
type NormalizeOptions struct {
	// RetainGeometry keeps the location as X/Y columns. When false the
	// location is dropped and no coordinates are parsed.
	RetainGeometry bool
}

// FieldIssue records one cell that no extraction rule could parse. The cell
// is resolved to null and processing continues.
type FieldIssue struct {
	Row    int    `yaml:"row"`
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}

// NormalizeReport summarizes the changes made to one table.
type NormalizeReport struct {
	Rows int `yaml:"rows"`

	// Filled counts cells replaced by a default category, keyed by column.
	Filled map[string]int `yaml:"filled,omitempty"`

	// Missing counts empty source cells, keyed by column.
	Missing map[string]int `yaml:"missing,omitempty"`

	// Issues lists cells that did not match any extraction pattern.
	Issues []FieldIssue `yaml:"issues,omitempty"`
}

func newNormalizeReport(rows int) NormalizeReport {
	return NormalizeReport{
		Rows:    rows,
		Filled:  map[string]int{},
		Missing: map[string]int{},
	}
}

// UnparsableCount returns the number of unparsable cells for column, or for
// every column when column is empty.
func (r NormalizeReport) UnparsableCount(column string) int {
	n := 0
	for _, issue := range r.Issues {
		if column == "" || issue.Column == column {
			n++
		}
	}
	return n
}

func (r *NormalizeReport) unparsable(row int, column, value string) {
	r.Issues = append(r.Issues, FieldIssue{Row: row, Column: column, Value: value})
}

func (r *NormalizeReport) missing(column string, s *string) {
	if s == nil {
		r.Missing[column]++
	}
}

// NormalizeObservations cleans the squirrel table. Rows are never dropped:
// missing Age and Primary Fur Color become Unknown, behavior flags are coerced
// to booleans, and the location is split into X/Y when geometry is retained.
func NormalizeObservations(raws []RawObservationRecord, opts NormalizeOptions) (ObservationTable, NormalizeReport) {
	report := newNormalizeReport(len(raws))
	table := ObservationTable{
		HasGeometry: opts.RetainGeometry,
		Records:     make([]CleanedObservationRecord, 0, len(raws)),
	}

	for i, raw := range raws {
		report.missing(ColDate, raw.Date)

		rec := CleanedObservationRecord{
			SquirrelID:      raw.SquirrelID,
			Hectare:         raw.Hectare,
			Shift:           raw.Shift,
			Date:            raw.Date,
			Age:             fillUnknown(raw.Age, ColAge, &report),
			PrimaryFurColor: fillUnknown(raw.PrimaryFurColor, ColFurColor, &report),
		}

		for j, flag := range raw.Behaviors {
			report.missing(BehaviorColumns[j], flag)
			rec.Behaviors[j] = CoerceFlag(flag)
		}

		if opts.RetainGeometry {
			report.missing(ColLatLong, raw.LatLong)
			rec.X, rec.Y = ExtractCoordinates(raw.LatLong)
			if rec.X == nil && raw.LatLong != nil {
				report.unparsable(i, ColLatLong, *raw.LatLong)
			}
		}

		table.Records = append(table.Records, rec)
	}

	return table, report
}

// NormalizeAreas cleans the hectare table. The weather description becomes a
// numeric Weather reading and the other-animal description becomes the Dogs
// flag. Conditions and the squirrel count are carried over unmodified,
// including their whitespace.
// Weather is left nil where no reading could be extracted; see ImputeWeather.
func NormalizeAreas(raws []RawAreaRecord) ([]CleanedAreaRecord, NormalizeReport) {
	report := newNormalizeReport(len(raws))
	out := make([]CleanedAreaRecord, 0, len(raws))

	for i, raw := range raws {
		report.missing(ColDate, raw.Date)
		report.missing(ColWeatherText, raw.Weather)
		report.missing(ColOtherAnimals, raw.OtherAnimals)
		report.missing(ColConditions, raw.Conditions)
		report.missing(ColSquirrelCount, raw.SquirrelCount)

		rec := CleanedAreaRecord{
			Hectare:       raw.Hectare,
			Shift:         raw.Shift,
			Date:          raw.Date,
			Conditions:    raw.Conditions,
			SquirrelCount: raw.SquirrelCount,
			Weather:       ExtractTemperature(raw.Weather),
			Dogs:          ExtractDogs(raw.OtherAnimals),
		}
		if rec.Weather == nil && raw.Weather != nil && *raw.Weather != "" {
			report.unparsable(i, ColWeatherText, *raw.Weather)
		}

		out = append(out, rec)
	}

	return out, report
}

func fillUnknown(s *string, column string, report *NormalizeReport) string {
	if s == nil {
		report.Missing[column]++
		report.Filled[column]++
		return Unknown
	}
	return *s
}

// ParseCount reads a squirrel count as a whole number, including the "12.0"
// form some spreadsheet exports write.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
