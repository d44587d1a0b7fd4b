package domain

import "sort"

// HectareCount is the number of merged rows for one hectare.
type HectareCount struct {
	Hectare string `yaml:"hectare"`
	Count   int    `yaml:"count"`
}

// MergeSummary describes the content of a merged table.
type MergeSummary struct {
	Rows           int            `yaml:"rows"`
	UniqueHectares int            `yaml:"unique_hectares"`
	TopHectares    []HectareCount `yaml:"top_hectares"`

	// Missing counts null cells in the survey-side columns.
	Missing map[string]int `yaml:"missing"`
}

// MissingShare returns the fraction of rows with a null value in column.
func (s MergeSummary) MissingShare(column string) float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.Missing[column]) / float64(s.Rows)
}

// SummaryColumns are the survey-side columns whose missing cells are counted.
var SummaryColumns = []string{ColWeather, ColDogs, ColConditions, ColSquirrelCount}

// SummarizeMerged counts rows per hectare and null survey-side cells. The top
// hectares are ordered by row count, then by hectare code.
func SummarizeMerged(table MergedTable, top int) MergeSummary {
	s := MergeSummary{Rows: len(table.Records), Missing: make(map[string]int, len(SummaryColumns))}

	perHectare := make(map[string]int)
	for _, rec := range table.Records {
		perHectare[rec.Hectare]++
		for _, c := range SummaryColumns {
			if rec.Value(c) == nil {
				s.Missing[c]++
			}
		}
	}
	s.UniqueHectares = len(perHectare)

	counts := make([]HectareCount, 0, len(perHectare))
	for h, n := range perHectare {
		counts = append(counts, HectareCount{Hectare: h, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Hectare < counts[j].Hectare
	})
	if len(counts) > top {
		counts = counts[:top]
	}
	s.TopHectares = counts
	return s
}
