package domain

import "math"

// ImputeReport summarizes a Weather imputation pass.
type ImputeReport struct {
	// DateMeans holds the mean original reading per survey date.
	DateMeans map[string]float64 `yaml:"date_means,omitempty"`

	// OverallMean is the mean of all original readings, nil when the table
	// has none.
	OverallMean *float64 `yaml:"overall_mean,omitempty"`

	FilledFromDate    int `yaml:"filled_from_date"`
	FilledFromOverall int `yaml:"filled_from_overall"`

	// Unresolved counts rows left null because no aggregate was defined.
	Unresolved int `yaml:"unresolved"`
}

// ImputeWeather fills every nil Weather in place. A missing reading takes the
// mean of the same date's readings, falling back to the mean of the whole
// table, and stays nil only when the table has no readings at all. Both
// aggregates are computed from the original readings before any row is
// modified. Every resulting reading is rounded to one decimal place.
func ImputeWeather(records []CleanedAreaRecord) ImputeReport {
	report := ImputeReport{DateMeans: map[string]float64{}}

	sums := map[string]float64{}
	counts := map[string]int{}
	var total float64
	var n int
	for _, r := range records {
		if r.Weather == nil {
			continue
		}
		total += *r.Weather
		n++
		if r.Date != nil {
			sums[*r.Date] += *r.Weather
			counts[*r.Date]++
		}
	}
	for date, sum := range sums {
		report.DateMeans[date] = sum / float64(counts[date])
	}
	if n > 0 {
		mean := total / float64(n)
		report.OverallMean = &mean
	}

	for i := range records {
		r := &records[i]
		if r.Weather != nil {
			v := roundTenth(*r.Weather)
			r.Weather = &v
			continue
		}

		if r.Date != nil {
			if mean, ok := report.DateMeans[*r.Date]; ok {
				v := roundTenth(mean)
				r.Weather = &v
				report.FilledFromDate++
				continue
			}
		}

		if report.OverallMean != nil {
			v := roundTenth(*report.OverallMean)
			r.Weather = &v
			report.FilledFromOverall++
			continue
		}

		report.Unresolved++
	}

	return report
}

// roundTenth rounds to one decimal place, ties to even.
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
