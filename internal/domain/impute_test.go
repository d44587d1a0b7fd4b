package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func area(hectare, shift string, date *string, weather *float64) CleanedAreaRecord {
	return CleanedAreaRecord{Hectare: hectare, Shift: shift, Date: date, Weather: weather}
}

func TestImputeWeather_DateThenOverall(t *testing.T) {
	records := []CleanedAreaRecord{
		area("01A", "AM", ptr("d1"), ptr(60.0)),
		area("01A", "PM", ptr("d1"), ptr(71.0)),
		area("02A", "AM", ptr("d1"), nil),
		area("02A", "PM", ptr("d2"), nil),
		area("03A", "AM", ptr("d3"), ptr(50.04)),
		area("03A", "PM", nil, nil),
	}

	report := ImputeWeather(records)

	assert.Equal(t, ptr(60.0), records[0].Weather)
	assert.Equal(t, ptr(71.0), records[1].Weather)
	assert.Equal(t, ptr(65.5), records[2].Weather, "date mean")
	assert.Equal(t, ptr(60.3), records[3].Weather, "overall mean, date has no readings")
	assert.Equal(t, ptr(50.0), records[4].Weather, "existing reading rounded")
	assert.Equal(t, ptr(60.3), records[5].Weather, "overall mean, no date")

	assert.Equal(t, 1, report.FilledFromDate)
	assert.Equal(t, 2, report.FilledFromOverall)
	assert.Zero(t, report.Unresolved)
	require.NotNil(t, report.OverallMean)
	assert.InDelta(t, 60.3467, *report.OverallMean, 0.0001)
	assert.Equal(t, 65.5, report.DateMeans["d1"])
	assert.NotContains(t, report.DateMeans, "d2")
}

func TestImputeWeather_UsesOriginalReadingsOnly(t *testing.T) {
	// If the date-filled 60 were counted, the overall mean would be 66.7.
	records := []CleanedAreaRecord{
		area("01A", "AM", ptr("d1"), ptr(60.0)),
		area("01A", "PM", ptr("d1"), nil),
		area("02A", "AM", ptr("d2"), ptr(80.0)),
		area("02A", "PM", ptr("d3"), nil),
	}

	ImputeWeather(records)

	assert.Equal(t, ptr(60.0), records[1].Weather)
	assert.Equal(t, ptr(70.0), records[3].Weather)
}

func TestImputeWeather_NoReadings(t *testing.T) {
	records := []CleanedAreaRecord{
		area("01A", "AM", ptr("d1"), nil),
		area("01A", "PM", nil, nil),
	}

	report := ImputeWeather(records)

	assert.Nil(t, records[0].Weather)
	assert.Nil(t, records[1].Weather)
	assert.Nil(t, report.OverallMean)
	assert.Equal(t, 2, report.Unresolved)
}

func TestImputeWeather_Empty(t *testing.T) {
	report := ImputeWeather(nil)
	assert.Nil(t, report.OverallMean)
	assert.Zero(t, report.Unresolved)
}

func TestImputeWeather_FixedPoint(t *testing.T) {
	records := []CleanedAreaRecord{
		area("01A", "AM", ptr("d1"), ptr(61.26)),
		area("01A", "PM", ptr("d1"), nil),
		area("02A", "AM", ptr("d2"), ptr(55.0)),
		area("02A", "PM", nil, nil),
	}
	ImputeWeather(records)

	once := make([]CleanedAreaRecord, len(records))
	copy(once, records)

	report := ImputeWeather(records)

	if diff := cmp.Diff(once, records); diff != "" {
		t.Errorf("second imputation changed the table (-once +twice):\n%s", diff)
	}
	assert.Zero(t, report.FilledFromDate)
	assert.Zero(t, report.FilledFromOverall)
	for _, r := range records {
		require.NotNil(t, r.Weather)
	}
}

func TestImputeWeather_TiedMeanRoundsToEven(t *testing.T) {
	records := []CleanedAreaRecord{
		area("01A", "AM", ptr("d1"), ptr(65.0)),
		area("02A", "AM", ptr("d1"), ptr(65.0)),
		area("03A", "AM", ptr("d1"), ptr(65.0)),
		area("04A", "AM", ptr("d1"), ptr(66.0)),
		area("05A", "AM", ptr("d1"), nil),
	}

	report := ImputeWeather(records)

	assert.Equal(t, 65.25, report.DateMeans["d1"])
	assert.Equal(t, ptr(65.2), records[4].Weather)
}

func TestRoundTenth(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{65.0, 65.0},
		{65.44, 65.4},
		{65.25, 65.2},
		{65.75, 65.8},
		{-3.25, -3.2},
		{0.04, 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, roundTenth(tt.in), 1e-9, "roundTenth(%v)", tt.in)
	}
}
