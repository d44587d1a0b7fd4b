package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordValue(t *testing.T) {
	obs := CleanedObservationRecord{
		SquirrelID:      "x",
		Hectare:         "01A",
		Shift:           "AM",
		Age:             "Juvenile",
		PrimaryFurColor: "Cinnamon",
		X:               ptr(-73.9),
	}
	obs.Behaviors[2] = true

	assert.Equal(t, "x", obs.Value(ColSquirrelID))
	assert.Nil(t, obs.Value(ColDate))
	assert.Equal(t, "Cinnamon", obs.Value(ColFurColor))
	assert.Equal(t, true, obs.Value("Climbing"))
	assert.Equal(t, false, obs.Value("Chasing"))
	assert.Equal(t, -73.9, obs.Value(ColX))
	assert.Nil(t, obs.Value(ColY))
	assert.Nil(t, obs.Value("no such column"))

	a := CleanedAreaRecord{Hectare: "01A", SquirrelCount: ptr("4"), Weather: ptr(61.5), Dogs: true}
	assert.Equal(t, "4", a.Value(ColSquirrelCount))
	assert.Equal(t, 61.5, a.Value(ColWeather))
	assert.Equal(t, true, a.Value(ColDogs))
	assert.Nil(t, a.Value(ColConditions))

	m := MergedRecord{CleanedObservationRecord: obs, Dogs: ptr(false)}
	assert.Equal(t, "01A", m.Value(ColHectare))
	assert.Equal(t, false, m.Value(ColDogs))
	assert.Nil(t, m.Value(ColWeather))
}

func TestMergedRecordTypedValue(t *testing.T) {
	tests := []struct {
		name  string
		count *string
		want  any
	}{
		{"whole number", ptr("4"), 4},
		{"spreadsheet float", ptr("12.0"), 12},
		{"free text", ptr("about 5"), "about 5"},
		{"null", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MergedRecord{SquirrelCount: tt.count, Weather: ptr(61.5)}
			assert.Equal(t, tt.want, m.TypedValue(ColSquirrelCount))
			assert.Equal(t, 61.5, m.TypedValue(ColWeather))
		})
	}
}

func TestColumns(t *testing.T) {
	assert.Len(t, ObservationColumns(false), 6+BehaviorCount)
	assert.Equal(t, []string{ColX, ColY}, ObservationColumns(true)[6+BehaviorCount:])
	assert.Equal(t, []string{ColHectare, ColShift, ColDate, ColConditions, ColSquirrelCount, ColWeather, ColDogs}, AreaColumns())
}
