package filestore

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawObservationHeader = "X;Y;Unique Squirrel ID;Hectare;Shift;Date;Hectare Squirrel Number;Age;Primary Fur Color;" +
	"Running;Chasing;Climbing;Eating;Foraging;Kuks;Quaas;Moans;Tail flags;Tail twitches;Approaches;Indifferent;Runs from;Lat/Long\n"

const rawAreaHeader = "Hectare;Shift;Date;Anything Else;Total Time of Sighting;Number of Squirrels;Sighter Observed Weather Data;" +
	"Litter;Other Animal Sightings;Hectare Conditions\n"

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	return newTestStoreWithGeometry(t, true)
}

func newTestStoreWithGeometry(t *testing.T, retainGeometry bool) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ObservationFile: filepath.Join(dir, "squirrels.csv"),
		AreaFile:        filepath.Join(dir, "hectares.csv"),
		OutputDir:       filepath.Join(dir, "cleaned_data"),
		RetainGeometry:  retainGeometry,
	}
	return New(cfg, discardLogger()), dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestReadRawObservations(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.ObservationPath(), "\ufeff"+rawObservationHeader+
		"-73.95;40.79;37F-PM-1014-03;37F;PM;10142018;3;;;FALSE;FALSE;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;POINT (-73.9561344937861 40.7940823884086)\n"+
		"-73.96;40.78;21B-AM-1019-04;21B;AM;10192018;4;Adult;Gray;TRUE; ;;;;;;;;;;;;\n")

	raws, err := s.ReadRawObservations()
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, "37F-PM-1014-03", first.SquirrelID)
	assert.Equal(t, "37F", first.Hectare)
	assert.Equal(t, "PM", first.Shift)
	assert.Equal(t, ptr("10142018"), first.Date)
	assert.Nil(t, first.Age)
	assert.Nil(t, first.PrimaryFurColor)
	assert.Equal(t, ptr("TRUE"), first.Behaviors[2])
	assert.Equal(t, ptr("POINT (-73.9561344937861 40.7940823884086)"), first.LatLong)

	second := raws[1]
	assert.Equal(t, ptr("Adult"), second.Age)
	assert.Equal(t, ptr("TRUE"), second.Behaviors[0])
	assert.Nil(t, second.Behaviors[1], "blank cell is absent")
	assert.Nil(t, second.LatLong)
}

func TestReadRawAreas(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.AreaPath(), rawAreaHeader+
		"01A;AM;10062018;;;3;65º F, sunny;;Dog, Pigeon;Busy\n"+
		"01A;PM;10062018;;;;;;;\n")

	raws, err := s.ReadRawAreas()
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, domain.RawAreaRecord{
		Hectare:       "01A",
		Shift:         "AM",
		Date:          ptr("10062018"),
		Weather:       ptr("65º F, sunny"),
		OtherAnimals:  ptr("Dog, Pigeon"),
		Conditions:    ptr("Busy"),
		SquirrelCount: ptr("3"),
	}, raws[0])
	assert.Nil(t, raws[1].Weather)
	assert.Nil(t, raws[1].SquirrelCount)
}

func TestReadRawObservations_LatLongColumn(t *testing.T) {
	const header = "X;Y;Unique Squirrel ID;Hectare;Shift;Date;Hectare Squirrel Number;Age;Primary Fur Color;" +
		"Running;Chasing;Climbing;Eating;Foraging;Kuks;Quaas;Moans;Tail flags;Tail twitches;Approaches;Indifferent;Runs from\n"
	const body = "-73.96;40.78;21B-AM-1019-04;21B;AM;10192018;4;Adult;Gray;TRUE;;;;;;;;;;;;\n"

	t.Run("optional without geometry", func(t *testing.T) {
		s, _ := newTestStoreWithGeometry(t, false)
		writeFile(t, s.ObservationPath(), header+body)

		raws, err := s.ReadRawObservations()
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, "21B-AM-1019-04", raws[0].SquirrelID)
		assert.Nil(t, raws[0].LatLong)
	})

	t.Run("ignored without geometry", func(t *testing.T) {
		s, _ := newTestStoreWithGeometry(t, false)
		writeFile(t, s.ObservationPath(), rawObservationHeader+strings.TrimSuffix(body, "\n")+";POINT (-73.96 40.78)\n")

		raws, err := s.ReadRawObservations()
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Nil(t, raws[0].LatLong)
	})

	t.Run("required with geometry", func(t *testing.T) {
		s, _ := newTestStoreWithGeometry(t, true)
		writeFile(t, s.ObservationPath(), header+body)

		_, err := s.ReadRawObservations()
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ColLatLong)
	})
}

func TestReadRawAreas_KeepsConditionsAndCountAsWritten(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.AreaPath(), rawAreaHeader+
		"01A;AM;10062018;;;about 5;;;; Busy, Calm \n"+
		"01A;PM;10062018;;; 4 ;;;;   \n")

	raws, err := s.ReadRawAreas()
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, ptr("about 5"), raws[0].SquirrelCount)
	assert.Equal(t, ptr(" Busy, Calm "), raws[0].Conditions)
	assert.Equal(t, ptr(" 4 "), raws[1].SquirrelCount)
	assert.Nil(t, raws[1].Conditions, "blank cell is absent")

	areas, _ := domain.NormalizeAreas(raws)
	_, err = s.WriteAreas(areas)
	require.NoError(t, err)

	got, err := s.ReadAreas()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ptr("about 5"), got[0].SquirrelCount)
	assert.Equal(t, ptr(" Busy, Calm "), got[0].Conditions)
	assert.Equal(t, ptr(" 4 "), got[1].SquirrelCount)
}

func TestReadRaw_MissingFile(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.ReadRawObservations()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingInput))

	var missing *domain.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, s.ObservationPath(), missing.Path)

	_, err = s.ReadRawAreas()
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestReadRaw_MissingColumns(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.AreaPath(), "Hectare;Shift;Date\n01A;AM;10062018\n")

	_, err := s.ReadRawAreas()
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMissingInput)
	assert.Contains(t, err.Error(), "Sighter Observed Weather Data")
}

func cleanedObservations() domain.ObservationTable {
	a := domain.CleanedObservationRecord{
		SquirrelID:      "37F-PM-1014-03",
		Hectare:         "37F",
		Shift:           "PM",
		Date:            ptr("10142018"),
		Age:             domain.Unknown,
		PrimaryFurColor: "Gray",
		X:               ptr(-73.9561344937861),
		Y:               ptr(40.7940823884086),
	}
	a.Behaviors[2] = true
	b := domain.CleanedObservationRecord{
		SquirrelID:      "id, with comma",
		Hectare:         "21B",
		Shift:           "AM",
		Age:             "Adult",
		PrimaryFurColor: domain.Unknown,
	}
	b.Behaviors[11] = true
	return domain.ObservationTable{HasGeometry: true, Records: []domain.CleanedObservationRecord{a, b}}
}

func TestObservations_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	want := cleanedObservations()

	path, err := s.WriteObservations(want)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.OutputDir(), ObservationsFile), path)

	got, err := s.ReadObservations()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("observations changed on round trip (-want +got):\n%s", diff)
	}
}

func TestObservations_WithoutGeometry(t *testing.T) {
	s, _ := newTestStore(t)
	want := cleanedObservations()
	want.HasGeometry = false
	for i := range want.Records {
		want.Records[i].X, want.Records[i].Y = nil, nil
	}

	_, err := s.WriteObservations(want)
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path(ObservationsFile))
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, strings.Join(domain.ObservationColumns(false), ","), header)

	got, err := s.ReadObservations()
	require.NoError(t, err)
	assert.False(t, got.HasGeometry)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("observations changed on round trip (-want +got):\n%s", diff)
	}
}

func TestAreas_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	want := []domain.CleanedAreaRecord{
		{Hectare: "01A", Shift: "AM", Date: ptr("10062018"), Conditions: ptr("Busy"), SquirrelCount: ptr("3"), Weather: ptr(65.0), Dogs: true},
		{Hectare: "01A", Shift: "PM", Weather: ptr(60.3)},
	}

	_, err := s.WriteAreas(want)
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path(AreasFile))
	require.NoError(t, err)
	assert.Equal(t,
		"Hectare,Shift,Date,Hectare Conditions,Number of Squirrels,Weather,Dogs\n"+
			"01A,AM,10062018,Busy,3,65.0,true\n"+
			"01A,PM,,,,60.3,false\n",
		string(data))

	got, err := s.ReadAreas()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("areas changed on round trip (-want +got):\n%s", diff)
	}
}

func TestMerged_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	obs := cleanedObservations()
	want := domain.MergedTable{
		Columns: domain.MergedColumns(true),
		Records: []domain.MergedRecord{
			{
				CleanedObservationRecord: obs.Records[0],
				Conditions:               ptr("Busy"),
				SquirrelCount:            ptr("3"),
				Weather:                  ptr(65.0),
				Dogs:                     ptr(true),
			},
			{CleanedObservationRecord: obs.Records[1]},
		},
	}

	_, err := s.WriteMerged(want)
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path(MergedFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "X;Y;Unique Squirrel ID;Hectare;"))

	got, err := s.ReadMerged()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged table changed on round trip (-want +got):\n%s", diff)
	}
}

func TestReadCleaned_Missing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.ReadObservations()
	assert.ErrorIs(t, err, domain.ErrMissingInput)
	_, err = s.ReadAreas()
	assert.ErrorIs(t, err, domain.ErrMissingInput)
	_, err = s.ReadMerged()
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestReadAreas_BadNumber(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.OutputDir(), 0o755))
	writeFile(t, s.Path(AreasFile),
		"Hectare,Shift,Date,Hectare Conditions,Number of Squirrels,Weather,Dogs\n"+
			"01A,AM,10062018,,3,warm,false\n")

	_, err := s.ReadAreas()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "Weather")
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	require.NoError(t, WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	}))

	failure := errors.New("disk on fire")
	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return failure
	})
	require.ErrorIs(t, err, failure)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data), "failed write leaves previous file intact")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestLock(t *testing.T) {
	s, _ := newTestStore(t)

	unlock, err := s.Lock()
	require.NoError(t, err)

	other := New(&config.Config{OutputDir: s.OutputDir()}, discardLogger())
	_, err = other.Lock()
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())

	unlock, err = other.Lock()
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestReports(t *testing.T) {
	s, _ := newTestStore(t)

	type report struct {
		Stage string `yaml:"stage"`
		Rows  int    `yaml:"rows"`
	}

	require.NoError(t, s.SaveReport("merge", report{Stage: "merge", Rows: 7}))

	data, err := os.ReadFile(s.ReportPath("merge"))
	require.NoError(t, err)
	assert.Equal(t, "stage: merge\nrows: 7\n", string(data))

	var got report
	require.NoError(t, s.LoadReport("merge", &got))
	assert.Equal(t, report{Stage: "merge", Rows: 7}, got)

	err = s.LoadReport("clean-areas", &got)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
