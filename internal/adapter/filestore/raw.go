package filestore

import (
	"slices"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

var rawObservationColumns = func() []string {
	cols := []string{
		domain.ColSquirrelID, domain.ColHectare, domain.ColShift,
		domain.ColDate, domain.ColAge, domain.ColFurColor,
	}
	return append(cols, domain.BehaviorColumns[:]...)
}()

var rawAreaColumns = []string{
	domain.ColHectare, domain.ColShift, domain.ColDate,
	domain.ColWeatherText, domain.ColOtherAnimals,
	domain.ColConditions, domain.ColSquirrelCount,
}

// ReadRawObservations loads the raw squirrel export. Columns beyond the ones
// the pipeline uses are ignored. Lat/Long is required and read only when the
// store retains geometry.
func (s *Store) ReadRawObservations() ([]domain.RawObservationRecord, error) {
	t, err := readTable(s.observationPath, rawComma)
	if err != nil {
		return nil, err
	}
	required := rawObservationColumns
	if s.retainGeometry {
		required = append(slices.Clone(required), domain.ColLatLong)
	}
	if err := t.require(required...); err != nil {
		return nil, err
	}

	out := make([]domain.RawObservationRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := domain.RawObservationRecord{
			SquirrelID:      t.text(row, domain.ColSquirrelID),
			Hectare:         t.text(row, domain.ColHectare),
			Shift:           t.text(row, domain.ColShift),
			Date:            t.cell(row, domain.ColDate),
			Age:             t.cell(row, domain.ColAge),
			PrimaryFurColor: t.cell(row, domain.ColFurColor),
		}
		if s.retainGeometry {
			rec.LatLong = t.cell(row, domain.ColLatLong)
		}
		for i, c := range domain.BehaviorColumns {
			rec.Behaviors[i] = t.cell(row, c)
		}
		out = append(out, rec)
	}

	s.logger.Debug("raw table read", "path", s.observationPath, "rows", len(out))
	return out, nil
}

// ReadRawAreas loads the raw hectare export.
func (s *Store) ReadRawAreas() ([]domain.RawAreaRecord, error) {
	t, err := readTable(s.areaPath, rawComma)
	if err != nil {
		return nil, err
	}
	if err := t.require(rawAreaColumns...); err != nil {
		return nil, err
	}

	out := make([]domain.RawAreaRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.RawAreaRecord{
			Hectare:       t.text(row, domain.ColHectare),
			Shift:         t.text(row, domain.ColShift),
			Date:          t.cell(row, domain.ColDate),
			Weather:       t.cell(row, domain.ColWeatherText),
			OtherAnimals:  t.cell(row, domain.ColOtherAnimals),
			Conditions:    t.verbatim(row, domain.ColConditions),
			SquirrelCount: t.verbatim(row, domain.ColSquirrelCount),
		})
	}

	s.logger.Debug("raw table read", "path", s.areaPath, "rows", len(out))
	return out, nil
}
