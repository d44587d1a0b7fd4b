package filestore

import (
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

// WriteObservations writes the cleaned squirrel table and returns its path.
func (s *Store) WriteObservations(obs domain.ObservationTable) (string, error) {
	cols := domain.ObservationColumns(obs.HasGeometry)
	rows := make([][]string, len(obs.Records))
	for i, rec := range obs.Records {
		rows[i] = formatRow(cols, rec)
	}
	return s.write(ObservationsFile, cleanedComma, cols, rows)
}

// WriteAreas writes the cleaned hectare table and returns its path.
func (s *Store) WriteAreas(areas []domain.CleanedAreaRecord) (string, error) {
	cols := domain.AreaColumns()
	rows := make([][]string, len(areas))
	for i, rec := range areas {
		rows[i] = formatRow(cols, rec)
	}
	return s.write(AreasFile, cleanedComma, cols, rows)
}

// WriteMerged writes the joined table in its column order and returns its
// path.
func (s *Store) WriteMerged(merged domain.MergedTable) (string, error) {
	rows := make([][]string, len(merged.Records))
	for i, rec := range merged.Records {
		rows[i] = formatRow(merged.Columns, rec)
	}
	return s.write(MergedFile, mergedComma, merged.Columns, rows)
}

func (s *Store) write(name string, comma rune, cols []string, rows [][]string) (string, error) {
	path := s.Path(name)
	if err := writeTable(path, comma, cols, rows); err != nil {
		return "", err
	}
	s.logger.Debug("table written", "path", path, "rows", len(rows))
	return path, nil
}

// ReadObservations loads the cleaned squirrel table. The table carries
// geometry when the file has X and Y columns.
func (s *Store) ReadObservations() (domain.ObservationTable, error) {
	t, err := readTable(s.Path(ObservationsFile), cleanedComma)
	if err != nil {
		return domain.ObservationTable{}, err
	}
	if err := t.require(domain.ObservationColumns(false)...); err != nil {
		return domain.ObservationTable{}, err
	}

	obs := domain.ObservationTable{
		HasGeometry: t.has(domain.ColX) && t.has(domain.ColY),
		Records:     make([]domain.CleanedObservationRecord, 0, len(t.rows)),
	}
	for i, row := range t.rows {
		rec, err := t.observation(row, obs.HasGeometry)
		if err != nil {
			return domain.ObservationTable{}, t.rowError(i, err)
		}
		obs.Records = append(obs.Records, rec)
	}
	return obs, nil
}

// ReadAreas loads the cleaned hectare table.
func (s *Store) ReadAreas() ([]domain.CleanedAreaRecord, error) {
	t, err := readTable(s.Path(AreasFile), cleanedComma)
	if err != nil {
		return nil, err
	}
	if err := t.require(domain.AreaColumns()...); err != nil {
		return nil, err
	}

	out := make([]domain.CleanedAreaRecord, 0, len(t.rows))
	for i, row := range t.rows {
		rec := domain.CleanedAreaRecord{
			Hectare:       t.text(row, domain.ColHectare),
			Shift:         t.text(row, domain.ColShift),
			Date:          t.cell(row, domain.ColDate),
			Conditions:    t.verbatim(row, domain.ColConditions),
			SquirrelCount: t.verbatim(row, domain.ColSquirrelCount),
			Dogs:          domain.CoerceFlag(t.cell(row, domain.ColDogs)),
		}
		if rec.Weather, err = t.float(row, domain.ColWeather); err != nil {
			return nil, t.rowError(i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadMerged loads the joined table written by WriteMerged.
func (s *Store) ReadMerged() (domain.MergedTable, error) {
	t, err := readTable(s.Path(MergedFile), mergedComma)
	if err != nil {
		return domain.MergedTable{}, err
	}
	hasGeometry := t.has(domain.ColX) && t.has(domain.ColY)
	merged := domain.MergedTable{Columns: domain.MergedColumns(hasGeometry)}
	if err := t.require(merged.Columns...); err != nil {
		return domain.MergedTable{}, err
	}

	merged.Records = make([]domain.MergedRecord, 0, len(t.rows))
	for i, row := range t.rows {
		obs, err := t.observation(row, hasGeometry)
		if err != nil {
			return domain.MergedTable{}, t.rowError(i, err)
		}
		rec := domain.MergedRecord{
			CleanedObservationRecord: obs,
			Conditions:               t.verbatim(row, domain.ColConditions),
			SquirrelCount:            t.verbatim(row, domain.ColSquirrelCount),
		}
		if rec.Weather, err = t.float(row, domain.ColWeather); err != nil {
			return domain.MergedTable{}, t.rowError(i, err)
		}
		if v := t.cell(row, domain.ColDogs); v != nil {
			dogs := domain.CoerceFlag(v)
			rec.Dogs = &dogs
		}
		merged.Records = append(merged.Records, rec)
	}
	return merged, nil
}

func (t *table) observation(row []string, hasGeometry bool) (domain.CleanedObservationRecord, error) {
	rec := domain.CleanedObservationRecord{
		SquirrelID:      t.text(row, domain.ColSquirrelID),
		Hectare:         t.text(row, domain.ColHectare),
		Shift:           t.text(row, domain.ColShift),
		Date:            t.cell(row, domain.ColDate),
		Age:             t.text(row, domain.ColAge),
		PrimaryFurColor: t.text(row, domain.ColFurColor),
	}
	for i, c := range domain.BehaviorColumns {
		rec.Behaviors[i] = domain.CoerceFlag(t.cell(row, c))
	}
	if !hasGeometry {
		return rec, nil
	}

	var err error
	if rec.X, err = t.float(row, domain.ColX); err != nil {
		return rec, err
	}
	if rec.Y, err = t.float(row, domain.ColY); err != nil {
		return rec, err
	}
	return rec, nil
}
