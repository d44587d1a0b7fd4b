package domain

// mergedColumnOrder is the fixed output order of the joined table. Columns a
// table does not carry are skipped.
var mergedColumnOrder = func() []string {
	cols := []string{ColX, ColY, ColSquirrelID, ColHectare, ColShift, ColDate, ColAge, ColFurColor}
	cols = append(cols, BehaviorColumns[:]...)
	return append(cols, ColConditions, ColSquirrelCount, ColWeather, ColDogs)
}()

// MergedColumns returns the joined table header for an observation table with
// or without geometry.
func MergedColumns(hasGeometry bool) []string {
	cols := make([]string, 0, len(mergedColumnOrder))
	for _, c := range mergedColumnOrder {
		if !hasGeometry && (c == ColX || c == ColY) {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// JoinReport summarizes a join's cardinality.
type JoinReport struct {
	ObservationRows int `yaml:"observation_rows"`
	AreaRows        int `yaml:"area_rows"`
	OutputRows      int `yaml:"output_rows"`

	// Unmatched counts sightings whose key had no hectare survey.
	Unmatched int `yaml:"unmatched"`

	// FannedOut counts sightings whose key matched more than one survey and
	// were therefore emitted more than once.
	FannedOut int `yaml:"fanned_out"`

	// Distinct (Hectare, Shift) keys on each side and on both.
	ObservationKeys int `yaml:"observation_keys"`
	AreaKeys        int `yaml:"area_keys"`
	SharedKeys      int `yaml:"shared_keys"`
}

// Join left-joins sightings to hectare surveys on (Hectare, Shift). Every
// sighting appears at least once, in input order; a key with N matching
// surveys yields N rows, in survey order. The sighting's date wins over the
// survey's date, which is used only when the sighting has none.
func Join(obs ObservationTable, areas []CleanedAreaRecord) (MergedTable, JoinReport) {
	byKey := make(map[Key][]int, len(areas))
	for i, a := range areas {
		byKey[a.Key()] = append(byKey[a.Key()], i)
	}

	report := JoinReport{
		ObservationRows: len(obs.Records),
		AreaRows:        len(areas),
		AreaKeys:        len(byKey),
	}
	seen := make(map[Key]struct{})
	table := MergedTable{
		Columns: MergedColumns(obs.HasGeometry),
		Records: make([]MergedRecord, 0, len(obs.Records)),
	}

	for _, o := range obs.Records {
		matches := byKey[o.Key()]
		if _, ok := seen[o.Key()]; !ok {
			seen[o.Key()] = struct{}{}
			if len(matches) > 0 {
				report.SharedKeys++
			}
		}
		switch {
		case len(matches) == 0:
			report.Unmatched++
			table.Records = append(table.Records, MergedRecord{CleanedObservationRecord: o})
			continue
		case len(matches) > 1:
			report.FannedOut++
		}

		for _, idx := range matches {
			table.Records = append(table.Records, mergeRecord(o, areas[idx]))
		}
	}

	report.ObservationKeys = len(seen)
	report.OutputRows = len(table.Records)
	return table, report
}

func mergeRecord(o CleanedObservationRecord, a CleanedAreaRecord) MergedRecord {
	dogs := a.Dogs
	m := MergedRecord{
		CleanedObservationRecord: o,
		Conditions:               a.Conditions,
		SquirrelCount:            a.SquirrelCount,
		Weather:                  a.Weather,
		Dogs:                     &dogs,
	}
	if m.Date == nil {
		m.Date = a.Date
	}
	return m
}
