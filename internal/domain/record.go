package domain

// Column headers as they appear in the census exports and the cleaned tables.
const (
	ColSquirrelID    = "Unique Squirrel ID"
	ColHectare       = "Hectare"
	ColShift         = "Shift"
	ColDate          = "Date"
	ColAge           = "Age"
	ColFurColor      = "Primary Fur Color"
	ColLatLong       = "Lat/Long"
	ColWeatherText   = "Sighter Observed Weather Data"
	ColOtherAnimals  = "Other Animal Sightings"
	ColConditions    = "Hectare Conditions"
	ColSquirrelCount = "Number of Squirrels"

	// Derived columns.
	ColX       = "X"
	ColY       = "Y"
	ColWeather = "Weather"
	ColDogs    = "Dogs"
)

// Unknown is the category used for a missing Age or Primary Fur Color.
const Unknown = "Unknown"

// BehaviorCount is the number of behavior flag columns in the squirrel table.
const BehaviorCount = 12

// BehaviorColumns lists the behavior flag columns in their declared order.
var BehaviorColumns = [BehaviorCount]string{
	"Running", "Chasing", "Climbing", "Eating", "Foraging",
	"Kuks", "Quaas", "Tail flags", "Tail twitches",
	"Approaches", "Indifferent", "Runs from",
}

// RawObservationRecord is one row of the squirrel export. A nil pointer is an
// empty cell.
type RawObservationRecord struct {
	SquirrelID      string
	Hectare         string
	Shift           string
	Date            *string
	Age             *string
	PrimaryFurColor *string
	Behaviors       [BehaviorCount]*string
	LatLong         *string
}

// RawAreaRecord is one row of the hectare export.
type RawAreaRecord struct {
	Hectare       string
	Shift         string
	Date          *string
	Weather       *string
	OtherAnimals  *string
	Conditions    *string
	SquirrelCount *string
}

// CleanedObservationRecord is a squirrel sighting after normalization.
type CleanedObservationRecord struct {
	SquirrelID      string
	Hectare         string
	Shift           string
	Date            *string
	Age             string
	PrimaryFurColor string
	Behaviors       [BehaviorCount]bool
	X               *float64 // longitude
	Y               *float64 // latitude
}

// ObservationTable is a cleaned squirrel table. HasGeometry reports whether
// the X and Y columns are part of the table.
type ObservationTable struct {
	HasGeometry bool
	Records     []CleanedObservationRecord
}

// CleanedAreaRecord is a hectare survey after normalization. Weather is nil
// only before imputation, or when no row in the table has a reading.
// Conditions and SquirrelCount hold the source cell text unmodified.
type CleanedAreaRecord struct {
	Hectare       string
	Shift         string
	Date          *string
	Conditions    *string
	SquirrelCount *string
	Weather       *float64
	Dogs          bool
}

// MergedRecord is a sighting joined with one matching hectare survey. The
// area-side fields are nil when the sighting's key had no match.
type MergedRecord struct {
	CleanedObservationRecord

	Conditions    *string
	SquirrelCount *string
	Weather       *float64
	Dogs          *bool
}

// MergedTable is the joined table with its output column order.
type MergedTable struct {
	Columns []string
	Records []MergedRecord
}

// Key is the composite (Hectare, Shift) join key.
type Key struct {
	Hectare string
	Shift   string
}

// Key returns the record's join key.
func (r CleanedObservationRecord) Key() Key { return Key{Hectare: r.Hectare, Shift: r.Shift} }

// Key returns the record's join key.
func (r CleanedAreaRecord) Key() Key { return Key{Hectare: r.Hectare, Shift: r.Shift} }

// ObservationColumns returns the cleaned squirrel table header.
func ObservationColumns(hasGeometry bool) []string {
	cols := []string{ColSquirrelID, ColHectare, ColShift, ColDate, ColAge, ColFurColor}
	cols = append(cols, BehaviorColumns[:]...)
	if hasGeometry {
		cols = append(cols, ColX, ColY)
	}
	return cols
}

// AreaColumns returns the cleaned hectare table header.
func AreaColumns() []string {
	return []string{ColHectare, ColShift, ColDate, ColConditions, ColSquirrelCount, ColWeather, ColDogs}
}

// Value returns the cell for column, or nil for a null cell or unknown column.
// Non-nil values are string, float64 or bool.
func (r CleanedObservationRecord) Value(column string) any {
	switch column {
	case ColSquirrelID:
		return r.SquirrelID
	case ColHectare:
		return r.Hectare
	case ColShift:
		return r.Shift
	case ColDate:
		return derefString(r.Date)
	case ColAge:
		return r.Age
	case ColFurColor:
		return r.PrimaryFurColor
	case ColX:
		return derefFloat(r.X)
	case ColY:
		return derefFloat(r.Y)
	}
	if i := behaviorIndex(column); i >= 0 {
		return r.Behaviors[i]
	}
	return nil
}

// Value returns the cell for column, or nil for a null cell or unknown column.
func (r CleanedAreaRecord) Value(column string) any {
	switch column {
	case ColHectare:
		return r.Hectare
	case ColShift:
		return r.Shift
	case ColDate:
		return derefString(r.Date)
	case ColConditions:
		return derefString(r.Conditions)
	case ColSquirrelCount:
		return derefString(r.SquirrelCount)
	case ColWeather:
		return derefFloat(r.Weather)
	case ColDogs:
		return r.Dogs
	}
	return nil
}

// Value returns the cell for column, or nil for a null cell or unknown column.
func (r MergedRecord) Value(column string) any {
	switch column {
	case ColConditions:
		return derefString(r.Conditions)
	case ColSquirrelCount:
		return derefString(r.SquirrelCount)
	case ColWeather:
		return derefFloat(r.Weather)
	case ColDogs:
		if r.Dogs == nil {
			return nil
		}
		return *r.Dogs
	}
	return r.CleanedObservationRecord.Value(column)
}

// TypedValue is Value with the squirrel count read as a number where its text
// is a whole number. Exports to typed formats use it; the delimited tables
// keep the source text.
func (r MergedRecord) TypedValue(column string) any {
	if column == ColSquirrelCount && r.SquirrelCount != nil {
		if n, ok := ParseCount(*r.SquirrelCount); ok {
			return n
		}
	}
	return r.Value(column)
}

func behaviorIndex(column string) int {
	for i, c := range BehaviorColumns {
		if c == column {
			return i
		}
	}
	return -1
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
