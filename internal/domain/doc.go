// Package domain models the 2018 Central Park Squirrel Census exports and the
// rules that turn them into a single mappable table.
//
// # Data Source
//
// The census publishes two tables. The squirrel table has one row per sighting
// (an individual squirrel observed in a hectare during a shift). The hectare
// table has one row per hectare survey, recording the conditions the sighters
// observed. Both exports are ';'-delimited with a header row.
//
// # Census Data Conventions
//
// Hectare and shift:
//
//	Hectares are grid codes such as "14E". Shift is "AM" or "PM". The pair
//	(Hectare, Shift) relates both tables. It is a grouping key, not a unique
//	key: many sightings share it, and a hectare may have been surveyed more
//	than once in a shift.
//
// Location format:
//
//	"POINT (<lon> <lat>)"  →  e.g. "POINT (-73.9674285955293 40.7829723919744)"
//	WKT point in WGS-84. Longitude comes first. Cleaned tables split it into
//	X (longitude) and Y (latitude).
//
// Weather format:
//
//	Free text written by the sighter: "65º F, sunny", "18°C", "70 F", "55".
//	The first number qualified by F, then C, then a bare number is kept as the
//	Weather reading. No unit conversion is performed, so Celsius and
//	Fahrenheit readings share one column.
//
// Behavior flags:
//
//	Twelve columns (Running ... Runs from) hold TRUE/FALSE or are blank. Blank
//	means the behavior was not recorded and is treated as false.
//
// Unknown values:
//
//	An empty cell is the missing-value sentinel. Missing Age and Primary Fur
//	Color become the category "Unknown". Missing Weather is imputed from
//	other hectares surveyed the same day, then from the whole table.
package domain
