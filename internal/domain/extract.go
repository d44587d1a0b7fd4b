package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// pointRe matches a WKT point with decimal components,
	// e.g. "POINT (-73.9674285955293 40.7829723919744)" -> lon, lat.
	pointRe = regexp.MustCompile(`POINT \((-?\d+\.\d+) (-?\d+\.\d+)\)`)

	// temperatureRes are tried in order; the first match wins. Fahrenheit
	// forms come before Celsius forms, and a bare number is the last resort.
	// Spacing includes Unicode separators such as the no-break space.
	temperatureRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)º?[\s\p{Zs}]*F`),
		regexp.MustCompile(`(?i)(\d+)°[\s\p{Zs}]*F`),
		regexp.MustCompile(`(?i)(\d+)º?[\s\p{Zs}]*C`),
		regexp.MustCompile(`(?i)(\d+)°[\s\p{Zs}]*C`),
		regexp.MustCompile(`(?i)^(\d+)[\s\p{Zs}]*$`),
	}

	// dogRe matches "dog" or "dogs" as a whole word.
	dogRe = regexp.MustCompile(`(?i)\bdogs?\b`)
)

// ExtractCoordinates parses "POINT (<lon> <lat>)" into longitude and latitude.
// Both are nil when s is absent or does not match; a partial match is never
// returned.
func ExtractCoordinates(s *string) (lon, lat *float64) {
	if s == nil {
		return nil, nil
	}
	m := pointRe.FindStringSubmatch(*s)
	if len(m) != 3 {
		return nil, nil
	}
	x, errX := strconv.ParseFloat(m[1], 64)
	y, errY := strconv.ParseFloat(m[2], 64)
	if errX != nil || errY != nil {
		return nil, nil
	}
	return &x, &y
}

// ExtractTemperature pulls the first temperature reading out of a free-text
// weather description, e.g. "65º F, sunny" -> 65. The number is returned as
// written; Celsius readings are not converted.
func ExtractTemperature(s *string) *float64 {
	if s == nil || *s == "" {
		return nil
	}
	for _, re := range temperatureRes {
		m := re.FindStringSubmatch(*s)
		if len(m) != 2 {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// ExtractDogs reports whether an "other animal sightings" description
// mentions a dog.
func ExtractDogs(s *string) bool {
	if s == nil || *s == "" {
		return false
	}
	return dogRe.MatchString(*s)
}

// CoerceFlag maps a behavior cell to a boolean. An absent or blank cell is
// false, as are the spellings "false", "0" and "no". Any other value is true.
func CoerceFlag(s *string) bool {
	if s == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(*s)) {
	case "", "false", "0", "no":
		return false
	default:
		return true
	}
}
