// Command genmock writes a deterministic pair of raw census exports, shaped
// like the NYC Open Data squirrel and hectare files, for local runs and
// manual testing. It runs the generated rows through the domain package and
// prints what the cleaning stages will find.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data -hectares 40 -seed 2018
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/filestore"
	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

var observationHeader = []string{
	"X", "Y", domain.ColSquirrelID, domain.ColHectare, domain.ColShift, domain.ColDate,
	"Hectare Squirrel Number", domain.ColAge, domain.ColFurColor, "Highlight Fur Color", "Location",
	"Running", "Chasing", "Climbing", "Eating", "Foraging", "Kuks", "Quaas", "Moans",
	"Tail flags", "Tail twitches", "Approaches", "Indifferent", "Runs from", domain.ColLatLong,
}

var areaHeader = []string{
	domain.ColHectare, domain.ColShift, domain.ColDate, "Anything Else", "Total Time of Sighting",
	"Number of sighters", domain.ColSquirrelCount, domain.ColWeatherText, "Litter",
	domain.ColOtherAnimals, domain.ColConditions, "Hectare Conditions Notes",
}

var (
	ages        = []string{"Adult", "Adult", "Adult", "Juvenile", "?", ""}
	furColors   = []string{"Gray", "Gray", "Gray", "Cinnamon", "Black", ""}
	highlights  = []string{"", "White", "Cinnamon", "Gray, White"}
	locations   = []string{"Ground Plane", "Above Ground", ""}
	conditions  = []string{"Busy", "Calm", "Moderate", "Busy, Calm", ""}
	otherAnimal = []string{"", "Dog", "Dogs (2)", "Pigeons", "Humans, Dog", "Blue jay", "Hawk"}
	weathers    = []string{
		"%dº F, sunny", "%d°F cloudy", "%d F", "%d° C", "%d", "overcast", "", "%d degrees",
	}
)

// Park bounds, roughly.
const (
	minLon = -73.9817
	maxLon = -73.9497
	minLat = 40.7642
	maxLat = 40.8003
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "directory to write the raw exports to")
	hectares := flag.Int("hectares", 40, "number of hectare surveys per shift")
	maxSightings := flag.Int("max-sightings", 6, "maximum squirrel sightings per survey")
	seed := flag.Uint64("seed", 2018, "random seed")
	flag.Parse()

	if *hectares < 1 || *hectares > 42*9 || *maxSightings < 1 {
		flag.Usage()
		return fmt.Errorf("-hectares must be in 1..378 and -max-sightings positive")
	}

	g := &generator{rng: rand.New(rand.NewPCG(*seed, *seed))}
	obsRows, areaRows := g.generate(*hectares, *maxSightings)

	obsPath := filepath.Join(*outDir, config.DefaultObservationFile)
	areaPath := filepath.Join(*outDir, config.DefaultAreaFile)
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeCSV(obsPath, observationHeader, obsRows); err != nil {
		return fmt.Errorf("writing squirrel export: %w", err)
	}
	log.Printf("wrote %s: %d rows", obsPath, len(obsRows))
	if err := writeCSV(areaPath, areaHeader, areaRows); err != nil {
		return fmt.Errorf("writing hectare export: %w", err)
	}
	log.Printf("wrote %s: %d rows", areaPath, len(areaRows))

	printStats(obsRows, areaRows)
	return nil
}

type generator struct {
	rng *rand.Rand
}

func (g *generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

func (g *generator) flag(p float64) string {
	if g.rng.Float64() < p {
		return "TRUE"
	}
	return "FALSE"
}

// generate returns raw squirrel rows and raw hectare rows. Some surveys have
// no sightings, and some sightings land in hectares that were never surveyed.
func (g *generator) generate(hectares, maxSightings int) (obs, areas [][]string) {
	for _, shift := range []string{"AM", "PM"} {
		perm := g.rng.Perm(42 * 9)
		for _, cell := range perm[:hectares] {
			hectare := fmt.Sprintf("%02d%c", cell/9+1, 'A'+rune(cell%9))
			date := fmt.Sprintf("10%02d2018", 6+g.rng.IntN(15))

			sightings := g.rng.IntN(maxSightings + 1)
			areas = append(areas, g.area(hectare, shift, date, sightings))
			// A few surveys are recorded twice by different sighters.
			if g.rng.IntN(20) == 0 {
				areas = append(areas, g.area(hectare, shift, date, sightings))
			}

			for n := 1; n <= sightings; n++ {
				obs = append(obs, g.observation(hectare, shift, date, n))
			}
		}
	}

	// Sightings with no survey on their key.
	for n := 1; n <= 3; n++ {
		obs = append(obs, g.observation(fmt.Sprintf("%02dZ", n), "AM", "10132018", n))
	}
	return obs, areas
}

func (g *generator) area(hectare, shift, date string, squirrels int) []string {
	weather := g.pick(weathers)
	if weather != "" && weather[0] == '%' {
		temp := 45 + g.rng.IntN(30)
		if weather == "%d° C" {
			temp = 8 + g.rng.IntN(15)
		}
		weather = fmt.Sprintf(weather, temp)
	}
	return []string{
		hectare, shift, date, "", strconv.Itoa(5 + g.rng.IntN(20)),
		strconv.Itoa(1 + g.rng.IntN(3)), strconv.Itoa(squirrels), weather, "",
		g.pick(otherAnimal), g.pick(conditions), "",
	}
}

func (g *generator) observation(hectare, shift, date string, n int) []string {
	lon := minLon + g.rng.Float64()*(maxLon-minLon)
	lat := minLat + g.rng.Float64()*(maxLat-minLat)
	x := strconv.FormatFloat(lon, 'f', 13, 64)
	y := strconv.FormatFloat(lat, 'f', 13, 64)
	latLong := fmt.Sprintf("POINT (%s %s)", x, y)
	if g.rng.IntN(50) == 0 {
		x, y, latLong = "", "", ""
	}

	row := []string{
		x, y, fmt.Sprintf("%s-%s-%s-%02d", hectare, shift, date[:4], n), hectare, shift, date,
		strconv.Itoa(n), g.pick(ages), g.pick(furColors), g.pick(highlights), g.pick(locations),
	}
	for _, p := range []float64{0.25, 0.1, 0.2, 0.25, 0.5, 0.05, 0.02, 0.01, 0.05, 0.15, 0.05, 0.5, 0.2} {
		row = append(row, g.flag(p))
	}
	return append(row, latLong)
}

func writeCSV(path string, header []string, rows [][]string) error {
	return filestore.WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = ';'
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
}

// printStats runs the generated rows through the cleaning rules.
func printStats(obsRows, areaRows [][]string) {
	obsIdx := index(observationHeader)
	raws := make([]domain.RawObservationRecord, 0, len(obsRows))
	for _, row := range obsRows {
		rec := domain.RawObservationRecord{
			SquirrelID:      row[obsIdx[domain.ColSquirrelID]],
			Hectare:         row[obsIdx[domain.ColHectare]],
			Shift:           row[obsIdx[domain.ColShift]],
			Date:            optional(row[obsIdx[domain.ColDate]]),
			Age:             optional(row[obsIdx[domain.ColAge]]),
			PrimaryFurColor: optional(row[obsIdx[domain.ColFurColor]]),
			LatLong:         optional(row[obsIdx[domain.ColLatLong]]),
		}
		for i, c := range domain.BehaviorColumns {
			rec.Behaviors[i] = optional(row[obsIdx[c]])
		}
		raws = append(raws, rec)
	}

	areaIdx := index(areaHeader)
	rawAreas := make([]domain.RawAreaRecord, 0, len(areaRows))
	for _, row := range areaRows {
		rawAreas = append(rawAreas, domain.RawAreaRecord{
			Hectare:       row[areaIdx[domain.ColHectare]],
			Shift:         row[areaIdx[domain.ColShift]],
			Date:          optional(row[areaIdx[domain.ColDate]]),
			Weather:       optional(row[areaIdx[domain.ColWeatherText]]),
			OtherAnimals:  optional(row[areaIdx[domain.ColOtherAnimals]]),
			Conditions:    optional(row[areaIdx[domain.ColConditions]]),
			SquirrelCount: optional(row[areaIdx[domain.ColSquirrelCount]]),
		})
	}

	obs, obsReport := domain.NormalizeObservations(raws, domain.NormalizeOptions{RetainGeometry: true})
	areas, areaReport := domain.NormalizeAreas(rawAreas)
	impute := domain.ImputeWeather(areas)
	_, join := domain.Join(obs, areas)

	fmt.Println()
	fmt.Printf("squirrel rows:        %d (%d filled Unknown, %d unparsable)\n",
		obsReport.Rows, obsReport.Filled[domain.ColAge]+obsReport.Filled[domain.ColFurColor], obsReport.UnparsableCount(""))
	fmt.Printf("hectare rows:         %d (%d unparsable weather)\n",
		areaReport.Rows, areaReport.UnparsableCount(domain.ColWeatherText))
	fmt.Printf("weather imputed:      %d by date, %d overall\n", impute.FilledFromDate, impute.FilledFromOverall)
	fmt.Printf("merged rows:          %d (%d unmatched, %d fanned out)\n", join.OutputRows, join.Unmatched, join.FannedOut)
}

func index(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
