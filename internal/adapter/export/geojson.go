package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/filestore"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONFile is the default name of the point collection export.
const GeoJSONFile = "squirrels.geojson"

// geoProperties maps feature property names to the merged columns they carry.
var geoProperties = []struct {
	name   string
	column string
}{
	{"id", domain.ColSquirrelID},
	{"date", domain.ColDate},
	{"age", domain.ColAge},
	{"furColor", domain.ColFurColor},
	{"running", "Running"},
	{"chasing", "Chasing"},
	{"climbing", "Climbing"},
	{"eating", "Eating"},
	{"foraging", "Foraging"},
}

// GeoJSONExporter writes one Point feature per located sighting. Records
// without coordinates are skipped.
type GeoJSONExporter struct {
	path   string
	logger *slog.Logger
}

// NewGeoJSONExporter creates an exporter writing to path.
func NewGeoJSONExporter(path string, logger *slog.Logger) *GeoJSONExporter {
	return &GeoJSONExporter{path: path, logger: logger}
}

func (e *GeoJSONExporter) Name() string { return "geojson" }

// Export writes the feature collection and returns the number of features.
func (e *GeoJSONExporter) Export(_ context.Context, table domain.MergedTable) (int, error) {
	fc, skipped := FeatureCollection(table)

	data, err := fc.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("encode geojson: %w", err)
	}
	err = filestore.WriteAtomic(e.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("export geojson: %w", err)
	}

	if skipped > 0 {
		e.logger.Info("records without coordinates left out of geojson", "skipped", skipped)
	}
	e.logger.Debug("geojson export written", "path", e.path, "features", len(fc.Features))
	return len(fc.Features), nil
}

// FeatureCollection builds the point features of table and reports how many
// records had no coordinates. The collection's bbox spans every feature.
func FeatureCollection(table domain.MergedTable) (*geojson.FeatureCollection, int) {
	fc := geojson.NewFeatureCollection()
	points := make(orb.MultiPoint, 0, len(table.Records))
	skipped := 0

	for _, rec := range table.Records {
		if rec.X == nil || rec.Y == nil {
			skipped++
			continue
		}
		pt := orb.Point{*rec.X, *rec.Y}
		points = append(points, pt)

		f := geojson.NewFeature(pt)
		for _, p := range geoProperties {
			f.Properties[p.name] = rec.Value(p.column)
		}
		fc.Append(f)
	}

	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}
	return fc, skipped
}
