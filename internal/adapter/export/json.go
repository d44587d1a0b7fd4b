package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/filestore"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

// JSONFile is the default name of the record array export.
const JSONFile = "squirrel_data.json"

// JSONExporter writes the merged table as a JSON array of objects, one per
// record, keyed by column name.
type JSONExporter struct {
	path   string
	logger *slog.Logger
}

// NewJSONExporter creates an exporter writing to path.
func NewJSONExporter(path string, logger *slog.Logger) *JSONExporter {
	return &JSONExporter{path: path, logger: logger}
}

func (e *JSONExporter) Name() string { return "json" }

// Export writes every record and returns the number written.
func (e *JSONExporter) Export(_ context.Context, table domain.MergedTable) (int, error) {
	err := filestore.WriteAtomic(e.path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "[\n"); err != nil {
			return err
		}
		for i, rec := range table.Records {
			data, err := MarshalRecord(table.Columns, rec)
			if err != nil {
				return err
			}
			if i > 0 {
				if _, err := io.WriteString(w, ",\n"); err != nil {
					return err
				}
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "\n]\n")
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("export json: %w", err)
	}

	e.logger.Debug("json export written", "path", e.path, "records", len(table.Records))
	return len(table.Records), nil
}
