package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/squirrel-census-etl/internal/adapter/filestore"
	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXFile is the default name of the workbook export.
const XLSXFile = "merged_squirrel_hectare_data.xlsx"

const sheetName = "merged"

// XLSXExporter writes the merged table to a single-sheet workbook with a
// header row.
type XLSXExporter struct {
	path   string
	logger *slog.Logger
}

// NewXLSXExporter creates an exporter writing to path.
func NewXLSXExporter(path string, logger *slog.Logger) *XLSXExporter {
	return &XLSXExporter{path: path, logger: logger}
}

func (e *XLSXExporter) Name() string { return "xlsx" }

// Export writes the workbook and returns the number of data rows.
func (e *XLSXExporter) Export(_ context.Context, table domain.MergedTable) (int, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return 0, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, rec := range table.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("locate row %d: %w", i+2, err)
		}
		row := make([]any, len(table.Columns))
		for j, c := range table.Columns {
			row[j] = rec.TypedValue(c)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	err := filestore.WriteAtomic(e.path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("export xlsx: %w", err)
	}

	e.logger.Debug("xlsx export written", "path", e.path, "rows", len(table.Records))
	return len(table.Records), nil
}
