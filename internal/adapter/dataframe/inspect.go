// Package dataframe reports the shape and completeness of the raw census
// exports.
package dataframe

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Inspector loads a ';'-delimited export into a data frame and summarizes it.
type Inspector struct {
	logger *slog.Logger
}

// NewInspector creates an Inspector.
func NewInspector(logger *slog.Logger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect describes the export at path. A missing file is reported through
// DatasetInfo.Found rather than as an error.
func (i *Inspector) Inspect(name, path string) (domain.DatasetInfo, error) {
	info := domain.DatasetInfo{Name: name, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			i.logger.Debug("dataset not found", "name", name, "path", path)
			return info, nil
		}
		return info, fmt.Errorf("read %s: %w", path, err)
	}
	info.Found = true

	df := dataframe.ReadCSV(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)),
		dataframe.WithDelimiter(';'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	if df.Err != nil {
		return info, fmt.Errorf("parse %s: %w", path, df.Err)
	}

	info.Rows, info.Columns = df.Dims()
	info.Missing = make(map[string]int)
	for _, col := range df.Names() {
		n := 0
		for _, nan := range df.Col(col).IsNaN() {
			if nan {
				n++
			}
		}
		if n > 0 {
			info.Missing[col] = n
		}
	}

	return info, nil
}
