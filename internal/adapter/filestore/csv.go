package filestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

// table is a delimited file held in memory with its header indexed by name.
type table struct {
	path   string
	header map[string]int
	rows   [][]string
}

func readTable(path string, comma rune) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.MissingInputError{Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: no header row", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[strings.TrimSpace(name)] = i
	}
	return &table{path: path, header: header, rows: records[1:]}, nil
}

func (t *table) require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := t.header[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("read %s: missing columns %q", t.path, missing)
	}
	return nil
}

func (t *table) has(column string) bool {
	_, ok := t.header[column]
	return ok
}

// cell returns the trimmed value of column, or nil when the cell is empty,
// blank, or beyond the end of a short row.
func (t *table) cell(row []string, column string) *string {
	i, ok := t.header[column]
	if !ok || i >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return nil
	}
	return &v
}

// verbatim returns the value of column as written, or nil when the cell is
// empty, blank, or beyond the end of a short row.
func (t *table) verbatim(row []string, column string) *string {
	i, ok := t.header[column]
	if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
		return nil
	}
	v := row[i]
	return &v
}

func (t *table) text(row []string, column string) string {
	if v := t.cell(row, column); v != nil {
		return *v
	}
	return ""
}

func (t *table) float(row []string, column string) (*float64, error) {
	v := t.cell(row, column)
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", column, err)
	}
	return &f, nil
}

// rowError locates a parse failure by its 1-based line number in the file.
func (t *table) rowError(i int, err error) error {
	return fmt.Errorf("read %s line %d: %w", t.path, i+2, err)
}

// valuer is implemented by the cleaned and merged record types.
type valuer interface {
	Value(column string) any
}

// formatCell renders a record value as written in the delimited tables.
// Weather keeps one decimal; other floats use the shortest form that parses
// back to the same value.
func formatCell(column string, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		if column == domain.ColWeather {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func formatRow(columns []string, rec valuer) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = formatCell(c, rec.Value(c))
	}
	return row
}

func writeTable(path string, comma rune, columns []string, rows [][]string) error {
	return WriteAtomic(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		w.Comma = comma
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("write %s header: %w", path, err)
		}
		if err := w.WriteAll(rows); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}
