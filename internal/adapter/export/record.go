// Package export writes the merged census table in the formats used by the
// mapping layer: a JSON record array, a GeoJSON point collection and an
// Excel workbook.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
)

// MarshalRecord encodes rec as a JSON object whose keys are columns, in
// column order. Null cells are encoded as JSON null.
func MarshalRecord(columns []string, rec domain.MergedRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode column %q: %w", c, err)
		}
		val, err := json.Marshal(rec.TypedValue(c))
		if err != nil {
			return nil, fmt.Errorf("encode %s of %s: %w", c, rec.SquirrelID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
