package domain

// DatasetInfo describes the shape of a raw export on disk.
type DatasetInfo struct {
	Name    string         `yaml:"name"`
	Path    string         `yaml:"path"`
	Found   bool           `yaml:"found"`
	Rows    int            `yaml:"rows"`
	Columns int            `yaml:"columns"`
	Missing map[string]int `yaml:"missing,omitempty"` // empty cells per column
	Error   string         `yaml:"error,omitempty"`
}
