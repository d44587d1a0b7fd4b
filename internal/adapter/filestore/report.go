package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReportPath returns where the report of stage is kept.
func (s *Store) ReportPath(stage string) string {
	return filepath.Join(s.outputDir, reportsDir, stage+".yaml")
}

// SaveReport persists the latest report of stage as YAML, replacing the
// previous one.
func (s *Store) SaveReport(stage string, report any) error {
	path := s.ReportPath(stage)
	return WriteAtomic(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode %s report: %w", stage, err)
		}
		return enc.Close()
	})
}

// LoadReport decodes the saved report of stage into out. The error wraps
// fs.ErrNotExist when the stage has never run.
func (s *Store) LoadReport(stage string, out any) error {
	path := s.ReportPath(stage)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s report: %w", stage, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
