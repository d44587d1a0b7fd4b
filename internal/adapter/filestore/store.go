// Package filestore reads the raw census exports and persists the cleaned,
// merged and report files under the output directory.
package filestore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/squirrel-census-etl/internal/config"
	"github.com/gofrs/flock"
)

// File names under the output directory.
const (
	ObservationsFile = "cleaned_squirrel_data.csv"
	AreasFile        = "cleaned_hectare_data.csv"
	MergedFile       = "merged_squirrel_hectare_data.csv"
	reportsDir       = "reports"
	lockFile         = ".census.lock"
)

// Delimiters. The raw exports and the merged table use ';', the cleaned
// intermediate tables use ','.
const (
	rawComma     = ';'
	cleanedComma = ','
	mergedComma  = ';'
)

// ErrLocked is returned by Lock when another process holds the output
// directory.
var ErrLocked = errors.New("output directory is locked by another run")

// Store is the file-backed source and sink of the census stages.
type Store struct {
	observationPath string
	areaPath        string
	outputDir       string
	retainGeometry  bool
	logger          *slog.Logger
}

// New creates a Store for the configured raw inputs and output directory.
func New(cfg *config.Config, logger *slog.Logger) *Store {
	return &Store{
		observationPath: cfg.ObservationFile,
		areaPath:        cfg.AreaFile,
		outputDir:       cfg.OutputDir,
		retainGeometry:  cfg.RetainGeometry,
		logger:          logger,
	}
}

// OutputDir returns the directory the store writes to.
func (s *Store) OutputDir() string { return s.outputDir }

// Path returns the location of name under the output directory.
func (s *Store) Path(name string) string { return filepath.Join(s.outputDir, name) }

// ObservationPath returns the raw squirrel export location.
func (s *Store) ObservationPath() string { return s.observationPath }

// AreaPath returns the raw hectare export location.
func (s *Store) AreaPath() string { return s.areaPath }

// Lock takes an exclusive, non-blocking lock on the output directory. The
// returned func releases it.
func (s *Store) Lock() (func() error, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	fl := flock.New(s.Path(lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), ErrLocked)
	}
	return fl.Unlock, nil
}
