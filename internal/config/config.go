package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Default raw export names, as published by NYC Open Data.
const (
	DefaultObservationFile = "2018_Central_Park_Squirrel_Census_-_Squirrel_Data_20250916.csv"
	DefaultAreaFile        = "2018_Central_Park_Squirrel_Census_-_Hectare_Data_20250916.csv"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	// DataDir holds the raw exports. ObservationFile and AreaFile default to
	// the census export names inside it.
	DataDir         string
	ObservationFile string
	AreaFile        string
	OutputDir       string
	RetainGeometry  bool

	LogLevel  string
	LogFormat string

	ExportJSON    bool
	ExportGeoJSON bool
	ExportXLSX    bool
	SQLitePath    string

	// Publishing to Kafka is enabled when KafkaBrokers is non-empty.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaTimeout time.Duration

	// MetricsTextfile, when set, receives the run's metrics in the
	// node-exporter textfile format.
	MetricsTextfile string

	// HTTPAddr, when set, serves health, readiness and metrics while the
	// menu runs.
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// LoadDotEnv sets variables from a .env file without overriding ones already
// in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", ".")

	retainGeometry, err := parseBool("RETAIN_GEOMETRY", true)
	if err != nil {
		return nil, err
	}
	exportJSON, err := parseBool("EXPORT_JSON", true)
	if err != nil {
		return nil, err
	}
	exportGeoJSON, err := parseBool("EXPORT_GEOJSON", true)
	if err != nil {
		return nil, err
	}
	exportXLSX, err := parseBool("EXPORT_XLSX", false)
	if err != nil {
		return nil, err
	}

	kafkaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("KAFKA_TIMEOUT", "10s"))
	if err != nil || kafkaTimeout <= 0 {
		return nil, errors.New("invalid KAFKA_TIMEOUT")
	}

	var brokers []string
	if s := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); s != "" {
		brokers = sharedcfg.ParseBrokers(s)
	}

	cfg := &Config{
		DataDir:         dataDir,
		ObservationFile: sharedcfg.EnvOrDefault("OBSERVATION_FILE", filepath.Join(dataDir, DefaultObservationFile)),
		AreaFile:        sharedcfg.EnvOrDefault("AREA_FILE", filepath.Join(dataDir, DefaultAreaFile)),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "cleaned_data"),
		RetainGeometry:  retainGeometry,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ExportJSON:      exportJSON,
		ExportGeoJSON:   exportGeoJSON,
		ExportXLSX:      exportXLSX,
		SQLitePath:      sharedcfg.EnvOrDefault("SQLITE_PATH", ""),
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "squirrel-census-merged"),
		KafkaTimeout:    kafkaTimeout,
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ""),
		ShutdownTimeout: shutdownTimeout,
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether merged records are published to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func parseBool(key string, def bool) (bool, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatBool(def))
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}
