// Package sqlite loads the merged census table into a SQLite database so it
// can be queried without re-reading the delimited files.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/squirrel-census-etl/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const createTable = `
CREATE TABLE merged_records (
	row_id             INTEGER PRIMARY KEY,
	x                  REAL,
	y                  REAL,
	squirrel_id        TEXT NOT NULL,
	hectare            TEXT NOT NULL,
	shift              TEXT NOT NULL,
	date               TEXT,
	age                TEXT NOT NULL,
	primary_fur_color  TEXT NOT NULL,
	running            BOOLEAN NOT NULL,
	chasing            BOOLEAN NOT NULL,
	climbing           BOOLEAN NOT NULL,
	eating             BOOLEAN NOT NULL,
	foraging           BOOLEAN NOT NULL,
	kuks               BOOLEAN NOT NULL,
	quaas              BOOLEAN NOT NULL,
	tail_flags         BOOLEAN NOT NULL,
	tail_twitches      BOOLEAN NOT NULL,
	approaches         BOOLEAN NOT NULL,
	indifferent        BOOLEAN NOT NULL,
	runs_from          BOOLEAN NOT NULL,
	hectare_conditions TEXT,
	squirrel_count     TEXT,
	weather            REAL,
	dogs               BOOLEAN
)`

const createIndex = `CREATE INDEX merged_records_key ON merged_records (hectare, shift)`

const insertRecord = `
INSERT INTO merged_records (
	row_id, x, y, squirrel_id, hectare, shift, date, age, primary_fur_color,
	running, chasing, climbing, eating, foraging, kuks, quaas,
	tail_flags, tail_twitches, approaches, indifferent, runs_from,
	hectare_conditions, squirrel_count, weather, dogs
) VALUES (
	:row_id, :x, :y, :squirrel_id, :hectare, :shift, :date, :age, :primary_fur_color,
	:running, :chasing, :climbing, :eating, :foraging, :kuks, :quaas,
	:tail_flags, :tail_twitches, :approaches, :indifferent, :runs_from,
	:hectare_conditions, :squirrel_count, :weather, :dogs
)`

// Row is one merged record as stored in the merged_records table.
type Row struct {
	RowID           int      `db:"row_id"`
	X               *float64 `db:"x"`
	Y               *float64 `db:"y"`
	SquirrelID      string   `db:"squirrel_id"`
	Hectare         string   `db:"hectare"`
	Shift           string   `db:"shift"`
	Date            *string  `db:"date"`
	Age             string   `db:"age"`
	PrimaryFurColor string   `db:"primary_fur_color"`

	Running      bool `db:"running"`
	Chasing      bool `db:"chasing"`
	Climbing     bool `db:"climbing"`
	Eating       bool `db:"eating"`
	Foraging     bool `db:"foraging"`
	Kuks         bool `db:"kuks"`
	Quaas        bool `db:"quaas"`
	TailFlags    bool `db:"tail_flags"`
	TailTwitches bool `db:"tail_twitches"`
	Approaches   bool `db:"approaches"`
	Indifferent  bool `db:"indifferent"`
	RunsFrom     bool `db:"runs_from"`

	Conditions    *string  `db:"hectare_conditions"`
	SquirrelCount *string  `db:"squirrel_count"`
	Weather       *float64 `db:"weather"`
	Dogs          *bool    `db:"dogs"`
}

func toRow(i int, rec domain.MergedRecord) Row {
	b := rec.Behaviors
	return Row{
		RowID:           i + 1,
		X:               rec.X,
		Y:               rec.Y,
		SquirrelID:      rec.SquirrelID,
		Hectare:         rec.Hectare,
		Shift:           rec.Shift,
		Date:            rec.Date,
		Age:             rec.Age,
		PrimaryFurColor: rec.PrimaryFurColor,
		Running:         b[0],
		Chasing:         b[1],
		Climbing:        b[2],
		Eating:          b[3],
		Foraging:        b[4],
		Kuks:            b[5],
		Quaas:           b[6],
		TailFlags:       b[7],
		TailTwitches:    b[8],
		Approaches:      b[9],
		Indifferent:     b[10],
		RunsFrom:        b[11],
		Conditions:      rec.Conditions,
		SquirrelCount:   rec.SquirrelCount,
		Weather:         rec.Weather,
		Dogs:            rec.Dogs,
	}
}

// Exporter replaces the merged_records table on every export.
type Exporter struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to the database file at path, creating it if needed.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Exporter, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Exporter{db: db, logger: logger}, nil
}

func (e *Exporter) Name() string { return "sqlite" }

// Export recreates merged_records and inserts every record in one
// transaction, so a failed export leaves the previous table in place.
func (e *Exporter) Export(ctx context.Context, table domain.MergedTable) (n int, err error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sqlite export: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS merged_records"); err != nil {
		return 0, fmt.Errorf("drop merged_records: %w", err)
	}
	for _, ddl := range []string{createTable, createIndex} {
		if _, err = tx.ExecContext(ctx, ddl); err != nil {
			return 0, fmt.Errorf("create merged_records: %w", err)
		}
	}

	stmt, err := tx.PrepareNamedContext(ctx, insertRecord)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range table.Records {
		if _, err = stmt.ExecContext(ctx, toRow(i, rec)); err != nil {
			return 0, fmt.Errorf("insert %s: %w", rec.SquirrelID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sqlite export: %w", err)
	}

	e.logger.Debug("sqlite export written", "rows", len(table.Records))
	return len(table.Records), nil
}

// Rows returns the stored records in export order.
func (e *Exporter) Rows(ctx context.Context) ([]Row, error) {
	var rows []Row
	if err := e.db.SelectContext(ctx, &rows, "SELECT * FROM merged_records ORDER BY row_id"); err != nil {
		return nil, fmt.Errorf("select merged_records: %w", err)
	}
	return rows, nil
}

// CountByKey returns the number of stored records per (Hectare, Shift).
func (e *Exporter) CountByKey(ctx context.Context) (map[domain.Key]int, error) {
	var counts []struct {
		Hectare string `db:"hectare"`
		Shift   string `db:"shift"`
		N       int    `db:"n"`
	}
	err := e.db.SelectContext(ctx, &counts,
		"SELECT hectare, shift, COUNT(*) AS n FROM merged_records GROUP BY hectare, shift")
	if err != nil {
		return nil, fmt.Errorf("count merged_records: %w", err)
	}

	out := make(map[domain.Key]int, len(counts))
	for _, c := range counts {
		out[domain.Key{Hectare: c.Hectare, Shift: c.Shift}] = c.N
	}
	return out, nil
}

// Close releases the database handle.
func (e *Exporter) Close() error {
	return e.db.Close()
}
