// Package indexdb keeps a local sqlite index of generation runs: one
// row per run, per generated level, and per exported dump file. The
// dump files are the output of record; the index only makes them
// discoverable.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type RunIndex struct {
	db   *sql.DB
	once sync.Once
}

type RunRow struct {
	ID         string
	StartedAt  time.Time
	Seed       int64
	Levels     int
	Dimensions int
	ConfigJSON []byte
}

type LevelRow struct {
	RunID         string
	Level         int
	Rooms         int
	CorridorCells int
	Drills        int
	Shapes        int
	DurationMs    int64
}

type ExportRow struct {
	RunID string
	Level int
	Table string
	Path  string
	Rows  int
	Bytes int64
}

func Open(path string) (*RunIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &RunIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL is enough durability
	// for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			levels INTEGER NOT NULL,
			dimensions INTEGER NOT NULL,
			config_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS levels (
			run_id TEXT NOT NULL REFERENCES runs(id),
			level INTEGER NOT NULL,
			rooms INTEGER NOT NULL,
			corridor_cells INTEGER NOT NULL,
			drills INTEGER NOT NULL,
			shapes INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, level)
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			run_id TEXT NOT NULL REFERENCES runs(id),
			level INTEGER NOT NULL,
			table_name TEXT NOT NULL,
			path TEXT NOT NULL,
			rows INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			PRIMARY KEY (run_id, level, table_name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_levels_run ON levels(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_run_level ON exports(run_id, level);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (x *RunIndex) Close() error {
	if x == nil {
		return nil
	}
	var err error
	x.once.Do(func() {
		err = x.db.Close()
	})
	return err
}

func (x *RunIndex) RecordRun(r RunRow) error {
	if x == nil {
		return nil
	}
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO runs(id,started_at,seed,levels,dimensions,config_json) VALUES(?,?,?,?,?,?)`,
		r.ID,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Seed,
		r.Levels,
		r.Dimensions,
		string(r.ConfigJSON),
	)
	return err
}

func (x *RunIndex) RecordLevel(r LevelRow) error {
	if x == nil {
		return nil
	}
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO levels(run_id,level,rooms,corridor_cells,drills,shapes,duration_ms) VALUES(?,?,?,?,?,?,?)`,
		r.RunID, r.Level, r.Rooms, r.CorridorCells, r.Drills, r.Shapes, r.DurationMs,
	)
	return err
}

func (x *RunIndex) RecordExport(r ExportRow) error {
	if x == nil {
		return nil
	}
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO exports(run_id,level,table_name,path,rows,bytes) VALUES(?,?,?,?,?,?)`,
		r.RunID, r.Level, r.Table, r.Path, r.Rows, r.Bytes,
	)
	return err
}
