// Package sqlite records playback runs and their per-frame statistics.
//
// All SQL lives here; the playback packages hand over plain values and
// never see a database handle.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/dancefloor/internal/monitoring"
)

// DB wraps the recorder database.
type DB struct {
	*sql.DB
	path string
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the database at path, applies PRAGMAs
// and migrates the schema to the latest version.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Per-connection PRAGMAs and in-memory databases both want one connection.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	v, _, _ := db.MigrateVersion()
	monitoring.Logf("[recorder] opened %s at schema version %d", path, v)
	return db, nil
}

// Path returns the path the database was opened with.
func (db *DB) Path() string { return db.path }
