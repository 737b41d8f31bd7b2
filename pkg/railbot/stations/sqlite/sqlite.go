// Package sqlite is a station directory backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/railbot/pkg/railbot/internalerr"
	"github.com/cognicore/railbot/pkg/railbot/stations"
)

type sqliteDirectory struct {
	db *sql.DB
}

// Directory is the concrete type returned by Open.
type Directory interface {
	stations.Directory
	stations.Writer
}

// Open opens (creating if needed) a station database with WAL mode enabled.
func Open(ctx context.Context, path string) (Directory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteDirectory{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS stations (
	identifier TEXT PRIMARY KEY COLLATE NOCASE,
	name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS stations_name ON stations(name COLLATE NOCASE);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection
func (d *sqliteDirectory) Close() error {
	return d.db.Close()
}

// UpsertStations inserts or renames stations keyed by code.
func (d *sqliteDirectory) UpsertStations(ctx context.Context, list []stations.Station) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO stations (identifier, name) VALUES (?, ?)
ON CONFLICT(identifier) DO UPDATE SET name=excluded.name;
`
	for _, s := range list {
		code := strings.TrimSpace(s.Code)
		name := strings.TrimSpace(s.Name)
		if code == "" || name == "" {
			return fmt.Errorf("station %q: %w", s.Code, internalerr.ErrInvalidInput)
		}
		if _, err := tx.ExecContext(ctx, stmt, code, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LookupExact matches the code first, then a unique name.
func (d *sqliteDirectory) LookupExact(ctx context.Context, s string) (stations.Station, bool, error) {
	s = strings.TrimSpace(s)

	var st stations.Station
	err := d.db.QueryRowContext(ctx,
		`SELECT identifier, name FROM stations WHERE identifier = ? COLLATE NOCASE`, s,
	).Scan(&st.Code, &st.Name)
	switch {
	case err == nil:
		return st, true, nil
	case err != sql.ErrNoRows:
		return stations.Station{}, false, err
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT identifier, name FROM stations WHERE name = ? COLLATE NOCASE LIMIT 2`, s)
	if err != nil {
		return stations.Station{}, false, err
	}
	defer rows.Close()

	found, err := scanStations(rows)
	if err != nil {
		return stations.Station{}, false, err
	}
	if len(found) == 1 {
		return found[0], true, nil
	}
	return stations.Station{}, false, nil
}

// AllCandidates returns every station ordered by code.
func (d *sqliteDirectory) AllCandidates(ctx context.Context) ([]stations.Station, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT identifier, name FROM stations ORDER BY identifier`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStations(rows)
}

func scanStations(rows *sql.Rows) ([]stations.Station, error) {
	var out []stations.Station
	for rows.Next() {
		var st stations.Station
		if err := rows.Scan(&st.Code, &st.Name); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
