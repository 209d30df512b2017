// Package session keeps a log of finished visits in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Recorder manages the SQLite database connection for the visit log.
type Recorder struct {
	db *sql.DB
}

// Visit is a single finished explore session.
type Visit struct {
	ID              int64
	StartedAt       time.Time
	Duration        int // seconds
	Moves           int
	Interactions    int
	NodesDiscovered int
	Unlocked        int
	Theme           string
	Remote          bool
	CreatedAt       time.Time
}

// Totals aggregates the whole visit log.
type Totals struct {
	Visits          int
	TotalSeconds    int64
	TotalMoves      int64
	Interactions    int64
	BestDiscovered  int
	RemoteVisits    int
	LastVisit       time.Time
}

const sqliteTime = "2006-01-02 15:04:05"

// Open creates or opens the visit database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Recorder, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("session: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: cannot connect to database: %w", err)
	}

	rec := &Recorder{db: db}

	if err := rec.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: migration failed: %w", err)
	}

	return rec, nil
}

// migrate creates the database schema if it doesn't exist.
func (r *Recorder) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			interactions INTEGER NOT NULL DEFAULT 0,
			nodes_discovered INTEGER NOT NULL DEFAULT 0,
			unlocked INTEGER NOT NULL DEFAULT 0,
			theme TEXT NOT NULL DEFAULT '',
			remote INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_visits_created ON visits(created_at DESC);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record inserts a finished visit into the log.
// Returns the ID of the inserted record.
func (r *Recorder) Record(v Visit) (int64, error) {
	if v.Duration < 0 {
		v.Duration = 0
	}
	started := v.StartedAt.UTC().Format(sqliteTime)

	result, err := r.db.Exec(
		`INSERT INTO visits
		 (started_at, duration_secs, moves, interactions, nodes_discovered, unlocked, theme, remote)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		started, v.Duration, v.Moves, v.Interactions, v.NodesDiscovered, v.Unlocked, v.Theme, v.Remote,
	)
	if err != nil {
		return 0, fmt.Errorf("session: cannot record visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Recent retrieves the most recent visits, newest first.
func (r *Recorder) Recent(limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, duration_secs, moves, interactions, nodes_discovered, unlocked, theme, remote, created_at
		 FROM visits
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("session: cannot query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var startedAt, createdAt any
		if err := rows.Scan(
			&v.ID,
			&startedAt,
			&v.Duration,
			&v.Moves,
			&v.Interactions,
			&v.NodesDiscovered,
			&v.Unlocked,
			&v.Theme,
			&v.Remote,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("session: cannot scan row: %w", err)
		}

		v.StartedAt = scanTime(startedAt)
		v.CreatedAt = scanTime(createdAt)
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: row iteration error: %w", err)
	}

	return visits, nil
}

// TotalStats aggregates the full visit log.
// An empty log yields zero totals, not an error.
func (r *Recorder) TotalStats() (*Totals, error) {
	t := &Totals{}

	err := r.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(duration_secs), 0),
		        COALESCE(SUM(moves), 0),
		        COALESCE(SUM(interactions), 0),
		        COALESCE(MAX(nodes_discovered), 0),
		        COALESCE(SUM(remote), 0)
		 FROM visits`,
	).Scan(&t.Visits, &t.TotalSeconds, &t.TotalMoves, &t.Interactions, &t.BestDiscovered, &t.RemoteVisits)
	if err != nil {
		return nil, fmt.Errorf("session: cannot aggregate visits: %w", err)
	}

	var last any
	err = r.db.QueryRow(
		`SELECT created_at FROM visits ORDER BY id DESC LIMIT 1`,
	).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("session: cannot get last visit: %w", err)
	}
	if err == nil {
		t.LastVisit = scanTime(last)
	}

	return t, nil
}

// scanTime parses a DATETIME column, which the driver may hand back
// as either time.Time or a string.
func scanTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		if parsed, err := time.Parse(sqliteTime, val); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
