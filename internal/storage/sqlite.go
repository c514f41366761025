// Package storage provides SQLite-based persistence for brickfall runs,
// saved levels and home base resources.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrLevelNotFound is returned when a saved level name does not exist.
var ErrLevelNotFound = errors.New("storage: level not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is the outcome of one finished run.
type RunRecord struct {
	ID        string // UUID assigned by SaveRun
	Mode      string
	Seed      int64
	Level     int
	Wave      int
	Score     int
	Coins     int
	XP        int
	Turns     int
	BestCombo int
	Reason    string // Why the run ended
	CreatedAt time.Time
}

// SavedLevel is a named level share code.
type SavedLevel struct {
	Name      string
	Code      string
	Bricks    int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			wave INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			xp INTEGER NOT NULL DEFAULT 0,
			turns INTEGER NOT NULL DEFAULT 0,
			best_combo INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);

		CREATE TABLE IF NOT EXISTS levels (
			name TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			bricks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS home_base (
			resource TEXT PRIMARY KEY,
			amount INTEGER NOT NULL DEFAULT 0
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	// Databases created before combos were recorded.
	return s.ensureColumn("runs", "best_combo", "INTEGER NOT NULL DEFAULT 0")
}

// ensureColumn adds a column to an existing table when it is missing.
func (s *Store) ensureColumn(table, column, decl string) error {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = s.db.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + decl)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime handles both time.Time and the string form SQLite returns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveRun records a finished run and returns its new id.
func (s *Store) SaveRun(r RunRecord) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, mode, seed, level, wave, score, coins, xp, turns, best_combo, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Mode, r.Seed, r.Level, r.Wave, r.Score, r.Coins, r.XP, r.Turns, r.BestCombo, r.Reason,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return id, nil
}

const runColumns = `id, mode, seed, level, wave, score, coins, xp, turns, best_combo, reason, created_at`

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Mode, &r.Seed, &r.Level, &r.Wave, &r.Score,
			&r.Coins, &r.XP, &r.Turns, &r.BestCombo, &r.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// TopRuns retrieves the best N runs for a mode, highest score first.
func (s *Store) TopRuns(mode string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE mode = ? ORDER BY score DESC, created_at ASC LIMIT ?`,
		mode, limit,
	)
}

// RecentRuns retrieves the latest runs. An empty mode means every mode.
func (s *Store) RecentRuns(mode string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if mode == "" {
		return s.queryRuns(`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE mode = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		mode, limit,
	)
}

// Run retrieves a run by id. It returns nil when no run has that id.
func (s *Store) Run(id string) (*RunRecord, error) {
	runs, err := s.queryRuns(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// HighScore returns the highest score for a mode, or 0 without runs.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs WHERE mode = ?", mode).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes every run of a mode.
func (s *Store) ClearRuns(mode string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	Mode       string
	Runs       int
	HighScore  int
	AvgScore   float64
	BestLevel  int
	BestWave   int
	LastPlayed time.Time
}

// AllModeStats retrieves statistics for every mode that has been played.
func (s *Store) AllModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), MAX(level), MAX(wave), MAX(created_at)
		 FROM runs
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastPlayed any
		if err := rows.Scan(&m.Mode, &m.Runs, &m.HighScore, &m.AvgScore, &m.BestLevel, &m.BestWave, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.Mode] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// SaveLevel stores a share code under name, replacing any previous one.
func (s *Store) SaveLevel(name, code string, bricks int) error {
	_, err := s.db.Exec(
		`INSERT INTO levels (name, code, bricks) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET code = excluded.code, bricks = excluded.bricks, created_at = CURRENT_TIMESTAMP`,
		name, code, bricks,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level %q: %w", name, err)
	}
	return nil
}

// Level retrieves a saved level by name.
func (s *Store) Level(name string) (SavedLevel, error) {
	var l SavedLevel
	var createdAt any
	err := s.db.QueryRow(
		`SELECT name, code, bricks, created_at FROM levels WHERE name = ?`, name,
	).Scan(&l.Name, &l.Code, &l.Bricks, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedLevel{}, fmt.Errorf("%w: %q", ErrLevelNotFound, name)
	}
	if err != nil {
		return SavedLevel{}, fmt.Errorf("storage: cannot query level: %w", err)
	}
	l.CreatedAt = parseTime(createdAt)
	return l, nil
}

// Levels lists saved levels by name.
func (s *Store) Levels() ([]SavedLevel, error) {
	rows, err := s.db.Query(`SELECT name, code, bricks, created_at FROM levels ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var out []SavedLevel
	for rows.Next() {
		var l SavedLevel
		var createdAt any
		if err := rows.Scan(&l.Name, &l.Code, &l.Bricks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		l.CreatedAt = parseTime(createdAt)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteLevel removes a saved level.
func (s *Store) DeleteLevel(name string) error {
	res, err := s.db.Exec(`DELETE FROM levels WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete level: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrLevelNotFound, name)
	}
	return nil
}

// SaveResources replaces the stored home base resource totals.
func (s *Store) SaveResources(totals map[string]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for res, amount := range totals {
		if _, err := tx.Exec(
			`INSERT INTO home_base (resource, amount) VALUES (?, ?)
			 ON CONFLICT(resource) DO UPDATE SET amount = excluded.amount`,
			res, amount,
		); err != nil {
			return fmt.Errorf("storage: cannot save resource %q: %w", res, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit resources: %w", err)
	}
	return nil
}

// Resources returns the stored home base resource totals.
func (s *Store) Resources() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT resource, amount FROM home_base`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query resources: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var res string
		var amount int
		if err := rows.Scan(&res, &amount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out[res] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
