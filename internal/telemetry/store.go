package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"asteroids/internal/game"
)

// Store keeps runs, their telemetry and the high-score table in SQLite.
type Store struct {
	conn *sql.DB
}

// HighScore is one row of the high-score table.
type HighScore struct {
	RunID     string    `json:"run_id"`
	Score     int       `json:"score"`
	Frames    uint64    `json:"frames"`
	CreatedAt time.Time `json:"created_at"`
}

var _ Sink = (*Store)(nil)

// OpenStore opens (or creates) the database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer: the recorder goroutine and the end-of-run bookkeeping
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		reason TEXT,
		score INTEGER NOT NULL DEFAULT 0,
		frames INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		frame INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		points INTEGER NOT NULL DEFAULT 0,
		data BLOB
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		frame INTEGER NOT NULL,
		score INTEGER NOT NULL,
		lives INTEGER NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (run_id, frame)
	);

	CREATE TABLE IF NOT EXISTS high_scores (
		run_id TEXT PRIMARY KEY,
		score INTEGER NOT NULL,
		frames INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, event_type);
	CREATE INDEX IF NOT EXISTS idx_high_scores_score ON high_scores(score DESC);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(runID string, seed uint64) error {
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, seed, started_at) VALUES (?, ?, ?)",
		runID, fmt.Sprintf("%d", seed), time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// FinishRun closes the run row and enters its score in the high-score table.
func (s *Store) FinishRun(runID string, res game.Result) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE runs SET ended_at = ?, reason = ?, score = ?, frames = ? WHERE id = ?",
		now, string(res.Reason), res.Score, res.Frames, runID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO high_scores (run_id, score, frames, created_at) VALUES (?, ?, ?, ?)",
		runID, res.Score, res.Frames, now,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// TopScores returns the best scores, highest first.
func (s *Store) TopScores(limit int) ([]HighScore, error) {
	rows, err := s.conn.Query(
		"SELECT run_id, score, frames, created_at FROM high_scores ORDER BY score DESC, created_at ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []HighScore
	for rows.Next() {
		var h HighScore
		var created string
		if err := rows.Scan(&h.RunID, &h.Score, &h.Frames, &created); err != nil {
			return nil, err
		}
		h.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		result = append(result, h)
	}
	return result, rows.Err()
}

// WriteBatch stores events and snapshots in one transaction.
func (s *Store) WriteBatch(frames []Frame) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	evStmt, err := tx.Prepare(`INSERT INTO events (run_id, frame, event_type, x, y, points, data) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare events: %w", err)
	}
	defer evStmt.Close()
	snapStmt, err := tx.Prepare(`INSERT OR REPLACE INTO snapshots (run_id, frame, score, lives, data) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshots: %w", err)
	}
	defer snapStmt.Close()

	for _, f := range frames {
		switch {
		case f.Event != nil:
			e := f.Event
			data, err := msgpack.Marshal(e)
			if err != nil {
				return err
			}
			if _, err := evStmt.Exec(f.RunID, e.Frame, string(e.Type), e.X, e.Y, e.Points, data); err != nil {
				return fmt.Errorf("insert event: %w", err)
			}
		case f.Snapshot != nil:
			sn := f.Snapshot
			data, err := msgpack.Marshal(sn)
			if err != nil {
				return err
			}
			if _, err := snapStmt.Exec(f.RunID, sn.Frame, sn.Score, sn.Lives, data); err != nil {
				return fmt.Errorf("insert snapshot: %w", err)
			}
		}
	}
	return tx.Commit()
}

// EventCounts returns the number of events of each type recorded for a run.
func (s *Store) EventCounts(runID string) (map[string]int, error) {
	rows, err := s.conn.Query(
		"SELECT event_type, COUNT(*) FROM events WHERE run_id = ? GROUP BY event_type",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		result[typ] = n
	}
	return result, rows.Err()
}

// Snapshots returns the stored snapshots of a run in frame order.
func (s *Store) Snapshots(runID string) ([]game.Snapshot, error) {
	rows, err := s.conn.Query("SELECT data FROM snapshots WHERE run_id = ? ORDER BY frame", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []game.Snapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var sn game.Snapshot
		if err := msgpack.Unmarshal(data, &sn); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		result = append(result, sn)
	}
	return result, rows.Err()
}
