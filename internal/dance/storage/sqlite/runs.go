package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded playback session.
type Run struct {
	RunID       string          `json:"run_id"`
	StartedAt   int64           `json:"started_at"`
	FinishedAt  int64           `json:"finished_at,omitempty"`
	Seed        int64           `json:"seed"`
	Layout      string          `json:"layout"`
	FrameCount  int             `json:"frame_count"`
	HairStrands int             `json:"hair_strands"`
	ConfigJSON  json.RawMessage `json:"config,omitempty"`
	SummaryJSON json.RawMessage `json:"summary,omitempty"`
}

// Finished reports whether FinishRun has been called.
func (r *Run) Finished() bool { return r.FinishedAt != 0 }

// RunStore persists runs and their frame statistics.
type RunStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewRunStore returns a store over db.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB, now: time.Now}
}

func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// CreateRun inserts r. An empty RunID gets a fresh UUID and a zero
// StartedAt is set to now.
func (s *RunStore) CreateRun(r *Run) error {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.StartedAt == 0 {
		r.StartedAt = s.now().UnixNano()
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO dance_runs (
				run_id, started_at, seed, layout, frame_count, hair_strands, config_json
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.StartedAt, r.Seed, r.Layout, r.FrameCount, r.HairStrands, nullableJSON(r.ConfigJSON),
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", r.RunID, err)
		}
		return nil
	})
}

// FinishRun stamps the finish time, the number of frames played and the
// run summary.
func (s *RunStore) FinishRun(runID string, frames int, summary json.RawMessage) error {
	return retryOnBusy(func() error {
		res, err := s.db.Exec(`
			UPDATE dance_runs
			SET finished_at = ?, frame_count = ?, summary_json = ?
			WHERE run_id = ?`,
			s.now().UnixNano(), frames, nullableJSON(summary), runID,
		)
		if err != nil {
			return fmt.Errorf("finish run %s: %w", runID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
		}
		return nil
	})
}

const runColumns = `run_id, started_at, finished_at, seed, layout, frame_count, hair_strands, config_json, summary_json`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r               Run
		finished        sql.NullInt64
		config, summary sql.NullString
	)
	if err := row.Scan(&r.RunID, &r.StartedAt, &finished, &r.Seed, &r.Layout,
		&r.FrameCount, &r.HairStrands, &config, &summary); err != nil {
		return nil, err
	}
	r.FinishedAt = finished.Int64
	if config.Valid {
		r.ConfigJSON = json.RawMessage(config.String)
	}
	if summary.Valid {
		r.SummaryJSON = json.RawMessage(summary.String)
	}
	return &r, nil
}

// GetRun loads one run.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM dance_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *RunStore) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM dance_runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
