package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one recorded setup attempt.
type Entry struct {
	SessionID   string    `json:"sessionId"`
	BoardID     string    `json:"boardId,omitempty"`
	Mode        string    `json:"mode"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CategoryIDs []int     `json:"categoryIds,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Store reads and writes the setup_history table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts one attempt.
func (s *Store) Record(ctx context.Context, e Entry) error {
	ids, err := json.Marshal(e.CategoryIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO setup_history
			(session_id, board_id, mode, date, status, error, category_ids, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, nullable(e.BoardID), e.Mode, e.Date, e.Status, nullable(e.Error), string(ids),
		e.StartedAt.UTC().Format(time.RFC3339Nano), e.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ByDate returns the most recent attempts for a date, newest first.
func (s *Store) ByDate(ctx context.Context, date string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.query(ctx, `
		SELECT session_id, COALESCE(board_id,''), mode, date, status, COALESCE(error,''),
		       COALESCE(category_ids,'[]'), started_at, finished_at
		FROM setup_history
		WHERE date=?
		ORDER BY id DESC
		LIMIT ?`, date, limit)
}

// BySession returns every attempt of one session, oldest first.
func (s *Store) BySession(ctx context.Context, sessionID string) ([]Entry, error) {
	return s.query(ctx, `
		SELECT session_id, COALESCE(board_id,''), mode, date, status, COALESCE(error,''),
		       COALESCE(category_ids,'[]'), started_at, finished_at
		FROM setup_history
		WHERE session_id=?
		ORDER BY id ASC`, sessionID)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e                 Entry
			ids               string
			started, finished string
		)
		if err := rows.Scan(&e.SessionID, &e.BoardID, &e.Mode, &e.Date, &e.Status, &e.Error,
			&ids, &started, &finished); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &e.CategoryIDs); err != nil {
			return nil, fmt.Errorf("decode category_ids of session %s: %w", e.SessionID, err)
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("decode started_at of session %s: %w", e.SessionID, err)
		}
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("decode finished_at of session %s: %w", e.SessionID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
