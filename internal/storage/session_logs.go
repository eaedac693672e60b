package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitcart/internal/session"
)

// SessionLog is the outcome of one guided session. Progress is never stored
// while a session runs; only this summary is written when it ends.
type SessionLog struct {
	ID            uuid.UUID       `json:"id"`
	StartedAt     time.Time       `json:"started_at"`
	EndedAt       time.Time       `json:"ended_at"`
	Status        session.Status  `json:"status"`
	EntryCount    int             `json:"entry_count"`
	SetsCompleted int             `json:"sets_completed"`
	CardioMinutes int             `json:"cardio_minutes"`
	Entries       json.RawMessage `json:"entries"`
}

// NewSessionLog summarises a terminal session state.
func NewSessionLog(state session.State, startedAt, endedAt time.Time) (SessionLog, error) {
	entries, err := json.Marshal(state.Entries)
	if err != nil {
		return SessionLog{}, fmt.Errorf("encoding session entries: %w", err)
	}
	return SessionLog{
		ID:            uuid.New(),
		StartedAt:     startedAt,
		EndedAt:       endedAt,
		Status:        state.Status,
		EntryCount:    state.Total,
		SetsCompleted: state.SetsDone(),
		CardioMinutes: state.CardioMinutes(),
		Entries:       entries,
	}, nil
}

// Duration is the wall time between start and end.
func (l SessionLog) Duration() time.Duration {
	return l.EndedAt.Sub(l.StartedAt)
}

// InsertSessionLog stores a finished session.
func (db *DB) InsertSessionLog(ctx context.Context, l SessionLog) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO session_logs (id, started_at, ended_at, status, entry_count,
		 sets_completed, cardio_minutes, entries)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO NOTHING`,
		l.ID, l.StartedAt, l.EndedAt, string(l.Status), l.EntryCount,
		l.SetsCompleted, l.CardioMinutes, l.Entries,
	)
	if err != nil {
		return fmt.Errorf("inserting session log: %w", err)
	}
	return nil
}

// QuerySessionLogs returns sessions started in [start, end), newest first.
func (db *DB) QuerySessionLogs(ctx context.Context, start, end time.Time, limit int) ([]SessionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, started_at, ended_at, status, entry_count, sets_completed, cardio_minutes, entries
		 FROM session_logs
		 WHERE started_at >= $1 AND started_at < $2
		 ORDER BY started_at DESC
		 LIMIT $3`,
		start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("querying session logs: %w", err)
	}
	defer rows.Close()

	var result []SessionLog
	for rows.Next() {
		var l SessionLog
		var status string
		if err := rows.Scan(&l.ID, &l.StartedAt, &l.EndedAt, &status, &l.EntryCount,
			&l.SetsCompleted, &l.CardioMinutes, &l.Entries); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		l.Status = session.Status(status)
		result = append(result, l)
	}
	return result, rows.Err()
}
