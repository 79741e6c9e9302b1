package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/wardenhq/warden/pkg/db"
)

// SQLiteStore implements Store using a single SQLite database. It exists
// for installs that prefer one queryable artifact over a directory of JSON
// files; the record shape is identical.
type SQLiteStore struct {
	db *sqlx.DB
}

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	tool_call_count INTEGER NOT NULL DEFAULT 0,
	last_suggested_at_count INTEGER NOT NULL DEFAULT 0,
	compaction_events TEXT NOT NULL DEFAULT '[]',
	summary TEXT,
	summary_final INTEGER NOT NULL DEFAULT 0,
	message_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`

// NewSQLiteStore opens (and initializes if needed) a SQLite session store
// at basePath/sessions.db.
func NewSQLiteStore(ctx context.Context, basePath string) (*SQLiteStore, error) {
	database, err := db.Open(ctx, filepath.Join(basePath, "sessions.db"))
	if err != nil {
		return nil, errors.Wrapf(ErrPersistence, "failed to open sessions database: %v", err)
	}

	if _, err := database.ExecContext(ctx, sessionsSchema); err != nil {
		database.Close()
		return nil, errors.Wrapf(ErrPersistence, "failed to initialize sessions schema: %v", err)
	}

	return &SQLiteStore{db: database}, nil
}

type sessionRow struct {
	SessionID            string         `db:"session_id"`
	ToolCallCount        int            `db:"tool_call_count"`
	LastSuggestedAtCount int            `db:"last_suggested_at_count"`
	CompactionEvents     string         `db:"compaction_events"`
	Summary              sql.NullString `db:"summary"`
	SummaryFinal         bool           `db:"summary_final"`
	MessageCount         int            `db:"message_count"`
	CreatedAt            string         `db:"created_at"`
	UpdatedAt            string         `db:"updated_at"`
}

func (row sessionRow) toRecord() (Record, error) {
	record := Record{
		SessionID:            row.SessionID,
		ToolCallCount:        row.ToolCallCount,
		LastSuggestedAtCount: row.LastSuggestedAtCount,
		SummaryFinal:         row.SummaryFinal,
		MessageCount:         row.MessageCount,
	}

	var err error
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAt); err != nil {
		return record, errors.Wrapf(ErrPersistence, "failed to parse created_at: %v", err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339Nano, row.UpdatedAt); err != nil {
		return record, errors.Wrapf(ErrPersistence, "failed to parse updated_at: %v", err)
	}

	if err := json.Unmarshal([]byte(row.CompactionEvents), &record.CompactionEvents); err != nil {
		return record, errors.Wrapf(ErrPersistence, "failed to unmarshal compaction events: %v", err)
	}
	if row.Summary.Valid && row.Summary.String != "" {
		if err := json.Unmarshal([]byte(row.Summary.String), &record.Summary); err != nil {
			return record, errors.Wrapf(ErrPersistence, "failed to unmarshal summary: %v", err)
		}
	}

	return record, nil
}

// Load retrieves a session record, or a zero-valued record when absent.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (Record, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM sessions WHERE session_id = ?", SanitizeID(sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewRecord(sessionID), nil
		}
		return NewRecord(sessionID), errors.Wrapf(ErrPersistence, "failed to load session: %v", err)
	}

	record, err := row.toRecord()
	if err != nil {
		return NewRecord(sessionID), err
	}
	record.SessionID = sessionID
	return record, nil
}

// Save persists the full record.
func (s *SQLiteStore) Save(ctx context.Context, record Record) error {
	record.UpdatedAt = time.Now()

	eventsJSON, err := json.Marshal(record.CompactionEvents)
	if err != nil {
		return errors.Wrapf(ErrPersistence, "failed to marshal compaction events: %v", err)
	}

	var summaryJSON sql.NullString
	if record.Summary != nil {
		data, err := json.Marshal(record.Summary)
		if err != nil {
			return errors.Wrapf(ErrPersistence, "failed to marshal summary: %v", err)
		}
		summaryJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (
			session_id, tool_call_count, last_suggested_at_count,
			compaction_events, summary, summary_final, message_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		SanitizeID(record.SessionID), record.ToolCallCount, record.LastSuggestedAtCount,
		string(eventsJSON), summaryJSON, record.SummaryFinal, record.MessageCount,
		record.CreatedAt.Format(time.RFC3339Nano), record.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(ErrPersistence, "failed to save session: %v", err)
	}

	return nil
}

// List returns all stored session records ordered by last update.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, errors.Wrapf(ErrPersistence, "failed to list sessions: %v", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
