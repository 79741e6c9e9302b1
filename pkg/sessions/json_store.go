package sessions

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wardenhq/warden/pkg/logger"
)

// JSONStore implements Store using one JSON file per session id.
type JSONStore struct {
	basePath string
}

// NewJSONStore creates a new JSON file-based session store.
func NewJSONStore(basePath string) (*JSONStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.Wrapf(ErrPersistence, "failed to create sessions directory: %v", err)
	}

	return &JSONStore{basePath: basePath}, nil
}

func (s *JSONStore) recordPath(sessionID string) string {
	return filepath.Join(s.basePath, SanitizeID(sessionID)+".json")
}

// Load retrieves a session record. A missing file yields a zero-valued
// record for the id, never an error.
func (s *JSONStore) Load(_ context.Context, sessionID string) (Record, error) {
	data, err := os.ReadFile(s.recordPath(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return NewRecord(sessionID), nil
		}
		return NewRecord(sessionID), errors.Wrapf(ErrPersistence, "failed to read session file: %v", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return NewRecord(sessionID), errors.Wrapf(ErrPersistence, "failed to unmarshal session record: %v", err)
	}

	return record, nil
}

// Save persists the full record, overwriting prior content. The write goes
// through a temp file and rename so a concurrent reader never observes a
// torn record.
func (s *JSONStore) Save(_ context.Context, record Record) error {
	record.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrapf(ErrPersistence, "failed to marshal session record: %v", err)
	}

	filePath := s.recordPath(record.SessionID)
	tempPath := filePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return errors.Wrapf(ErrPersistence, "failed to write temporary session file: %v", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return errors.Wrapf(ErrPersistence, "failed to rename temporary session file: %v", err)
	}

	return nil
}

// List returns all stored session records, skipping unreadable files.
func (s *JSONStore) List(ctx context.Context) ([]Record, error) {
	var records []Record

	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("file", path).Warn("failed to read session file")
			return nil
		}

		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			logger.G(ctx).WithError(err).WithField("file", path).Warn("failed to parse session file")
			return nil
		}

		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(ErrPersistence, "failed to list sessions: %v", err)
	}

	return records, nil
}

// Close is a no-op for the JSON file store.
func (s *JSONStore) Close() error {
	return nil
}
