package sessions

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrPersistence marks store read/write failures. Hook handlers degrade to
// in-memory state for the invocation instead of crashing when they see it.
var ErrPersistence = errors.New("session store persistence failure")

// Store defines the interface for session record persistence.
type Store interface {
	// Load returns the record for a session id, or a zero-valued record
	// when none exists. Absence is not an error.
	Load(ctx context.Context, sessionID string) (Record, error)
	// Save persists the full record, overwriting any prior content.
	Save(ctx context.Context, record Record) error
	// List returns all stored records.
	List(ctx context.Context) ([]Record, error)
	// Close releases store resources.
	Close() error
}

// Config holds configuration for the session store.
type Config struct {
	StoreType string // "json" or "sqlite"
	BasePath  string // Base storage directory
}

// DefaultBasePath returns the sessions directory, honoring WARDEN_BASE_PATH
// for tests and relocated installs.
func DefaultBasePath() (string, error) {
	if basePath := os.Getenv("WARDEN_BASE_PATH"); basePath != "" {
		return filepath.Join(basePath, "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, ".warden", "sessions"), nil
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() (*Config, error) {
	basePath, err := DefaultBasePath()
	if err != nil {
		return nil, err
	}

	return &Config{
		StoreType: "json",
		BasePath:  basePath,
	}, nil
}

// SanitizeID makes a host-supplied session id safe to use as a filename
// component. Session ids are untrusted input: anything outside
// [A-Za-z0-9._-] is replaced, and leading dots are stripped so an id can
// never traverse out of the sessions directory or hide as a dotfile.
func SanitizeID(sessionID string) string {
	var b strings.Builder
	for _, r := range sessionID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := strings.TrimLeft(b.String(), ".")
	if sanitized == "" {
		return "unknown"
	}
	return sanitized
}
