// Package hooks implements the lifecycle hook entry points the host
// invokes around tool calls, compactions, and session termination. Each
// invocation is a short-lived process: read one event from stdin, apply
// the handler for the entry point against the session record, emit an
// advisory on stderr, exit 0. Hooks never block the host, so every error
// in this package degrades to a diagnostic instead of a non-zero exit.
package hooks

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Event payloads are small control records, never transcript-sized.
const maxEventSize = 1 * 1024 * 1024

// ErrMalformedEvent marks an event payload that could not be decoded or
// is missing its session id. Handlers skip processing when they see it.
var ErrMalformedEvent = errors.New("malformed hook event")

// Event is the payload the host writes to a hook's stdin. Fields are a
// superset across hook types; each entry point reads the ones relevant
// to it.
type Event struct {
	SessionID      string          `json:"session_id"`
	HookEventName  string          `json:"hook_event_name,omitempty"`
	ToolName       string          `json:"tool_name,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
	FilePath       string          `json:"file_path,omitempty"`
	TranscriptPath string          `json:"transcript_path,omitempty"`
	CWD            string          `json:"cwd,omitempty"`
}

// ReadEvent decodes a single event payload from the host. Unparseable
// input or a missing session_id yields ErrMalformedEvent.
func ReadEvent(r io.Reader) (*Event, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxEventSize))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedEvent, "failed to read event payload: %v", err)
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrapf(ErrMalformedEvent, "failed to decode event payload: %v", err)
	}
	if event.SessionID == "" {
		return nil, errors.Wrap(ErrMalformedEvent, "event payload is missing session_id")
	}

	return &event, nil
}

// EditedFile returns the file path the event refers to, either from the
// top-level field or from the tool input of an edit tool.
func (e *Event) EditedFile() string {
	if e.FilePath != "" {
		return e.FilePath
	}
	if len(e.ToolInput) == 0 {
		return ""
	}
	var input struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(e.ToolInput, &input); err != nil {
		return ""
	}
	return input.FilePath
}
