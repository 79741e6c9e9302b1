package hooks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvent(t *testing.T) {
	input := `{
		"session_id": "sess-1",
		"hook_event_name": "PreToolUse",
		"tool_name": "Edit",
		"tool_input": {"file_path": "/src/main.go"},
		"transcript_path": "/tmp/transcript.jsonl",
		"cwd": "/src"
	}`

	event, err := ReadEvent(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, "PreToolUse", event.HookEventName)
	assert.Equal(t, "Edit", event.ToolName)
	assert.Equal(t, "/tmp/transcript.jsonl", event.TranscriptPath)
	assert.Equal(t, "/src", event.CWD)
	assert.Equal(t, "/src/main.go", event.EditedFile())
}

func TestReadEvent_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"not json", "this is not json"},
		{"truncated", `{"session_id": "x"`},
		{"missing session_id", `{"tool_name": "Edit"}`},
		{"empty session_id", `{"session_id": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEvent(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}

func TestEditedFile_PrefersTopLevelPath(t *testing.T) {
	event, err := ReadEvent(strings.NewReader(
		`{"session_id": "s", "file_path": "/a.go", "tool_input": {"file_path": "/b.go"}}`))
	require.NoError(t, err)
	assert.Equal(t, "/a.go", event.EditedFile())
}

func TestEditedFile_NoPath(t *testing.T) {
	event, err := ReadEvent(strings.NewReader(
		`{"session_id": "s", "tool_input": {"command": "ls"}}`))
	require.NoError(t, err)
	assert.Empty(t, event.EditedFile())
}
