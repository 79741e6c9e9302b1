// Package transcript parses the host's append-only JSONL session
// transcripts into structured summaries. Each line is one turn or tool
// event; lines are decoded independently so a single malformed record
// never poisons the rest of the file.
package transcript

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// Lines in host transcripts can carry large embedded tool output.
const maxLineSize = 10 * 1024 * 1024

// Line is a single record in a session transcript.
type Line struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	UUID      string   `json:"uuid"`
	SessionID string   `json:"sessionId"`
	Message   *Message `json:"message,omitempty"`
}

// Message is the message field of a transcript line.
type Message struct {
	Role    string        `json:"role"`
	Content ContentBlocks `json:"content"`
}

// ContentItem is one entry in a structured message content array.
type ContentItem struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
}

// ContentBlocks accepts both the plain-string and the content-array shape
// the host uses for message content.
type ContentBlocks []ContentItem

// UnmarshalJSON decodes either a bare string or an array of content items.
func (c *ContentBlocks) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = ContentBlocks{{Type: "text", Text: text}}
		return nil
	}

	var items []ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = items
	return nil
}

// toolInput is the subset of tool input fields the summarizer cares about.
type toolInput struct {
	FilePath string `json:"file_path"`
}

// fileModifyingTools are the host tools whose file_path argument counts as
// a file touched by the session.
var fileModifyingTools = map[string]bool{
	"Edit":         true,
	"Write":        true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// Summary is the structured digest of one session transcript.
type Summary struct {
	UserMessages  []string       `json:"user_messages"`
	FilesModified []string       `json:"files_modified"`
	ToolsUsed     map[string]int `json:"tools_used"`
	MessageCount  int            `json:"message_count"`
	DecodeErrors  int            `json:"decode_errors,omitempty"`
}

// NewSummary returns an empty summary with initialized collections.
func NewSummary() *Summary {
	return &Summary{
		UserMessages:  []string{},
		FilesModified: []string{},
		ToolsUsed:     map[string]int{},
	}
}

// Summarize reads a JSONL transcript and produces a summary. It is total:
// empty input or all-malformed lines yield an empty summary, and decode
// failures are counted rather than returned.
func Summarize(r io.Reader) *Summary {
	summary := NewSummary()
	filesSeen := map[string]bool{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var line Line
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			summary.DecodeErrors++
			continue
		}

		summarizeLine(&line, summary, filesSeen)
	}
	// Scanner errors (oversized line, read failure) end summarization
	// early with whatever was collected. Still total.

	for path := range filesSeen {
		summary.FilesModified = append(summary.FilesModified, path)
	}
	sort.Strings(summary.FilesModified)

	return summary
}

func summarizeLine(line *Line, summary *Summary, filesSeen map[string]bool) {
	if line.Message == nil {
		return
	}

	switch line.Type {
	case "user":
		if text := promptText(line.Message); text != "" {
			summary.UserMessages = append(summary.UserMessages, text)
			summary.MessageCount++
		}
	case "assistant":
		for _, item := range line.Message.Content {
			if item.Type != "tool_use" || item.Name == "" {
				continue
			}
			summary.ToolsUsed[item.Name]++
			if !fileModifyingTools[item.Name] {
				continue
			}
			var input toolInput
			if err := json.Unmarshal(item.Input, &input); err != nil {
				continue
			}
			if input.FilePath != "" {
				filesSeen[input.FilePath] = true
			}
		}
	}
}

// promptText extracts the user-authored text from a user line. Lines that
// only carry tool results back to the model are not user prompts.
func promptText(msg *Message) string {
	var parts []string
	for _, item := range msg.Content {
		if item.Type == "text" && strings.TrimSpace(item.Text) != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n")
}
