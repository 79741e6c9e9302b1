package transcript

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userLine(text string) string {
	return `{"type":"user","message":{"role":"user","content":"` + text + `"}}`
}

func toolUseLine(tool, filePath string) string {
	input := `{}`
	if filePath != "" {
		input = `{"file_path":"` + filePath + `"}`
	}
	return `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","name":"` + tool + `","input":` + input + `}]}}`
}

func TestSummarize_EmptyInput(t *testing.T) {
	summary := Summarize(strings.NewReader(""))

	assert.Empty(t, summary.UserMessages)
	assert.Empty(t, summary.FilesModified)
	assert.Empty(t, summary.ToolsUsed)
	assert.Zero(t, summary.MessageCount)
	assert.Zero(t, summary.DecodeErrors)
}

func TestSummarize_AllMalformedLines(t *testing.T) {
	input := "not json\n{broken\n[1,2,3\n"
	summary := Summarize(strings.NewReader(input))

	assert.Equal(t, 3, summary.DecodeErrors)
	assert.Zero(t, summary.MessageCount)
}

func TestSummarize_UserMessagesInOrder(t *testing.T) {
	input := strings.Join([]string{
		userLine("first"),
		toolUseLine("Bash", ""),
		userLine("second"),
		userLine("third"),
	}, "\n")

	summary := Summarize(strings.NewReader(input))

	assert.Equal(t, []string{"first", "second", "third"}, summary.UserMessages)
	assert.Equal(t, 3, summary.MessageCount)
}

func TestSummarize_ToolResultLinesAreNotPrompts(t *testing.T) {
	input := strings.Join([]string{
		userLine("real prompt"),
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu_1"}]}}`,
	}, "\n")

	summary := Summarize(strings.NewReader(input))

	assert.Equal(t, []string{"real prompt"}, summary.UserMessages)
	assert.Equal(t, 1, summary.MessageCount)
}

func TestSummarize_FilesModifiedDeduplicated(t *testing.T) {
	input := strings.Join([]string{
		toolUseLine("Edit", "/src/main.go"),
		toolUseLine("Write", "/src/util.go"),
		toolUseLine("Edit", "/src/main.go"),
		toolUseLine("Read", "/src/ignored.go"),
	}, "\n")

	summary := Summarize(strings.NewReader(input))

	assert.Equal(t, []string{"/src/main.go", "/src/util.go"}, summary.FilesModified)
	assert.Equal(t, map[string]int{"Edit": 2, "Write": 1, "Read": 1}, summary.ToolsUsed)
}

func TestSummarize_MalformedLinesAreSkippedNotFatal(t *testing.T) {
	input := strings.Join([]string{
		userLine("before"),
		"garbage line",
		userLine("after"),
	}, "\n")

	summary := Summarize(strings.NewReader(input))

	assert.Equal(t, []string{"before", "after"}, summary.UserMessages)
	assert.Equal(t, 1, summary.DecodeErrors)
}

func TestSummarize_EligibilityScenario(t *testing.T) {
	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, userLine("message"))
	}
	lines = append(lines,
		toolUseLine("Bash", ""),
		toolUseLine("Edit", "/a.go"),
		toolUseLine("Grep", ""),
	)

	summary := Summarize(strings.NewReader(strings.Join(lines, "\n")))

	assert.Equal(t, 12, summary.MessageCount)
	assert.Equal(t, 3, len(summary.ToolsUsed))
}

func TestContentBlocks_StringAndArrayShapes(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"user","message":{"role":"user","content":"plain string"}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"text","text":"array shape"}]}}`,
	}, "\n")

	summary := Summarize(strings.NewReader(input))

	assert.Equal(t, []string{"plain string", "array shape"}, summary.UserMessages)
}

func TestSummarizeFile_MissingFile(t *testing.T) {
	summary := SummarizeFile(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"))

	assert.NotNil(t, summary)
	assert.Zero(t, summary.MessageCount)
}

func TestSummarizeFile_EmptyPath(t *testing.T) {
	summary := SummarizeFile(context.Background(), "")

	assert.NotNil(t, summary)
	assert.Zero(t, summary.MessageCount)
}

func TestSummarizeFile_ReadsTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	content := userLine("hello") + "\n" + toolUseLine("Write", "/tmp/x.go") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	summary := SummarizeFile(context.Background(), path)

	assert.Equal(t, 1, summary.MessageCount)
	assert.Equal(t, []string{"/tmp/x.go"}, summary.FilesModified)
}
