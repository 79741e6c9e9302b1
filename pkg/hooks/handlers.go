package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/wardenhq/warden/pkg/logger"
	"github.com/wardenhq/warden/pkg/policy"
	"github.com/wardenhq/warden/pkg/scan"
	"github.com/wardenhq/warden/pkg/sessions"
	"github.com/wardenhq/warden/pkg/transcript"
)

// Handler applies one hook entry point to a session record. It returns
// the updated record and an optional advisory for the host's diagnostic
// channel. Handlers are pure over their inputs apart from reading the
// transcript and scanned files.
type Handler func(ctx context.Context, event *Event, record sessions.Record) (sessions.Record, string, error)

// Config carries the policy knobs for the hook handlers. All of these
// come from configuration; none are baked in.
type Config struct {
	Thresholds    []int    // ascending tool call counts that trigger a compaction suggestion
	Markers       []string // debug marker strings for the post-edit and stop scans
	Excludes      []string // glob patterns excluded from scanning
	MinMessages   int      // minimum message count for pattern extraction eligibility
	CandidatesDir string   // where eligibility marker files are dropped
}

// DefaultCandidatesDir returns the pattern extraction candidates
// directory, honoring WARDEN_BASE_PATH like the session store does.
func DefaultCandidatesDir() (string, error) {
	if basePath := os.Getenv("WARDEN_BASE_PATH"); basePath != "" {
		return filepath.Join(basePath, "candidates"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, ".warden", "candidates"), nil
}

// Handlers holds the configured hook entry points.
type Handlers struct {
	thresholds    []int
	scanner       *scan.Scanner
	minMessages   int
	candidatesDir string
}

// NewHandlers creates the hook handlers from config, filling unset knobs
// with defaults (suggest every 50 tool calls, 10 messages for
// eligibility).
func NewHandlers(config Config) *Handlers {
	thresholds := config.Thresholds
	if len(thresholds) == 0 {
		thresholds = policy.Every(50, 200)
	}
	minMessages := config.MinMessages
	if minMessages <= 0 {
		minMessages = 10
	}
	return &Handlers{
		thresholds:    thresholds,
		scanner:       scan.NewScanner(config.Markers, config.Excludes),
		minMessages:   minMessages,
		candidatesDir: config.CandidatesDir,
	}
}

// PreToolUse counts a tool invocation and suggests compaction when the
// count crosses a configured threshold. Crossing several thresholds at
// once collapses into a single suggestion recorded at the highest one.
func (h *Handlers) PreToolUse(ctx context.Context, event *Event, record sessions.Record) (sessions.Record, string, error) {
	record.ToolCallCount++

	suggest, at := policy.ShouldSuggest(record.ToolCallCount, record.LastSuggestedAtCount, h.thresholds)
	if !suggest {
		return record, "", nil
	}

	record.LastSuggestedAtCount = at
	advisory := fmt.Sprintf("%d tool calls in this session. Consider running /compact to keep the context lean.", record.ToolCallCount)
	return record, advisory, nil
}

// PreCompact records an observed compaction and snapshots the transcript
// summary so the state survives the host truncating its context. The
// snapshot is skipped once a session-end summary has been finalized.
func (h *Handlers) PreCompact(ctx context.Context, event *Event, record sessions.Record) (sessions.Record, string, error) {
	record.CompactionEvents = append(record.CompactionEvents, time.Now().UTC())

	if event.TranscriptPath != "" && !record.Summarized() {
		summary := transcript.SummarizeFile(ctx, event.TranscriptPath)
		record.Summary = summary
		record.MessageCount = summary.MessageCount
	}

	advisory := fmt.Sprintf("Session state saved before compaction (%d compactions so far).", len(record.CompactionEvents))
	return record, advisory, nil
}

// PostEdit scans the edited file for debug markers. Stateless: the
// record passes through untouched.
func (h *Handlers) PostEdit(ctx context.Context, event *Event, record sessions.Record) (sessions.Record, string, error) {
	path := event.EditedFile()
	if path == "" {
		return record, "", nil
	}

	findings, err := h.scanner.ScanFile(path)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("file", path).Warn("post-edit scan failed")
		return record, "", nil
	}
	if len(findings) == 0 {
		return record, "", nil
	}

	return record, formatFindings("Debug markers left in edited file:", findings), nil
}

// Stop scans every file the session modified, per the transcript, and
// emits one consolidated warning. Test and config files are excluded by
// the scanner's globs. Stateless.
func (h *Handlers) Stop(ctx context.Context, event *Event, record sessions.Record) (sessions.Record, string, error) {
	if event.TranscriptPath == "" {
		return record, "", nil
	}

	summary := transcript.SummarizeFile(ctx, event.TranscriptPath)
	if len(summary.FilesModified) == 0 {
		return record, "", nil
	}

	findings, err := h.scanner.ScanAll(summary.FilesModified)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("stop scan skipped some files")
	}
	if len(findings) == 0 {
		return record, "", nil
	}

	return record, formatFindings("Debug markers left in files modified this session:", findings), nil
}

// SessionEnd finalizes the session record: it summarizes the transcript
// exactly once, then checks pattern extraction eligibility and drops a
// candidate marker when the session was long enough.
func (h *Handlers) SessionEnd(ctx context.Context, event *Event, record sessions.Record) (sessions.Record, string, error) {
	if record.Summarized() {
		logger.G(ctx).WithField("session_id", record.SessionID).Debug("session already summarized, skipping")
		return record, "", nil
	}

	summary := transcript.SummarizeFile(ctx, event.TranscriptPath)
	record.Summary = summary
	record.MessageCount = summary.MessageCount
	record.SummaryFinal = true

	if record.MessageCount < h.minMessages {
		return record, "", nil
	}

	if err := h.writeCandidateMarker(record); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to write pattern extraction candidate marker")
	}

	advisory := fmt.Sprintf("Session %s recorded %d messages and is eligible for pattern extraction.", record.SessionID, record.MessageCount)
	return record, advisory, nil
}

// candidateMarker flags a finished session as worth mining for reusable
// patterns. Downstream tooling consumes and removes these.
type candidateMarker struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	FlaggedAt    time.Time `json:"flagged_at"`
}

func (h *Handlers) writeCandidateMarker(record sessions.Record) error {
	dir := h.candidatesDir
	if dir == "" {
		var err error
		if dir, err = DefaultCandidatesDir(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create candidates directory")
	}

	marker := candidateMarker{
		SessionID:    record.SessionID,
		MessageCount: record.MessageCount,
		FlaggedAt:    time.Now().UTC(),
	}
	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal candidate marker")
	}

	path := filepath.Join(dir, uuid.New().String()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write candidate marker")
	}
	return nil
}

func formatFindings(header string, findings []scan.Finding) string {
	var b strings.Builder
	b.WriteString(header)
	for _, f := range findings {
		fmt.Fprintf(&b, "\n  %s:%d: %s", f.Path, f.Line, f.Text)
	}
	return b.String()
}
