// Package sessions persists per-session bookkeeping records for the hook
// entry points. Each session the host runs gets one record, created lazily
// on the first hook event that names its id and mutated by every event
// after that. The store is process-external: hook invocations are
// independent short-lived processes, so all cross-invocation state lives
// here.
package sessions

import (
	"time"

	"github.com/wardenhq/warden/pkg/transcript"
)

// Record is the persisted bookkeeping state for one session.
type Record struct {
	SessionID            string              `json:"session_id" db:"session_id"`
	ToolCallCount        int                 `json:"tool_call_count" db:"tool_call_count"`
	LastSuggestedAtCount int                 `json:"last_suggested_at_count,omitempty" db:"last_suggested_at_count"`
	CompactionEvents     []time.Time         `json:"compaction_events,omitempty"`
	Summary              *transcript.Summary `json:"summary,omitempty"`
	SummaryFinal         bool                `json:"summary_final,omitempty" db:"summary_final"`
	MessageCount         int                 `json:"message_count,omitempty" db:"message_count"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" db:"updated_at"`
}

// NewRecord returns a zero-valued record for the given session id.
func NewRecord(sessionID string) Record {
	now := time.Now()
	return Record{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Summarized reports whether the terminal session-end summary has been
// written. Pre-compaction snapshots may set Summary earlier, but session
// end writes it at most once and marks the record final.
func (r Record) Summarized() bool {
	return r.SummaryFinal
}
