package remotesync

import (
	"time"
)

// Sync attempt statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusError   = "error"
)

// SyncState is the durable record of the last push attempt. The manager is
// its only writer; it survives process restarts and is keyed per school.
// Concurrent writers are resolved last-write-wins, there is no locking.
type SyncState struct {
	LastAttemptAt   *time.Time `json:"last_attempt_at"`
	LastAttemptDay  string     `json:"last_attempt_day"`
	LastSuccessAt   *time.Time `json:"last_success_at"`
	LastSuccessDay  string     `json:"last_success_day"`
	LastStatus      string     `json:"last_status"` // pending|success|error or "" before first attempt
	LastSummary     *Summary   `json:"last_summary,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	PendingRetryAt  *time.Time `json:"pending_retry_at,omitempty"`
	PendingLeaveAck []string   `json:"pending_leave_ack,omitempty"`
}

// Clone returns a deep copy so snapshots handed to subscribers cannot alias
// the manager's working state.
func (s SyncState) Clone() SyncState {
	out := s
	if s.LastSummary != nil {
		sum := *s.LastSummary
		out.LastSummary = &sum
	}
	if s.PendingLeaveAck != nil {
		out.PendingLeaveAck = append([]string(nil), s.PendingLeaveAck...)
	}
	return out
}
