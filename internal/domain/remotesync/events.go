package remotesync

// Status event kinds surfaced on the broadcast channel.
const (
	EventKindStatus       = "status"
	EventKindState        = "state"
	EventKindLeaveApplied = "leave-requests-applied"
)

// Extra status values emitted alongside the SyncState statuses.
const (
	StatusDisabled = "disabled"
)

// StatusEvent is the payload of an outbound broadcast message. Kind selects
// which fields are meaningful: "status" carries Status/Reason plus Payload
// and Response on success or Error on failure, "state" carries State,
// "leave-requests-applied" carries AppliedIDs.
type StatusEvent struct {
	Kind       string      `json:"kind"`
	Status     string      `json:"status,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Error      string      `json:"error,omitempty"`
	Summary    *Summary    `json:"summary,omitempty"`
	Payload    *Payload    `json:"payload,omitempty"`
	Response   interface{} `json:"response,omitempty"`
	State      *SyncState  `json:"state,omitempty"`
	AppliedIDs []string    `json:"applied_ids,omitempty"`
}
