package remotesync

import (
	"encoding/json"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/leave"
)

// ExtractLeaveRequests pulls inbound leave requests from a sync response
// body. Three shapes are recognized, checked in order:
//
//	{"leaveRequests": [...]}
//	{"inbox": {"leaveRequests": [...]}}
//	{"commands": [{"kind": "leave-request", "payload": {...}}, ...]}
//
// An empty, non-JSON or unrecognized body yields no requests and no error;
// the push itself already succeeded.
func ExtractLeaveRequests(body []byte) []leave.Request {
	if len(body) == 0 {
		return nil
	}

	var envelope struct {
		LeaveRequests []json.RawMessage `json:"leaveRequests"`
		Inbox         struct {
			LeaveRequests []json.RawMessage `json:"leaveRequests"`
		} `json:"inbox"`
		Commands []struct {
			Kind    string          `json:"kind"`
			Payload json.RawMessage `json:"payload"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	if len(envelope.LeaveRequests) > 0 {
		return decodeRequests(envelope.LeaveRequests)
	}
	if len(envelope.Inbox.LeaveRequests) > 0 {
		return decodeRequests(envelope.Inbox.LeaveRequests)
	}

	var raws []json.RawMessage
	for _, cmd := range envelope.Commands {
		if cmd.Kind == "leave-request" && len(cmd.Payload) > 0 {
			raws = append(raws, cmd.Payload)
		}
	}
	return decodeRequests(raws)
}

func decodeRequests(raws []json.RawMessage) []leave.Request {
	var out []leave.Request
	for _, raw := range raws {
		var req leave.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		out = append(out, req)
	}
	return out
}
