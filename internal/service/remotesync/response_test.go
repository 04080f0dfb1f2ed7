package remotesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLeaveRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{
			name:    "top-level leaveRequests",
			body:    `{"leaveRequests":[{"id":"lr1","studentId":"st1","reason":"sick"}]}`,
			wantIDs: []string{"lr1"},
		},
		{
			name:    "nested inbox",
			body:    `{"inbox":{"leaveRequests":[{"id":"lr2","studentId":"st2"}]}}`,
			wantIDs: []string{"lr2"},
		},
		{
			name: "commands filtered by kind",
			body: `{"commands":[
				{"kind":"leave-request","payload":{"id":"lr3","studentId":"st3"}},
				{"kind":"noop","payload":{"id":"ignored"}}
			]}`,
			wantIDs: []string{"lr3"},
		},
		{
			name:    "empty body",
			body:    "",
			wantIDs: nil,
		},
		{
			name:    "non-json body",
			body:    "ok",
			wantIDs: nil,
		},
		{
			name:    "json without any recognized shape",
			body:    `{"status":"accepted"}`,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := ExtractLeaveRequests([]byte(tt.body))

			require.Len(t, requests, len(tt.wantIDs))
			for i, id := range tt.wantIDs {
				assert.Equal(t, id, requests[i].ID)
			}
		})
	}
}
