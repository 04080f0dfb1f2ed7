package remotesync

import (
	"testing"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payloadNow = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

func payloadSettings(supervisorText string) remotesync.Settings {
	return NormalizeSettings(remotesync.RawSettings{
		Enabled:        true,
		Endpoint:       "https://reports.example.com/sync",
		SchoolCode:     "sch-1",
		SchoolStart:    "07:30",
		GraceMinutes:   10,
		SupervisorText: supervisorText,
	})
}

func testRoster() []student.Student {
	return []student.Student{
		{ID: "st1", Name: "Aya", Grade: "6", Class: "6A"},
		{ID: "st2", Name: "Badr", Grade: "6", Class: "6B"},
		{ID: "st3", Name: "Celine", Grade: "7", Class: "7A"},
	}
}

func TestBuildPayloadClassification(t *testing.T) {
	attendance := map[string]map[string]string{
		"2026-03-09": {
			"st1": "07:40", // exactly at cutoff (07:30 + 10m)
			"st2": "07:41", // one minute past
		},
	}

	payload := BuildPayload(testRoster(), attendance, payloadSettings(""), payloadNow, BuildOptions{})

	assert.Equal(t, "2026-03-09", payload.Day)
	assert.Equal(t, "sch-1", payload.School)

	require.Len(t, payload.Packages.All.Rows, 3)
	rows := map[string]remotesync.Row{}
	for _, row := range payload.Packages.All.Rows {
		rows[row.ID] = row
	}

	// Exactly at the grace cutoff is not late.
	assert.Equal(t, remotesync.RowPresent, rows["st1"].Status)
	assert.Zero(t, rows["st1"].LateMinutes)

	assert.Equal(t, remotesync.RowLate, rows["st2"].Status)
	assert.Equal(t, 1, rows["st2"].LateMinutes)

	assert.Equal(t, remotesync.RowAbsent, rows["st3"].Status)
	assert.Nil(t, rows["st3"].ArrivalTime)

	// The lists partition the roster.
	sum := payload.Summary
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, sum.Total, sum.Present+sum.Late+sum.Absent)
	assert.Len(t, payload.Lists.Present, sum.Present)
	assert.Len(t, payload.Lists.Late, sum.Late)
	assert.Len(t, payload.Lists.Absent, sum.Absent)
}

func TestBuildPayloadLateMinutesRoundsUp(t *testing.T) {
	attendance := map[string]map[string]string{
		"2026-03-09": {"st1": "07:41"},
	}
	settings := payloadSettings("")
	settings.GraceMinutes = 10

	// 60 seconds past the cutoff rounds to 1 minute, not 0.
	payload := BuildPayload(testRoster()[:1], attendance, settings, payloadNow, BuildOptions{})
	assert.Equal(t, 1, payload.Packages.All.Rows[0].LateMinutes)
}

func TestBuildPayloadRecipients(t *testing.T) {
	payload := BuildPayload(testRoster(), nil, payloadSettings("S1|Grade6 Lead|grades=6\nS2|Principal"), payloadNow, BuildOptions{})

	require.Len(t, payload.Recipients, 3)
	assert.Equal(t, AllRecipientID, payload.Recipients[0].ID)
	assert.Equal(t, "S1", payload.Recipients[1].ID)
	assert.Equal(t, "S2", payload.Recipients[2].ID)

	// Grade filter narrows the package; scope-all supervisor sees everyone.
	require.Contains(t, payload.Packages.BySupervisor, "S1")
	assert.Len(t, payload.Packages.BySupervisor["S1"].Rows, 2)
	assert.Len(t, payload.Packages.BySupervisor["S2"].Rows, 3)
}

func TestBuildPayloadClassMatchIsCaseInsensitive(t *testing.T) {
	payload := BuildPayload(testRoster(), nil, payloadSettings("S1|Lead|classes=6b"), payloadNow, BuildOptions{})

	rows := payload.Packages.BySupervisor["S1"].Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "st2", rows[0].ID)
}

func TestBuildPayloadAcknowledgedLeaveRequests(t *testing.T) {
	payload := BuildPayload(nil, nil, payloadSettings(""), payloadNow, BuildOptions{
		AcknowledgedLeaveRequests: []string{" lr1 ", "lr2", "lr1", ""},
	})
	assert.Equal(t, []string{"lr1", "lr2"}, payload.AcknowledgedLeaveRequests)

	empty := BuildPayload(nil, nil, payloadSettings(""), payloadNow, BuildOptions{
		AcknowledgedLeaveRequests: []string{"", "  "},
	})
	assert.Nil(t, empty.AcknowledgedLeaveRequests)
}

func TestBuildPayloadUnparseableArrivalStaysPresent(t *testing.T) {
	attendance := map[string]map[string]string{
		"2026-03-09": {"st1": "whenever"},
	}

	payload := BuildPayload(testRoster()[:1], attendance, payloadSettings(""), payloadNow, BuildOptions{})
	assert.Equal(t, remotesync.RowPresent, payload.Packages.All.Rows[0].Status)
}
