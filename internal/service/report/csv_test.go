package report

import (
	"strings"
	"testing"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCSVQuoting(t *testing.T) {
	arrival := "07:20"
	rows := []remotesync.Row{
		{ID: "st1", Name: "Aya, Jr.", Grade: "6", Class: "6A", ArrivalTime: &arrival, Status: remotesync.RowPresent},
		{ID: "st2", Name: `Badr "B" Khalil`, Grade: "6", Class: "6B", Status: remotesync.RowAbsent},
	}

	data, err := marshalCSV(rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,grade,class,arrival_time,status,late_minutes", lines[0])

	// A comma-bearing field is quoted; an embedded quote is doubled.
	assert.Contains(t, lines[1], `"Aya, Jr."`)
	assert.Contains(t, lines[2], `"Badr ""B"" Khalil"`)
}

func TestMarshalCSVEmpty(t *testing.T) {
	data, err := marshalCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "id,name,grade,class,arrival_time,status,late_minutes\n", string(data))
}
