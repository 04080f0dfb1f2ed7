package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
)

var csvHeader = []string{"id", "name", "grade", "class", "arrival_time", "status", "late_minutes"}

// marshalCSV renders rows as an RFC 4180 document: fields containing a
// comma, quote, or line break are quoted, embedded quotes doubled.
func marshalCSV(rows []remotesync.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		arrival := ""
		if row.ArrivalTime != nil {
			arrival = *row.ArrivalTime
		}
		record := []string{
			row.ID,
			row.Name,
			row.Grade,
			row.Class,
			arrival,
			row.Status,
			strconv.Itoa(row.LateMinutes),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
