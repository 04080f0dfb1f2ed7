package remotesync

import (
	"strings"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
)

// AllRecipientID identifies the synthetic whole-school recipient.
const AllRecipientID = "all"

// BuildOptions carries the per-attempt extras the manager threads into the
// payload.
type BuildOptions struct {
	AcknowledgedLeaveRequests []string
}

// BuildPayload joins the roster, the day's attendance snapshot and the
// normalized settings into the document a sync attempt pushes. The payload
// day is now's calendar date; a student with no recorded arrival is absent,
// one arriving strictly after schoolStart+grace is late.
func BuildPayload(
	students []student.Student,
	attendanceByDay map[string]map[string]string,
	settings remotesync.Settings,
	now time.Time,
	opts BuildOptions,
) remotesync.Payload {
	day := timeutil.DayKey(now)
	arrivals := attendanceByDay[day]

	cutoff := timeutil.SecondsOfDay(settings.SchoolStart) + settings.GraceMinutes*60

	rows := make([]remotesync.Row, 0, len(students))
	var lists remotesync.Lists
	for _, st := range students {
		row := classifyStudent(st, arrivals, cutoff)
		rows = append(rows, row)
		switch row.Status {
		case remotesync.RowPresent:
			lists.Present = append(lists.Present, row)
		case remotesync.RowLate:
			lists.Late = append(lists.Late, row)
		default:
			lists.Absent = append(lists.Absent, row)
		}
	}

	summary := summarize(rows)

	recipients := []remotesync.Recipient{{
		ID:    AllRecipientID,
		Name:  "All students",
		Scope: remotesync.ScopeAll,
	}}
	bySupervisor := make(map[string]remotesync.Package)
	for _, desc := range settings.Supervisors {
		if desc.ID == "" {
			continue
		}
		recipients = append(recipients, remotesync.Recipient{
			ID:      desc.ID,
			Name:    desc.Name,
			Scope:   desc.Scope,
			Grades:  desc.Grades,
			Classes: desc.Classes,
			Phases:  desc.Phases,
			Tags:    desc.Tags,
		})
		bySupervisor[desc.ID] = buildPackage(desc, rows)
	}

	payload := remotesync.Payload{
		Version:     remotesync.PayloadVersion,
		GeneratedAt: now,
		Day:         day,
		School:      settings.SchoolCode,
		Schedule: remotesync.ScheduleInfo{
			Mode:             settings.Mode,
			Time:             settings.Time,
			CountdownMinutes: settings.CountdownMinutes,
			SchoolStart:      settings.SchoolStart,
			GraceMinutes:     settings.GraceMinutes,
		},
		Summary:    summary,
		Lists:      lists,
		Recipients: recipients,
		Packages: remotesync.Packages{
			All: remotesync.Package{
				Supervisor: AllRecipientID,
				Summary:    summary,
				Rows:       rows,
			},
			BySupervisor: bySupervisor,
		},
	}

	if acks := dedupeIDs(opts.AcknowledgedLeaveRequests); len(acks) > 0 {
		payload.AcknowledgedLeaveRequests = acks
	}

	return payload
}

func classifyStudent(st student.Student, arrivals map[string]string, cutoffSeconds int) remotesync.Row {
	row := remotesync.Row{
		ID:     st.ID,
		Name:   st.Name,
		Grade:  st.Grade,
		Class:  st.Class,
		Status: remotesync.RowAbsent,
	}

	arrival, ok := arrivals[st.ID]
	if !ok || arrival == "" {
		return row
	}

	row.ArrivalTime = &arrival
	row.Status = remotesync.RowPresent

	arrivalSeconds := timeutil.SecondsOfDay(arrival)
	if arrivalSeconds < 0 {
		// Unparseable recorded time still counts as present.
		return row
	}

	// Strictly later than the grace cutoff means late; exactly on it does
	// not.
	if arrivalSeconds > cutoffSeconds {
		diff := arrivalSeconds - cutoffSeconds
		row.Status = remotesync.RowLate
		row.LateMinutes = (diff + 59) / 60
	}
	return row
}

func summarize(rows []remotesync.Row) remotesync.Summary {
	s := remotesync.Summary{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case remotesync.RowPresent:
			s.Present++
		case remotesync.RowLate:
			s.Late++
		default:
			s.Absent++
		}
	}
	return s
}

func buildPackage(desc remotesync.SupervisorDescriptor, rows []remotesync.Row) remotesync.Package {
	matched := make([]remotesync.Row, 0, len(rows))
	for _, row := range rows {
		if descriptorMatches(desc, row) {
			matched = append(matched, row)
		}
	}
	return remotesync.Package{
		Supervisor: desc.ID,
		Summary:    summarize(matched),
		Rows:       matched,
	}
}

func descriptorMatches(desc remotesync.SupervisorDescriptor, row remotesync.Row) bool {
	noFilters := len(desc.Grades) == 0 && len(desc.Classes) == 0 && len(desc.Phases) == 0
	if desc.Scope == remotesync.ScopeAll && noFilters {
		return true
	}

	gradeClass := strings.TrimSpace(row.Grade + " " + row.Class)
	return matchesAnyToken(desc.Grades, row.Grade, row.Class, gradeClass) ||
		matchesAnyToken(desc.Classes, row.Grade, row.Class, gradeClass) ||
		matchesAnyToken(desc.Phases, row.Grade, row.Class, gradeClass)
}

// matchesAnyToken checks the row's grade, class and combined "grade class"
// values against a filter token list, exact or substring, case-insensitive.
func matchesAnyToken(tokens []string, values ...string) bool {
	for _, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		for _, value := range values {
			value = strings.ToLower(strings.TrimSpace(value))
			if value == "" {
				continue
			}
			if value == token || strings.Contains(value, token) || strings.Contains(token, value) {
				return true
			}
		}
	}
	return false
}

// dedupeIDs drops empty and repeated ids while preserving first-seen order.
func dedupeIDs(ids []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
