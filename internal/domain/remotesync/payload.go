package remotesync

import (
	"time"
)

// PayloadVersion is bumped when the payload wire shape changes.
const PayloadVersion = 1

// Row statuses.
const (
	RowPresent = "present"
	RowLate    = "late"
	RowAbsent  = "absent"
)

// Row is one student's classified attendance for the payload day.
type Row struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Grade       string  `json:"grade"`
	Class       string  `json:"class"`
	ArrivalTime *string `json:"arrivalTime"`
	Status      string  `json:"status"`
	LateMinutes int     `json:"lateMinutes"`
}

// Summary counts the roster partition. Present+Late+Absent always equals
// Total.
type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}

// Lists partitions every roster row by status.
type Lists struct {
	Present []Row `json:"present"`
	Late    []Row `json:"late"`
	Absent  []Row `json:"absent"`
}

// Recipient describes one report audience. The synthetic "all" recipient is
// always first; the rest mirror the supervisor descriptors.
type Recipient struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Scope   string   `json:"scope"`
	Grades  []string `json:"grades,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Phases  []string `json:"phases,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Package is the filtered breakdown for one recipient.
type Package struct {
	Supervisor string  `json:"supervisor"`
	Summary    Summary `json:"summary"`
	Rows       []Row   `json:"rows"`
}

// Packages holds the global package plus one per supervisor, keyed by
// descriptor id.
type Packages struct {
	All          Package            `json:"all"`
	BySupervisor map[string]Package `json:"bySupervisor"`
}

// ScheduleInfo echoes the schedule the payload was produced under.
type ScheduleInfo struct {
	Mode             string `json:"mode"`
	Time             string `json:"time"`
	CountdownMinutes int    `json:"countdownMinutes"`
	SchoolStart      string `json:"schoolStart"`
	GraceMinutes     int    `json:"graceMinutes"`
}

// Payload is the document pushed per sync attempt. Built fresh for every
// attempt, never mutated after construction.
type Payload struct {
	Version                   int          `json:"version"`
	GeneratedAt               time.Time    `json:"generatedAt"`
	Day                       string       `json:"day"`
	School                    string       `json:"school"`
	Schedule                  ScheduleInfo `json:"schedule"`
	Summary                   Summary      `json:"summary"`
	Lists                     Lists        `json:"lists"`
	Recipients                []Recipient  `json:"recipients"`
	Packages                  Packages     `json:"packages"`
	AcknowledgedLeaveRequests []string     `json:"acknowledgedLeaveRequests,omitempty"`
}
