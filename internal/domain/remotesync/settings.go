package remotesync

// Sync schedule modes.
const (
	ModeTime      = "time"
	ModeCountdown = "countdown"
)

// RawSettings is the settings blob as stored or submitted, before
// normalization. Every field may hold garbage; NormalizeSettings degrades
// each one to a documented default instead of failing.
type RawSettings struct {
	Enabled          bool   `json:"enabled"`
	Endpoint         string `json:"endpoint"`
	AuthToken        string `json:"auth_token"`
	SchoolCode       string `json:"school_code"`
	Mode             string `json:"mode"`
	Time             string `json:"time"`
	CountdownMinutes *int   `json:"countdown_minutes,omitempty"`
	SupervisorText   string `json:"supervisor_text"`
	SchoolStart      string `json:"school_start"`
	GraceMinutes     int    `json:"grace_minutes"`
}

// Settings is the normalized remote-sync configuration. Invariants: Mode is
// one of ModeTime/ModeCountdown, Time and SchoolStart are zero-padded HH:MM,
// CountdownMinutes sits in [0,720], GraceMinutes >= 0, and Supervisors plus
// SupervisorText round-trip through the descriptor parser.
type Settings struct {
	Enabled          bool
	Endpoint         string
	AuthToken        string
	SchoolCode       string
	Mode             string
	Time             string
	CountdownMinutes int
	Supervisors      []SupervisorDescriptor
	SupervisorText   string
	SupervisorErrors []ParseError
	SchoolStart      string
	GraceMinutes     int
}

// Scope values for supervisor descriptors.
const (
	ScopeAll    = "all"
	ScopeCustom = "custom"
)

// SupervisorDescriptor names a staff recipient and the subset of students
// their report package covers. When any of Grades/Classes/Phases is
// non-empty the Scope is custom regardless of what the source line said.
type SupervisorDescriptor struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Scope   string   `json:"scope"`
	Grades  []string `json:"grades"`
	Classes []string `json:"classes"`
	Phases  []string `json:"phases"`
	Tags    []string `json:"tags"`
}

// ParseError records a supervisor line the parser had to skip.
type ParseError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Parse failure reasons.
const (
	ReasonMissingID = "missing-id"
)
