package remotesync

import (
	"strings"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
)

// ParseSupervisorLines parses the line-oriented supervisor mini-language.
// Each non-blank line is pipe-delimited: id | display name | key=value or
// bare flag tokens. Lines without an id are reported as errors and skipped;
// everything else degrades quietly.
func ParseSupervisorLines(lines []string) ([]remotesync.SupervisorDescriptor, []remotesync.ParseError) {
	var supervisors []remotesync.SupervisorDescriptor
	var errs []remotesync.ParseError

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		tokens := strings.Split(line, "|")
		id := strings.TrimSpace(tokens[0])
		if id == "" {
			errs = append(errs, remotesync.ParseError{Line: i + 1, Reason: remotesync.ReasonMissingID})
			continue
		}

		desc := remotesync.SupervisorDescriptor{
			ID:    id,
			Name:  id,
			Scope: remotesync.ScopeAll,
		}
		if len(tokens) > 1 {
			if name := strings.TrimSpace(tokens[1]); name != "" {
				desc.Name = name
			}
		}

		for _, token := range tokens[2:] {
			applySupervisorToken(&desc, token)
		}

		// Filter presence wins over any explicit scope token, in both
		// directions. Downstream package matching depends on this exact
		// rule, keep it.
		if len(desc.Grades) > 0 || len(desc.Classes) > 0 || len(desc.Phases) > 0 {
			desc.Scope = remotesync.ScopeCustom
		} else if desc.Scope == remotesync.ScopeCustom {
			desc.Scope = remotesync.ScopeAll
		}

		supervisors = append(supervisors, desc)
	}

	return supervisors, errs
}

// ParseSupervisorText splits a raw multi-line block and parses it.
func ParseSupervisorText(text string) ([]remotesync.SupervisorDescriptor, []remotesync.ParseError) {
	return ParseSupervisorLines(strings.Split(text, "\n"))
}

func applySupervisorToken(desc *remotesync.SupervisorDescriptor, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	if key, value, found := strings.Cut(token, "="); found {
		values := splitCSV(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "grades", "grade":
			desc.Grades = append(desc.Grades, values...)
		case "classes", "class":
			desc.Classes = append(desc.Classes, values...)
		case "phases", "phase", "stage":
			desc.Phases = append(desc.Phases, values...)
		case "tags", "tag":
			for _, v := range values {
				desc.Tags = append(desc.Tags, strings.ToLower(v))
			}
		case "scope":
			if strings.EqualFold(strings.TrimSpace(value), remotesync.ScopeCustom) {
				desc.Scope = remotesync.ScopeCustom
			} else {
				desc.Scope = remotesync.ScopeAll
			}
		}
		return
	}

	switch lower := strings.ToLower(token); {
	case lower == "all" || lower == "everyone" || lower == "general":
		desc.Scope = remotesync.ScopeAll
	case strings.HasPrefix(lower, "tag:"):
		if tag := strings.TrimSpace(lower[len("tag:"):]); tag != "" {
			desc.Tags = append(desc.Tags, tag)
		}
	}
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatSupervisorLine renders a descriptor back into its canonical line
// form. Parsing the result yields an equivalent descriptor; list order is
// preserved.
func FormatSupervisorLine(desc remotesync.SupervisorDescriptor) string {
	segments := []string{desc.ID, desc.Name}

	if len(desc.Grades) > 0 {
		segments = append(segments, "grades="+strings.Join(desc.Grades, ","))
	}
	if len(desc.Classes) > 0 {
		segments = append(segments, "classes="+strings.Join(desc.Classes, ","))
	}
	if len(desc.Phases) > 0 {
		segments = append(segments, "phases="+strings.Join(desc.Phases, ","))
	}
	if len(desc.Tags) > 0 {
		segments = append(segments, "tags="+strings.Join(desc.Tags, ","))
	}
	segments = append(segments, "scope="+desc.Scope)

	return strings.Join(segments, "|")
}

// FormatSupervisorText renders a descriptor list as the multi-line block the
// settings store keeps as canonical text.
func FormatSupervisorText(descs []remotesync.SupervisorDescriptor) string {
	lines := make([]string, 0, len(descs))
	for _, d := range descs {
		lines = append(lines, FormatSupervisorLine(d))
	}
	return strings.Join(lines, "\n")
}
