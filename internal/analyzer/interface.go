package analyzer

import "context"

// MeetingType selects which prompt template pair applies to a run.
type MeetingType string

const (
	TypeGeneral       MeetingType = "general"
	TypeStandup       MeetingType = "standup"
	TypePlanning      MeetingType = "planning"
	TypeRetrospective MeetingType = "retrospective"
)

// ParseMeetingType maps a raw string to a known MeetingType. Unrecognized
// values fall back to general rather than failing the run.
func ParseMeetingType(raw string) MeetingType {
	switch MeetingType(raw) {
	case TypeStandup, TypePlanning, TypeRetrospective, TypeGeneral:
		return MeetingType(raw)
	default:
		return TypeGeneral
	}
}

// Label returns the human-readable name used in documents and messages.
func (m MeetingType) Label() string {
	switch m {
	case TypeStandup:
		return "Daily Standup"
	case TypePlanning:
		return "Planning Session"
	case TypeRetrospective:
		return "Retrospective"
	default:
		return "General Meeting"
	}
}

// Result is the pair produced once per run from a transcript.
type Result struct {
	Summary     string
	ActionItems []string
}

// Analyzer turns a transcript into a summary and a list of action items.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, meetingType MeetingType) (Result, error)
}
