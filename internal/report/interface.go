package report

import "github.com/meetscribe/meetscribe/internal/analyzer"

// Builder renders a run's results into a downloadable docx document with
// Summary, Action Items and Full Transcript sections.
type Builder interface {
	Build(meetingType analyzer.MeetingType, result analyzer.Result, transcript string) ([]byte, error)
}
