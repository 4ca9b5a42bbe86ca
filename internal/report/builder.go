package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/meetscribe/meetscribe/internal/analyzer"
)

// ErrGenerationFailed means the document could not be rendered or written.
var ErrGenerationFailed = errors.New("document generation failed")

const (
	fontName = "Calibri"
	fontSize = 11
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumberd = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

type implBuilder struct {
	now func() time.Time
}

// New creates a docx report Builder.
func New() Builder {
	return &implBuilder{now: time.Now}
}

// Build renders the report and returns the docx bytes. Content is
// deterministic for identical inputs except for the generation timestamp.
func (b *implBuilder) Build(meetingType analyzer.MeetingType, result analyzer.Result, transcript string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	addStyledRun(doc.AddParagraph(""), "Meeting Summary Report", true, 16)
	addStyledRun(doc.AddParagraph(""), meetingType.Label(), true, 13)
	plainParagraph(doc, "Generated: "+b.now().Format("2006-01-02 15:04:05"))
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Executive Summary", true, 14)
	writeMarkdown(doc, result.Summary)
	doc.AddParagraph("")

	if len(result.ActionItems) > 0 {
		addStyledRun(doc.AddParagraph(""), "Action Items", true, 14)
		for _, item := range result.ActionItems {
			text := strings.TrimSpace(strings.TrimPrefix(item, "-"))
			p := doc.AddParagraph("")
			addRichText(p, "• "+text)
		}
		doc.AddParagraph("")
	}

	addStyledRun(doc.AddParagraph(""), "Full Transcript", true, 14)
	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		plainParagraph(doc, line)
	}

	return save(doc)
}

// save round-trips through a temp file; godocx writes zip archives to paths.
func save(doc *docx.RootDoc) ([]byte, error) {
	tmp, err := os.CreateTemp("", "report-*.docx")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return data, nil
}

// writeMarkdown renders the model's markdown-ish output as styled paragraphs.
func writeMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			p := doc.AddParagraph("")
			addStyledRun(p, m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			p := doc.AddParagraph("")
			addRichText(p, "• "+m[1])
			continue
		}

		if reNumberd.MatchString(trimmed) {
			p := doc.AddParagraph("")
			addRichText(p, trimmed)
			continue
		}

		p := doc.AddParagraph("")
		addRichText(p, trimmed)
	}
}

func plainParagraph(doc *docx.RootDoc, text string) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 14
	case 2:
		return 13
	case 3:
		return 12
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			clean := cleanMarkdownInline(part)
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			clean := cleanMarkdownInline(matches[i][1])
			p.AddText(clean).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
