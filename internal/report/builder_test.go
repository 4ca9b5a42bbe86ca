package report

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/meetscribe/meetscribe/internal/analyzer"
)

// documentXML unzips the docx bytes and returns word/document.xml as text.
func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("report is not a valid zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(raw)
	}
	t.Fatal("word/document.xml not found in report")
	return ""
}

func TestBuildRoundTrip(t *testing.T) {
	result := analyzer.Result{
		Summary: "The team reviewed sprint progress and agreed to ship on Friday.",
		ActionItems: []string{
			"- Unblock Bob on DB access",
			"- Review deployment checklist",
		},
	}
	transcript := "Alice: finished API. Bob: blocked on DB access."

	data, err := New().Build(analyzer.TypeStandup, result, transcript)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	xml := documentXML(t, data)

	for _, want := range []string{
		"Meeting Summary Report",
		"Daily Standup",
		"Executive Summary",
		"The team reviewed sprint progress and agreed to ship on Friday.",
		"Action Items",
		"Unblock Bob on DB access",
		"Review deployment checklist",
		"Full Transcript",
		"Alice: finished API. Bob: blocked on DB access.",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestBuildWithoutActionItems(t *testing.T) {
	result := analyzer.Result{Summary: "Short sync, nothing assigned."}

	data, err := New().Build(analyzer.TypeGeneral, result, "brief chat")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	xml := documentXML(t, data)
	if strings.Contains(xml, "Action Items") {
		t.Error("Action Items section should be omitted when there are none")
	}
	if !strings.Contains(xml, "General Meeting") {
		t.Error("document missing meeting type label")
	}
}

func TestBuildStripsMarkdownMarkers(t *testing.T) {
	result := analyzer.Result{
		Summary: "## Key Points\n- **Decision**: ship Friday\n1. Review `config`",
	}

	data, err := New().Build(analyzer.TypeGeneral, result, "t")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	xml := documentXML(t, data)
	if strings.Contains(xml, "**") || strings.Contains(xml, "## ") {
		t.Error("markdown markers should not appear in rendered document")
	}
	if !strings.Contains(xml, "Key Points") || !strings.Contains(xml, "ship Friday") {
		t.Error("markdown content lost during rendering")
	}
}

func TestBuildDeterministicExceptTimestamp(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	b := New().(*implBuilder)
	b.now = func() time.Time { return fixed }

	result := analyzer.Result{Summary: "same", ActionItems: []string{"- same"}}

	first, err := b.Build(analyzer.TypeGeneral, result, "same transcript")
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build(analyzer.TypeGeneral, result, "same transcript")
	if err != nil {
		t.Fatal(err)
	}

	if documentXML(t, first) != documentXML(t, second) {
		t.Error("identical inputs with a fixed clock must render identical documents")
	}
}
