package analyzer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
)

type fakeGenerator struct {
	prompts   []string
	responses []string
	err       error
	delay     time.Duration
}

func (f *fakeGenerator) generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func testPrompts(t *testing.T) config.PromptsConfig {
	t.Helper()
	cfg := &config.Config{
		Whisper: config.WhisperConfig{ModelPath: "m.bin", BinaryPath: "./whisper"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg.Prompts
}

func newTestAnalyzer(t *testing.T, gen textGenerator) *implAnalyzer {
	t.Helper()
	return &implAnalyzer{
		gen:     gen,
		prompts: testPrompts(t),
		timeout: 5 * time.Second,
		logger:  logger.New("error"),
	}
}

func TestAnalyze(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"The team discussed progress. Alice finished the API and Bob is blocked on DB access.",
		"- Unblock Bob on DB access\n- Review Alice's API work",
	}}
	a := newTestAnalyzer(t, gen)

	transcript := "Alice: finished API. Bob: blocked on DB access."
	result, err := a.Analyze(context.Background(), transcript, TypeStandup)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !strings.Contains(result.Summary, "Alice") || !strings.Contains(result.Summary, "Bob") {
		t.Errorf("summary should mention both participants: %q", result.Summary)
	}
	want := []string{"- Unblock Bob on DB access", "- Review Alice's API work"}
	if !reflect.DeepEqual(result.ActionItems, want) {
		t.Errorf("action items = %v, want %v", result.ActionItems, want)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 generation calls, got %d", len(gen.prompts))
	}
	for i, p := range gen.prompts {
		if !strings.Contains(p, transcript) {
			t.Errorf("prompt %d does not embed the transcript", i)
		}
	}
}

func TestAnalyzeRoutesPromptsByMeetingType(t *testing.T) {
	transcript := "same transcript"

	promptsFor := func(mt MeetingType) []string {
		gen := &fakeGenerator{responses: []string{"summary", "- item"}}
		a := newTestAnalyzer(t, gen)
		if _, err := a.Analyze(context.Background(), transcript, mt); err != nil {
			t.Fatalf("Analyze(%s) error = %v", mt, err)
		}
		return gen.prompts
	}

	general := promptsFor(TypeGeneral)
	standup := promptsFor(TypeStandup)

	if general[0] == standup[0] {
		t.Error("general and standup must format distinct summary prompts")
	}
	if general[1] == standup[1] {
		t.Error("general and standup must format distinct action prompts")
	}
}

func TestAnalyzeUnknownTypeFallsBackToGeneral(t *testing.T) {
	transcript := "same transcript"

	gen := &fakeGenerator{responses: []string{"summary", "- item"}}
	a := newTestAnalyzer(t, gen)
	if _, err := a.Analyze(context.Background(), transcript, MeetingType("townhall")); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	genGeneral := &fakeGenerator{responses: []string{"summary", "- item"}}
	ag := newTestAnalyzer(t, genGeneral)
	if _, err := ag.Analyze(context.Background(), transcript, TypeGeneral); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if gen.prompts[0] != genGeneral.prompts[0] {
		t.Error("unrecognized meeting type should use the general templates")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		a := newTestAnalyzer(t, &fakeGenerator{err: errors.New("401 unauthorized")})
		_, err := a.Analyze(context.Background(), "text", TypeGeneral)
		if !errors.Is(err, ErrModelUnavailable) {
			t.Errorf("error = %v, want ErrModelUnavailable", err)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		a := newTestAnalyzer(t, &fakeGenerator{responses: []string{"   \n"}})
		_, err := a.Analyze(context.Background(), "text", TypeGeneral)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		a := newTestAnalyzer(t, &fakeGenerator{delay: time.Second, responses: []string{"x"}})
		a.timeout = 10 * time.Millisecond
		_, err := a.Analyze(context.Background(), "text", TypeGeneral)
		if !errors.Is(err, ErrModelTimeout) {
			t.Errorf("error = %v, want ErrModelTimeout", err)
		}
	})
}

func TestParseActionItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "dash bullets",
			text: "- First task\n- Second task",
			want: []string{"- First task", "- Second task"},
		},
		{
			name: "mixed bullets",
			text: "* Task A\n• Task B\n\n- Task C",
			want: []string{"- Task A", "- Task B", "- Task C"},
		},
		{
			name: "leading line without bullet",
			text: "Fix the build\n- Ship release",
			want: []string{"- Fix the build", "- Ship release"},
		},
		{
			name: "no items disclaimer",
			text: "No specific action items identified in this meeting",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseActionItems(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseActionItems() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMeetingType(t *testing.T) {
	if got := ParseMeetingType("standup"); got != TypeStandup {
		t.Errorf("ParseMeetingType(standup) = %v", got)
	}
	if got := ParseMeetingType("all-hands"); got != TypeGeneral {
		t.Errorf("ParseMeetingType(all-hands) = %v, want general fallback", got)
	}
	if got := ParseMeetingType(""); got != TypeGeneral {
		t.Errorf("ParseMeetingType(empty) = %v, want general fallback", got)
	}
}
