package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
)

var (
	// ErrModelUnavailable means the generation API rejected the request
	// (auth failure, exhausted quota across all keys, service outage).
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelTimeout means the generation call exceeded the configured deadline.
	ErrModelTimeout = errors.New("model timeout")
	// ErrMalformedResponse means the model returned empty or unusable output.
	ErrMalformedResponse = errors.New("malformed model response")
)

// textGenerator is the single-call surface the analyzer needs from the
// generation backend. Kept narrow so tests can substitute a recorder.
type textGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

type implAnalyzer struct {
	gen     textGenerator
	prompts config.PromptsConfig
	timeout time.Duration
	logger  logger.Logger
}

// New creates an Analyzer backed by the Gemini API, rotating through the
// supplied API keys on quota errors.
func New(cfg config.GeminiConfig, prompts config.PromptsConfig, apiKeys []string, log logger.Logger) Analyzer {
	return &implAnalyzer{
		gen:     newGeminiGenerator(cfg.Model, apiKeys, log),
		prompts: prompts,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  log,
	}
}

// Analyze formats the transcript into the meeting type's template pair and
// issues two independent generation requests, one for the summary and one
// for the action items.
func (a *implAnalyzer) Analyze(ctx context.Context, transcript string, meetingType MeetingType) (Result, error) {
	pair := a.promptPair(meetingType)

	a.logger.Info(ctx, "Generating summary for %s meeting (%d chars of transcript)",
		meetingType, len(transcript))

	summary, err := a.generate(ctx, fmt.Sprintf(pair.Summary, transcript))
	if err != nil {
		return Result{}, fmt.Errorf("summary: %w", err)
	}

	a.logger.Info(ctx, "Generating action items...")

	actionText, err := a.generate(ctx, fmt.Sprintf(pair.Actions, transcript))
	if err != nil {
		return Result{}, fmt.Errorf("action items: %w", err)
	}

	result := Result{
		Summary:     summary,
		ActionItems: parseActionItems(actionText),
	}

	a.logger.Info(ctx, "Analysis complete: %d action items", len(result.ActionItems))
	return result, nil
}

func (a *implAnalyzer) promptPair(meetingType MeetingType) config.PromptPair {
	switch meetingType {
	case TypeStandup:
		return a.prompts.Standup
	case TypePlanning:
		return a.prompts.Planning
	case TypeRetrospective:
		return a.prompts.Retrospective
	default:
		return a.prompts.General
	}
}

func (a *implAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.generate(genCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			return "", ErrModelTimeout
		}
		if errors.Is(err, ErrMalformedResponse) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrMalformedResponse
	}
	return text, nil
}

// parseActionItems normalizes the model's bullet formatting into "-" lines.
// A first line without a bullet is kept as an item unless it reads like a
// "no action items" disclaimer.
func parseActionItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"), strings.HasPrefix(line, "•"):
			item := strings.TrimSpace(strings.TrimLeft(line, "-*•"))
			if item != "" {
				items = append(items, "- "+item)
			}
		case len(items) == 0 && !strings.HasPrefix(strings.ToLower(line), "no "):
			items = append(items, "- "+line)
		}
	}
	return items
}
