package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
)

var (
	// ErrDeliveryFailed means the webhook POST got a non-2xx response or a
	// transport error.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrInvalidWebhook means the configured webhook URL is not a Slack
	// incoming-webhook URL.
	ErrInvalidWebhook = errors.New("invalid webhook url")
	// ErrNothingToSend means both summary and action items are empty.
	ErrNothingToSend = errors.New("nothing to send")
)

type implNotifier struct {
	webhookURL string
	cfg        config.SlackConfig
	client     *http.Client
	logger     logger.Logger
	now        func() time.Time
}

// New creates a Slack webhook Notifier. The webhook URL is validated up
// front so a misconfigured secret fails at startup, not mid-run.
func New(webhookURL string, cfg config.SlackConfig, log logger.Logger) (Notifier, error) {
	if err := ValidateWebhookURL(webhookURL, cfg.WebhookPrefix); err != nil {
		return nil, err
	}
	return &implNotifier{
		webhookURL: webhookURL,
		cfg:        cfg,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:     log,
		now:        time.Now,
	}, nil
}

// ValidateWebhookURL checks the Slack incoming-webhook URL shape.
func ValidateWebhookURL(url, prefix string) error {
	if url == "" || !strings.HasPrefix(url, prefix) || len(url) <= len(prefix) {
		return ErrInvalidWebhook
	}
	return nil
}

type blockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type     string       `json:"type"`
	Text     *blockText   `json:"text,omitempty"`
	Elements []*blockText `json:"elements,omitempty"`
}

type message struct {
	Blocks []block `json:"blocks"`
}

// Send posts the summary and action items to the webhook as a Block Kit
// message. A non-2xx response is a delivery failure; the rest of the run's
// results stay intact either way.
func (n *implNotifier) Send(ctx context.Context, summary string, actionItems []string) error {
	summary = strings.TrimSpace(summary)
	if summary == "" && len(actionItems) == 0 {
		return ErrNothingToSend
	}

	payload, err := json.Marshal(n.buildMessage(summary, actionItems))
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Error(ctx, "Slack webhook returned %d", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	n.logger.Info(ctx, "Slack message sent successfully")
	return nil
}

func (n *implNotifier) buildMessage(summary string, actionItems []string) message {
	now := n.now()

	msg := message{Blocks: []block{
		{
			Type: "header",
			Text: &blockText{Type: "plain_text", Text: "Meeting Summary - " + now.Format("January 2, 2006 at 3:04 PM")},
		},
		{Type: "divider"},
		{
			Type: "section",
			Text: &blockText{Type: "mrkdwn", Text: "*Summary:*\n" + n.truncate(summary)},
		},
	}}

	if formatted := formatActionItems(actionItems); formatted != "" {
		msg.Blocks = append(msg.Blocks, block{
			Type: "section",
			Text: &blockText{Type: "mrkdwn", Text: "*Action Items:*\n" + n.truncate(formatted)},
		})
	}

	msg.Blocks = append(msg.Blocks,
		block{Type: "divider"},
		block{
			Type: "context",
			Elements: []*blockText{{
				Type: "mrkdwn",
				Text: "Generated by Meeting Scribe | " + now.Format("2006-01-02 15:04:05"),
			}},
		},
	)

	return msg
}

// truncate keeps block text under Slack's section limit. The limit counts
// characters, not bytes, so multi-byte text is never split mid-rune.
func (n *implNotifier) truncate(s string) string {
	max := n.cfg.MaxMessageLength
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func formatActionItems(items []string) string {
	var lines []string
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*•"))
		if item != "" {
			lines = append(lines, "• "+item)
		}
	}
	return strings.Join(lines, "\n")
}
