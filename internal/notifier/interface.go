package notifier

import "context"

// Notifier delivers a run's summary and action items to a chat channel.
// Delivery failures are reported to the caller but never abort a run.
type Notifier interface {
	Send(ctx context.Context, summary string, actionItems []string) error
}
