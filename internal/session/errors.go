package session

import (
	"errors"
	"fmt"

	"github.com/meetscribe/meetscribe/internal/analyzer"
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/media"
	"github.com/meetscribe/meetscribe/internal/notifier"
	"github.com/meetscribe/meetscribe/internal/report"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/meetscribe/meetscribe/internal/upload"
)

var (
	// ErrNotReady means the operation needs a completed run.
	ErrNotReady = errors.New("session is not ready")
	// ErrNotifierDisabled means no webhook was configured at startup.
	ErrNotifierDisabled = errors.New("notifications are not configured")
)

// ErrorKind maps a pipeline error to its machine-readable kind for API
// payloads and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, upload.ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, upload.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, upload.ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, media.ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, transcriber.ErrEmptyTranscript):
		return "empty_transcript"
	case errors.Is(err, transcriber.ErrTranscriptionFailed):
		return "transcription_failed"
	case errors.Is(err, analyzer.ErrModelTimeout):
		return "model_timeout"
	case errors.Is(err, analyzer.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, analyzer.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, report.ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, notifier.ErrDeliveryFailed), errors.Is(err, notifier.ErrInvalidWebhook):
		return "delivery_failed"
	default:
		return "internal_error"
	}
}

// UserMessage maps a pipeline error to the configured human-readable string.
func UserMessage(err error, cfg *config.Config) string {
	m := cfg.Messages
	switch {
	case err == nil:
		return ""
	case errors.Is(err, upload.ErrFileTooLarge):
		return fmt.Sprintf(m.FileTooLarge, cfg.Limits.MaxFileSizeMB)
	case errors.Is(err, upload.ErrUnsupportedFormat):
		return m.UnsupportedFormat
	case errors.Is(err, upload.ErrEmptyFile):
		return m.EmptyFile
	case errors.Is(err, media.ErrExtractionFailed):
		return m.ExtractionFailed
	case errors.Is(err, transcriber.ErrEmptyTranscript):
		return m.EmptyTranscript
	case errors.Is(err, transcriber.ErrTranscriptionFailed):
		return m.TranscriptionFailed
	case errors.Is(err, analyzer.ErrModelTimeout):
		return m.ModelTimeout
	case errors.Is(err, analyzer.ErrModelUnavailable):
		return m.ModelUnavailable
	case errors.Is(err, analyzer.ErrMalformedResponse):
		return m.MalformedResponse
	case errors.Is(err, report.ErrGenerationFailed):
		return m.GenerationFailed
	case errors.Is(err, notifier.ErrDeliveryFailed), errors.Is(err, notifier.ErrInvalidWebhook):
		return m.DeliveryFailed
	default:
		return "Processing failed. Please try again with a new upload."
	}
}
