package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/analyzer"
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/media"
	"github.com/meetscribe/meetscribe/internal/notifier"
	"github.com/meetscribe/meetscribe/internal/report"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/meetscribe/meetscribe/internal/upload"
)

// Controller orchestrates the pipeline stages for each run and owns the
// in-memory session store. One logical run per session; stages of the same
// run never execute concurrently.
type Controller struct {
	cfg         *config.Config
	validator   *upload.Validator
	extractor   media.Extractor
	transcriber transcriber.Transcriber
	analyzer    analyzer.Analyzer
	reports     report.Builder
	notifier    notifier.Notifier // nil when no webhook is configured
	store       *Store
	logger      logger.Logger
}

// NewController wires the pipeline stages together. notif may be nil, which
// disables delivery but leaves the rest of the pipeline intact.
func NewController(
	cfg *config.Config,
	validator *upload.Validator,
	extractor media.Extractor,
	trans transcriber.Transcriber,
	analyz analyzer.Analyzer,
	reports report.Builder,
	notif notifier.Notifier,
	log logger.Logger,
) *Controller {
	return &Controller{
		cfg:         cfg,
		validator:   validator,
		extractor:   extractor,
		transcriber: trans,
		analyzer:    analyz,
		reports:     reports,
		notifier:    notif,
		store:       NewStore(),
		logger:      log,
	}
}

// Store exposes the session registry for read access.
func (c *Controller) Store() *Store {
	return c.store
}

// NotifierEnabled reports whether a webhook was configured at startup.
func (c *Controller) NotifierEnabled() bool {
	return c.notifier != nil
}

// Start validates the upload and, on success, launches the pipeline in the
// background. Validation failures are returned synchronously and recorded
// on the session; no downstream stage executes for a rejected upload.
func (c *Controller) Start(ctx context.Context, up Upload) (*Session, error) {
	sess := newSession(uuid.NewString(), up.MeetingType)
	c.store.Put(sess)

	sess.setState(StateValidating)
	c.logger.Info(ctx, "[%s] Validating upload: %s (%d bytes)", sess.ID, up.Filename, len(up.Data))

	kind, err := c.validator.Validate(up.Filename, int64(len(up.Data)))
	if err != nil {
		c.failSession(ctx, sess, "validating", err)
		return sess, err
	}

	go c.run(ctx, sess, up, kind)
	return sess, nil
}

// run executes the remaining stages sequentially. Every temporary file is
// removed on each exit path, success or failure.
func (c *Controller) run(ctx context.Context, sess *Session, up Upload, kind upload.Kind) {
	defer func() {
		if rec := recover(); rec != nil {
			c.failSession(ctx, sess, "pipeline", fmt.Errorf("panic: %v", rec))
		}
	}()

	start := time.Now()
	c.logger.Info(ctx, "[%s] Starting %s pipeline for %s", sess.ID, kind, up.Filename)

	transcript, err := c.obtainTranscript(ctx, sess, up, kind)
	if err != nil {
		return // obtainTranscript already failed the session
	}
	sess.setTranscript(transcript)

	sess.setState(StateSummarizing)
	c.logger.Info(ctx, "[%s] Summarizing %d characters (%s)", sess.ID, len(transcript), sess.MeetingType)

	result, err := c.analyzer.Analyze(ctx, transcript, sess.MeetingType)
	if err != nil {
		c.failSession(ctx, sess, "summarizing", err)
		return
	}

	reportBytes, err := c.reports.Build(sess.MeetingType, result, transcript)
	if err != nil {
		c.failSession(ctx, sess, "rendering", err)
		return
	}

	sess.complete(result, reportBytes)
	c.logger.Info(ctx, "[%s] Run completed in %s: %d action items, %d report bytes",
		sess.ID, time.Since(start).Round(time.Millisecond), len(result.ActionItems), len(reportBytes))
}

// obtainTranscript produces the transcript for any upload kind. For text
// uploads the file content is the transcript; for media the audio path runs
// through extraction and speech recognition.
func (c *Controller) obtainTranscript(ctx context.Context, sess *Session, up Upload, kind upload.Kind) (string, error) {
	if kind == upload.KindText {
		transcript := strings.TrimSpace(string(up.Data))
		if transcript == "" {
			err := transcriber.ErrEmptyTranscript
			c.failSession(ctx, sess, "validating", err)
			return "", err
		}
		return c.clip(transcript), nil
	}

	mediaPath, err := c.spool(up)
	if err != nil {
		c.failSession(ctx, sess, "spooling", err)
		return "", err
	}
	defer c.removeTempFile(ctx, mediaPath)

	audioPath := mediaPath
	if kind == upload.KindVideo {
		sess.setState(StateExtracting)
		audioPath, err = c.extractor.ExtractAudio(ctx, mediaPath)
		if err != nil {
			c.failSession(ctx, sess, "extracting", err)
			return "", err
		}
		defer c.removeTempFile(ctx, audioPath)
	}

	sess.setState(StateTranscribing)
	transcript, err := c.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		c.failSession(ctx, sess, "transcribing", err)
		return "", err
	}

	return c.clip(transcript), nil
}

// Notify delivers a ready run's results to the configured webhook. Delivery
// failure leaves the session ready and the report downloadable.
func (c *Controller) Notify(ctx context.Context, id string) error {
	sess, err := c.store.Get(id)
	if err != nil {
		return err
	}
	if c.notifier == nil {
		return ErrNotifierDisabled
	}
	if sess.State() != StateReady {
		return ErrNotReady
	}

	sess.setState(StateNotifying)
	result := sess.Result()

	err = c.notifier.Send(ctx, result.Summary, result.ActionItems)
	sess.finishNotify(err)

	if err != nil {
		c.logger.Error(ctx, "[%s] Delivery failed: %v", sess.ID, err)
		return err
	}

	c.logger.Info(ctx, "[%s] Results delivered to webhook", sess.ID)
	return nil
}

// ProcessFile runs the pipeline for a file dropped into the inbox directory
// and writes the report next to the outbox. Used by the folder watcher.
func (c *Controller) ProcessFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read inbox file: %w", err)
	}

	sess, err := c.Start(ctx, Upload{
		Filename:    filepath.Base(path),
		Data:        data,
		MeetingType: analyzer.TypeGeneral,
	})
	// Inbox runs have no API consumer polling them afterwards.
	defer c.store.Delete(sess.ID)
	if err != nil {
		return err
	}

	if err := sess.Wait(ctx); err != nil {
		return err
	}
	if runErr := sess.Err(); runErr != nil {
		return runErr
	}

	reportBytes, ok := sess.Report()
	if !ok {
		return ErrNotReady
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_summary.docx"
	outPath := filepath.Join(c.cfg.Paths.Outbox, name)
	if err := os.WriteFile(outPath, reportBytes, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	c.logger.Info(ctx, "[%s] Report written: %s", sess.ID, outPath)
	return os.Remove(path)
}

// spool writes the upload bytes to a temp file keeping the extension, since
// ffmpeg and whisper sniff the container from it.
func (c *Controller) spool(up Upload) (string, error) {
	ext := filepath.Ext(up.Filename)
	f, err := os.CreateTemp(c.cfg.Paths.Temp, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(up.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

// clip bounds the transcript to the configured character count, keeping
// whole runes.
func (c *Controller) clip(transcript string) string {
	max := c.cfg.Limits.MaxTranscriptChars
	if max <= 0 {
		return transcript
	}
	runes := []rune(transcript)
	if len(runes) <= max {
		return transcript
	}
	return string(runes[:max])
}

func (c *Controller) failSession(ctx context.Context, sess *Session, stage string, err error) {
	c.logger.Error(ctx, "[%s] Stage %s failed: %v", sess.ID, stage, err)
	sess.fail(err)
}

func (c *Controller) removeTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	} else {
		c.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	}
}
