package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/pkg/executor"
)

var (
	// ErrTranscriptionFailed means the speech recognition run itself failed.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrEmptyTranscript means the model produced no discernible speech.
	// This is a user-facing validation failure, not a crash.
	ErrEmptyTranscript = errors.New("empty transcript")
)

type implTranscriber struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Transcriber backed by a whisper.cpp binary.
func New(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// Transcribe runs Whisper against the audio file and returns the trimmed
// transcript text. This is the slowest stage of the pipeline; the caller is
// expected to run it off the request path.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Threads, audioPath)

	// -m: model path
	// -f: input audio file
	// -otxt: plain text output
	// -l: force language (prevents hallucination)
	// -t: number of threads
	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-l", t.cfg.Language,
		"-t", strconv.Itoa(t.cfg.Threads),
		"--output-file", outputPrefix,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	txtPath := outputPrefix + ".txt"
	defer os.Remove(txtPath)

	raw, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("%w: read output: %v", ErrTranscriptionFailed, err)
	}

	transcript := strings.TrimSpace(string(raw))
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	t.logger.Info(ctx, "Transcription completed: %d characters", len(transcript))
	return transcript, nil
}
