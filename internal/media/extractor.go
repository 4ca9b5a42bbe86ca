package media

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

// ErrExtractionFailed means ffmpeg could not decode the container or it has
// no usable audio track.
var ErrExtractionFailed = errors.New("audio extraction failed")

type implExtractor struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Extractor backed by ffmpeg.
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// ExtractAudio extracts audio from a video file and converts it to 16kHz
// mono WAV, the format Whisper works best with.
func (e *implExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_audio.wav"

	e.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: drop video
	// -ar: sample rate (16kHz, optimal for Whisper)
	// -ac 1: mono
	// -c:a pcm_s16le: uncompressed 16-bit PCM
	// -y: overwrite output file if exists
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(e.cfg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := e.executor.Execute(ctx, e.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	// A corrupt container can make ffmpeg exit zero with an empty output.
	info, err := os.Stat(audioPath)
	if err != nil || info.Size() == 0 {
		os.Remove(audioPath)
		return "", fmt.Errorf("%w: no audio track in %s", ErrExtractionFailed, filepath.Base(videoPath))
	}

	e.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
