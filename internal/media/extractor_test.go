package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
)

type fakeExecutor struct {
	err   error
	calls [][]string
	// onRun lets a test simulate the side effect of the real command.
	onRun func(name string, args []string)
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onRun != nil {
		f.onRun(name, args)
	}
	return "", f.err
}

func ffmpegCfg() config.FFmpegConfig {
	return config.FFmpegConfig{BinaryPath: "ffmpeg", SampleRate: 16000}
}

func TestExtractAudio(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "standup.mp4")

	exec := &fakeExecutor{
		onRun: func(name string, args []string) {
			// The output path is the final ffmpeg argument.
			out := args[len(args)-1]
			if err := os.WriteFile(out, []byte("RIFFdata"), 0644); err != nil {
				t.Fatal(err)
			}
		},
	}

	ext := New(ffmpegCfg(), exec, logger.New("error"))
	audioPath, err := ext.ExtractAudio(context.Background(), videoPath)
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	defer os.Remove(audioPath)

	if !strings.HasSuffix(audioPath, "_audio.wav") {
		t.Errorf("audio path = %q, want *_audio.wav", audioPath)
	}

	call := exec.calls[0]
	if call[0] != "ffmpeg" {
		t.Errorf("binary = %q, want ffmpeg", call[0])
	}
	joined := strings.Join(call, " ")
	if !strings.Contains(joined, "-ar 16000") || !strings.Contains(joined, "-ac 1") {
		t.Errorf("ffmpeg args missing sample rate or mono flags: %s", joined)
	}
}

func TestExtractAudioCommandFails(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("corrupt container")}
	ext := New(ffmpegCfg(), exec, logger.New("error"))

	_, err := ext.ExtractAudio(context.Background(), filepath.Join(t.TempDir(), "bad.mp4"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("error = %v, want ErrExtractionFailed", err)
	}
}

func TestExtractAudioEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		onRun: func(name string, args []string) {
			out := args[len(args)-1]
			if err := os.WriteFile(out, nil, 0644); err != nil {
				t.Fatal(err)
			}
		},
	}

	ext := New(ffmpegCfg(), exec, logger.New("error"))
	_, err := ext.ExtractAudio(context.Background(), filepath.Join(dir, "silent.mp4"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("error = %v, want ErrExtractionFailed", err)
	}
}
