package transcriber

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
	err    error
	output string // written to the whisper output file
	args   []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.args = append([]string{name}, args...)
	if f.err != nil {
		return "", f.err
	}
	// Whisper writes <prefix>.txt; the prefix follows --output-file.
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1]+".txt", []byte(f.output), 0644); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

func whisperCfg() config.WhisperConfig {
	return config.WhisperConfig{
		ModelPath:  "models/ggml-tiny.bin",
		BinaryPath: "./whisper",
		Language:   "en",
		Threads:    4,
	}
}

func TestTranscribe(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "meeting_audio.wav")
	exec := &fakeExecutor{output: "  Alice: finished API. Bob: blocked on DB access.\n"}

	tr := New(whisperCfg(), exec, logger.New("error"))
	got, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	want := "Alice: finished API. Bob: blocked on DB access."
	if got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}

	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "-m models/ggml-tiny.bin") || !strings.Contains(joined, "-otxt") {
		t.Errorf("whisper args missing model or output flags: %s", joined)
	}
	if _, err := os.Stat(strings.TrimSuffix(audioPath, ".wav") + ".txt"); !os.IsNotExist(err) {
		t.Error("whisper output file should be removed after reading")
	}
}

func TestTranscribeCommandFails(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("unsupported audio")}
	tr := New(whisperCfg(), exec, logger.New("error"))

	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, ErrTranscriptionFailed) {
		t.Errorf("error = %v, want ErrTranscriptionFailed", err)
	}
}

func TestTranscribeNoSpeech(t *testing.T) {
	exec := &fakeExecutor{output: "   \n\t  \n"}
	tr := New(whisperCfg(), exec, logger.New("error"))

	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "silence.wav"))
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("error = %v, want ErrEmptyTranscript", err)
	}
}
