package upload

import (
	"errors"
	"testing"

	"github.com/meetscribe/meetscribe/internal/config"
)

func testValidator(t *testing.T) *Validator {
	t.Helper()
	cfg := &config.Config{
		Whisper: config.WhisperConfig{ModelPath: "m.bin", BinaryPath: "./whisper"},
		Limits:  config.LimitsConfig{MaxFileSizeMB: 10},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return NewValidator(cfg)
}

func TestValidate(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantKind Kind
		wantErr  error
	}{
		{"mp4 video", "meeting.mp4", 1024, KindVideo, nil},
		{"mov video", "meeting.MOV", 1024, KindVideo, nil},
		{"avi video", "meeting.avi", 1024, KindVideo, nil},
		{"wav audio", "call.wav", 1024, KindAudio, nil},
		{"mp3 audio", "call.mp3", 1024, KindAudio, nil},
		{"txt transcript", "notes.txt", 64, KindText, nil},
		{"unsupported pdf", "notes.pdf", 64, "", ErrUnsupportedFormat},
		{"no extension", "notes", 64, "", ErrUnsupportedFormat},
		{"too large", "meeting.mp4", 11 << 20, "", ErrFileTooLarge},
		{"too large unknown type", "notes.pdf", 11 << 20, "", ErrFileTooLarge},
		{"empty", "meeting.mp4", 0, "", ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := v.Validate(tt.filename, tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if kind != tt.wantKind {
				t.Errorf("Validate() kind = %q, want %q", kind, tt.wantKind)
			}
		})
	}
}

func TestValidateAtLimit(t *testing.T) {
	v := testValidator(t)

	if _, err := v.Validate("meeting.mp4", 10<<20); err != nil {
		t.Errorf("file exactly at the limit should pass, got %v", err)
	}
	if _, err := v.Validate("meeting.mp4", 10<<20+1); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("file one byte over the limit should fail, got %v", err)
	}
}
