package upload

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/meetscribe/meetscribe/internal/config"
)

// Kind classifies an upload by the processing it needs.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindText  Kind = "text"
)

var (
	// ErrFileTooLarge means the upload exceeds the configured size ceiling.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedFormat means the extension is outside the configured sets.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEmptyFile means the upload has no content.
	ErrEmptyFile = errors.New("empty file")
)

// Validator checks uploads against the configured limits and format sets.
// It only inspects metadata; file content is never read here.
type Validator struct {
	limits  config.LimitsConfig
	formats config.FormatsConfig
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{
		limits:  cfg.Limits,
		formats: cfg.Formats,
	}
}

// Validate classifies the upload and returns a typed failure when it is
// rejected. Size is checked before format so an oversized file of an
// unknown type still reports the size problem.
func (v *Validator) Validate(filename string, size int64) (Kind, error) {
	if size <= 0 {
		return "", ErrEmptyFile
	}
	if size > v.limits.MaxFileSizeBytes() {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case contains(v.formats.Video, ext):
		return KindVideo, nil
	case contains(v.formats.Audio, ext):
		return KindAudio, nil
	case contains(v.formats.Text, ext):
		return KindText, nil
	}

	return "", ErrUnsupportedFormat
}

func contains(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
