package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Limits   LimitsConfig   `yaml:"limits"`
	Formats  FormatsConfig  `yaml:"formats"`
	Whisper  WhisperConfig  `yaml:"whisper"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	Messages MessagesConfig `yaml:"messages"`
	Slack    SlackConfig    `yaml:"slack"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LimitsConfig struct {
	MaxFileSizeMB      int `yaml:"max_file_size_mb"`
	MaxTranscriptChars int `yaml:"max_transcript_chars"`
}

// MaxFileSizeBytes returns the upload ceiling in bytes.
func (l LimitsConfig) MaxFileSizeBytes() int64 {
	return int64(l.MaxFileSizeMB) << 20
}

type FormatsConfig struct {
	Video []string `yaml:"video"`
	Audio []string `yaml:"audio"`
	Text  []string `yaml:"text"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type GeminiConfig struct {
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PromptPair holds the two generation templates for one meeting type.
// Each template must contain a single %s placeholder for the transcript.
type PromptPair struct {
	Summary string `yaml:"summary"`
	Actions string `yaml:"actions"`
}

type PromptsConfig struct {
	General       PromptPair `yaml:"general"`
	Standup       PromptPair `yaml:"standup"`
	Planning      PromptPair `yaml:"planning"`
	Retrospective PromptPair `yaml:"retrospective"`
}

// MessagesConfig holds the user-facing strings shown when a run fails.
type MessagesConfig struct {
	FileTooLarge        string `yaml:"file_too_large"`
	UnsupportedFormat   string `yaml:"unsupported_format"`
	EmptyFile           string `yaml:"empty_file"`
	ExtractionFailed    string `yaml:"extraction_failed"`
	TranscriptionFailed string `yaml:"transcription_failed"`
	EmptyTranscript     string `yaml:"empty_transcript"`
	ModelUnavailable    string `yaml:"model_unavailable"`
	ModelTimeout        string `yaml:"model_timeout"`
	MalformedResponse   string `yaml:"malformed_response"`
	GenerationFailed    string `yaml:"generation_failed"`
	DeliveryFailed      string `yaml:"delivery_failed"`
}

type SlackConfig struct {
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	MaxMessageLength int    `yaml:"max_message_length"`
	WebhookPrefix    string `yaml:"webhook_prefix"`
}

type PathsConfig struct {
	Temp   string `yaml:"temp"`
	Inbox  string `yaml:"inbox"`
	Outbox string `yaml:"outbox"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Limits.MaxFileSizeMB == 0 {
		c.Limits.MaxFileSizeMB = 100
	}
	if c.Limits.MaxTranscriptChars == 0 {
		c.Limits.MaxTranscriptChars = 50000
	}

	if len(c.Formats.Video) == 0 {
		c.Formats.Video = []string{".mp4", ".mov", ".avi", ".webm"}
	}
	if len(c.Formats.Audio) == 0 {
		c.Formats.Audio = []string{".wav", ".mp3", ".m4a", ".flac"}
	}
	if len(c.Formats.Text) == 0 {
		c.Formats.Text = []string{".txt"}
	}
	normalizeExtensions(c.Formats.Video)
	normalizeExtensions(c.Formats.Audio)
	normalizeExtensions(c.Formats.Text)

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = 120
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Inbox != "" && c.Paths.Outbox == "" {
		c.Paths.Outbox = "data/outbox"
	}

	if c.Slack.TimeoutSeconds == 0 {
		c.Slack.TimeoutSeconds = 30
	}
	// Below ~100 characters a Slack section cannot hold anything useful.
	if c.Slack.MaxMessageLength < 100 {
		c.Slack.MaxMessageLength = 3000
	}
	if c.Slack.WebhookPrefix == "" {
		c.Slack.WebhookPrefix = "https://hooks.slack.com/"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	c.Prompts.applyDefaults()
	c.Messages.applyDefaults()

	return nil
}

func normalizeExtensions(exts []string) {
	for i, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
}
