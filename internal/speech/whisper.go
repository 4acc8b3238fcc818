package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// WhisperConfig holds Whisper API configuration
type WhisperConfig struct {
	APIKey   string        `json:"api_key"`
	BaseURL  string        `json:"base_url"` // Override for tests
	Model    string        `json:"model"`    // "whisper-1"
	Language string        `json:"language"` // Optional language hint
	Timeout  time.Duration `json:"timeout"`
}

// DefaultWhisperConfig returns sensible defaults
func DefaultWhisperConfig() *WhisperConfig {
	return &WhisperConfig{
		BaseURL: "https://api.openai.com/v1",
		Model:   "whisper-1",
		Timeout: 30 * time.Second,
	}
}

// WhisperTranscriber converts one recorded utterance to text via the
// OpenAI Whisper API.
type WhisperTranscriber struct {
	apiKey string
	client *http.Client
	logger zerolog.Logger
	config *WhisperConfig
}

// NewWhisperTranscriber creates a Whisper API transcriber
func NewWhisperTranscriber(config *WhisperConfig, logger zerolog.Logger) *WhisperTranscriber {
	if config == nil {
		config = DefaultWhisperConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Model == "" {
		config.Model = "whisper-1"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return &WhisperTranscriber{
		apiKey: apiKey,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With().Str("component", "whisper").Logger(),
		config: config,
	}
}

// Name returns the transcriber identifier
func (t *WhisperTranscriber) Name() string {
	return "whisper-api"
}

// Available reports whether the transcriber can be used
func (t *WhisperTranscriber) Available() bool {
	return t.apiKey != ""
}

// Transcribe sends a recorded WAV utterance for transcription and returns
// the final transcript text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("whisper API key not configured")
	}
	if len(wav) == 0 {
		return "", fmt.Errorf("empty recording")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", t.config.Model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if t.config.Language != "" {
		if err := writer.WriteField("language", t.config.Language); err != nil {
			return "", fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Whisper API error")
		return "", fmt.Errorf("transcription failed: status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse transcription: %w", err)
	}
	return result.Text, nil
}
