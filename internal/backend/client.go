// Package backend provides the HTTP client for the avatar conversation service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrMalformedReply marks a 2xx response that is missing an expected field.
// Callers treat it as a soft failure, not a transport error.
var ErrMalformedReply = errors.New("malformed reply from conversation service")

// ClientConfig configures the backend client
type ClientConfig struct {
	BaseURL string        // e.g., "http://localhost:5000"
	Timeout time.Duration // HTTP request timeout
	Token   string        // Bearer token; empty only for Register
}

// DefaultClientConfig returns sensible defaults
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://localhost:5000",
		Timeout: 60 * time.Second,
	}
}

// Client talks to the conversation service over JSON/HTTP
type Client struct {
	mu         sync.RWMutex
	config     *ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new backend client
func NewClient(cfg *ClientConfig, logger zerolog.Logger) *Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "backend").Logger(),
	}
}

// SetToken updates the bearer token used on authenticated calls
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Token = token
}

// SetBaseURL updates the service URL (config hot reload)
func (c *Client) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.BaseURL = url
}

// BaseURL returns the current service URL
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Token
}

// ListPersonalities fetches the available personality names
func (c *Client) ListPersonalities(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/api/get-all-personalities", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// CurrentPersonality fetches the user's active personality
func (c *Client) CurrentPersonality(ctx context.Context) (string, error) {
	var resp personalityResponse
	if err := c.get(ctx, "/api/get-current-user-gf-personality", &resp); err != nil {
		return "", err
	}
	if resp.AIPersonality == "" {
		return "", fmt.Errorf("%w: no ai_personality field", ErrMalformedReply)
	}
	return resp.AIPersonality, nil
}

// ListCharacters fetches the available character names
func (c *Client) ListCharacters(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/api/get-all-characters", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// History fetches the stored conversation history
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var resp historyResponse
	if err := c.get(ctx, "/api/get-history", &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// GenerateReply issues one generation request for a user utterance. A 2xx
// reply without the text payload returns ErrMalformedReply; a missing
// audio_id is not an error.
func (c *Client) GenerateReply(ctx context.Context, req GenerateRequest) (*GenerateReply, error) {
	var reply GenerateReply
	if err := c.post(ctx, "/api/generate-lipsync", req, &reply); err != nil {
		return nil, err
	}
	if reply.ChatGptResponse == "" {
		c.logger.Warn().Str("sessionId", req.SessionID).Msg("Reply missing chatGptResponse")
		return nil, fmt.Errorf("%w: no chatGptResponse field", ErrMalformedReply)
	}
	return &reply, nil
}

// FetchAudio downloads the synthesized voice for a reply
func (c *Client) FetchAudio(ctx context.Context, audioID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+"/api/audio/"+audioID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio request failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", ErrMalformedReply)
	}
	return data, nil
}

// AddPersonality stores a custom personality preference and returns the
// server's acknowledgement message
func (c *Client) AddPersonality(ctx context.Context, name, personality string) (string, error) {
	var resp messageResponse
	err := c.post(ctx, "/api/add-personality", addPersonalityRequest{Name: name, Personality: personality}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ChangePersonality switches the active personality
func (c *Client) ChangePersonality(ctx context.Context, personality string) error {
	var resp statusResponse
	err := c.post(ctx, "/api/change-personality", changePersonalityRequest{AIPersonality: personality}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("change personality rejected: %s", resp.Message)
	}
	return nil
}

// ChangeCharacter switches the active character
func (c *Client) ChangeCharacter(ctx context.Context, character string) error {
	var resp statusResponse
	err := c.post(ctx, "/api/change-character", changeCharacterRequest{CharacterName: character}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("change character rejected: %s", resp.Message)
	}
	return nil
}

// ClearHistory asks the service to drop the stored conversation
func (c *Client) ClearHistory(ctx context.Context) error {
	var resp statusResponse
	if err := c.post(ctx, "/api/clear-history", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("clear history rejected: %s", resp.Message)
	}
	return nil
}

// Register creates a new account. This is the only unauthenticated call;
// the service answers with HTTP status only.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(registerRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+"/api/register", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("registration failed: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("body", truncateForLog(string(respBody), 200)).
			Msg("Backend request failed")
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return nil
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
