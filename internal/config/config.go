// Package config provides configuration management for avatarchat
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Avatar   AvatarConfig   `mapstructure:"avatar"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// BackendConfig configures the conversation service client
type BackendConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	TokenPath string        `mapstructure:"token_path"`
}

// SpeechConfig configures one-shot speech capture
type SpeechConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	APIKey        string        `mapstructure:"api_key"` // Whisper API key; falls back to OPENAI_API_KEY
	Model         string        `mapstructure:"model"`
	Language      string        `mapstructure:"language"`
	MaxRecordTime time.Duration `mapstructure:"max_record_time"`
	RecordCommand string        `mapstructure:"record_command"` // Override the probed recorder binary
}

// PlaybackConfig configures voice playback
type PlaybackConfig struct {
	PlayerCommand string        `mapstructure:"player_command"` // Override the probed player binary
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
}

// CharacterConfig binds a character to its video loop resources
type CharacterConfig struct {
	Idle     string `mapstructure:"idle"`
	Speaking string `mapstructure:"speaking"`
}

// AvatarConfig configures the avatar presentation
type AvatarConfig struct {
	DefaultCharacter string                     `mapstructure:"default_character"`
	Characters       map[string]CharacterConfig `mapstructure:"characters"`
	VideoBaseURL     string                     `mapstructure:"video_base_url"` // Base for characters the server lists but the file doesn't
}

// UIConfig configures the terminal UI
type UIConfig struct {
	Theme string `mapstructure:"theme"` // dark, light, or auto
}

// LogConfig configures logging output
type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// Built-in video loop resources for the default character.
const (
	DefaultIdleVideo     = "https://cdn.glitch.global/d02f8f67-1720-48fe-907d-c70042503ba5/coffee_woman_ai_resting.mp4?v=1713548715874"
	DefaultSpeakingVideo = "https://cdn.glitch.global/d02f8f67-1720-48fe-907d-c70042503ba5/coffee_woman_ai.mp4?v=1713548711063"
)

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://localhost:5000",
			Timeout:   60 * time.Second,
			TokenPath: "", // resolved to ~/.avatarchat/token at load time
		},
		Speech: SpeechConfig{
			Enabled:       true,
			Model:         "whisper-1",
			Language:      "en",
			MaxRecordTime: 8 * time.Second,
		},
		Playback: PlaybackConfig{
			FetchTimeout: 30 * time.Second,
		},
		Avatar: AvatarConfig{
			DefaultCharacter: "Coffee Woman",
			Characters: map[string]CharacterConfig{
				"Coffee Woman": {Idle: DefaultIdleVideo, Speaking: DefaultSpeakingVideo},
				"Office Man":   {Idle: DefaultIdleVideo, Speaking: "https://example.com/office_man.mp4"},
				"Student":      {Idle: DefaultIdleVideo, Speaking: "https://example.com/student.mp4"},
			},
			VideoBaseURL: "https://example.com",
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	configDir := filepath.Join(homeDir, ".avatarchat")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("AVATARCHAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	applyFallbacks(cfg, configDir)
	return cfg, nil
}

// applyFallbacks fills values that depend on the environment
func applyFallbacks(cfg *Config, configDir string) {
	if cfg.Backend.TokenPath == "" {
		cfg.Backend.TokenPath = filepath.Join(configDir, "token")
	}
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(configDir, "logs")
	}
}

// Watch re-reads the config file on change and invokes onChange with the
// fresh configuration. Reload never interrupts an in-flight turn; consumers
// apply the new values on their next operation.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(_ fsnotify.Event) {
		cfg := DefaultConfig()
		if err := viper.Unmarshal(cfg); err != nil {
			return
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			applyFallbacks(cfg, filepath.Join(homeDir, ".avatarchat"))
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// Save writes the configuration to file
func Save(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".avatarchat")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("backend", cfg.Backend)
	viper.Set("speech", cfg.Speech)
	viper.Set("playback", cfg.Playback)
	viper.Set("avatar", cfg.Avatar)
	viper.Set("ui", cfg.UI)
	viper.Set("log", cfg.Log)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".avatarchat"), nil
}

// ReadToken loads the stored bearer token, trimming trailing whitespace.
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	token := string(data)
	for len(token) > 0 && (token[len(token)-1] == '\n' || token[len(token)-1] == '\r' || token[len(token)-1] == ' ') {
		token = token[:len(token)-1]
	}
	return token, nil
}
