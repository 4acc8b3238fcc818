package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected base URL %s", cfg.Backend.BaseURL)
	}
	if cfg.Avatar.DefaultCharacter != "Coffee Woman" {
		t.Errorf("unexpected default character %s", cfg.Avatar.DefaultCharacter)
	}
	if _, ok := cfg.Avatar.Characters[cfg.Avatar.DefaultCharacter]; !ok {
		t.Error("default character must be in the character set")
	}
	if !cfg.Speech.Enabled {
		t.Error("speech capture should be enabled by default")
	}
	if cfg.Speech.Model != "whisper-1" {
		t.Errorf("unexpected speech model %s", cfg.Speech.Model)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("unexpected theme %s", cfg.UI.Theme)
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg := DefaultConfig()
	configDir := filepath.Join(t.TempDir(), ".avatarchat")

	applyFallbacks(cfg, configDir)

	if cfg.Backend.TokenPath != filepath.Join(configDir, "token") {
		t.Errorf("token path fallback wrong: %s", cfg.Backend.TokenPath)
	}
	if cfg.Speech.APIKey != "sk-env" {
		t.Errorf("speech key should come from the environment, got %q", cfg.Speech.APIKey)
	}
	if cfg.Log.Dir != filepath.Join(configDir, "logs") {
		t.Errorf("log dir fallback wrong: %s", cfg.Log.Dir)
	}
}

func TestApplyFallbacksKeepsExplicitValues(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg := DefaultConfig()
	cfg.Backend.TokenPath = "/explicit/token"
	cfg.Speech.APIKey = "sk-explicit"

	applyFallbacks(cfg, "/ignored")

	if cfg.Backend.TokenPath != "/explicit/token" {
		t.Error("explicit token path was overwritten")
	}
	if cfg.Speech.APIKey != "sk-explicit" {
		t.Error("explicit API key was overwritten")
	}
}

func TestReadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("abc.def.ghi\n"), 0600); err != nil {
		t.Fatal(err)
	}

	token, err := ReadToken(path)
	if err != nil {
		t.Fatalf("ReadToken failed: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("token not trimmed: %q", token)
	}
}

func TestReadTokenMissingFile(t *testing.T) {
	if _, err := ReadToken(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("missing token file should error")
	}
}
