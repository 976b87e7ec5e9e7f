package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL != "http://localhost:3001/api" {
			t.Errorf("expected base URL http://localhost:3001/api, got %s", config.Server.BaseURL)
		}

		if config.Server.TimeoutSeconds != 15 {
			t.Errorf("expected timeout 15, got %d", config.Server.TimeoutSeconds)
		}

		if config.Database.Path != "reelx.db" {
			t.Errorf("expected database path reelx.db, got %s", config.Database.Path)
		}
	})

	t.Run("ServerTimeout", func(t *testing.T) {
		cfg := ServerConfig{TimeoutSeconds: 30}
		if cfg.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", cfg.Timeout())
		}

		cfg = ServerConfig{}
		if cfg.Timeout() != 15*time.Second {
			t.Errorf("expected default 15s timeout, got %v", cfg.Timeout())
		}
	})

	t.Run("StateDir", func(t *testing.T) {
		cfg := StateConfig{Dir: "/tmp/reelx-test"}
		if cfg.ResolveDir() != "/tmp/reelx-test" {
			t.Errorf("expected explicit dir to win, got %s", cfg.ResolveDir())
		}

		cfg = StateConfig{}
		want := filepath.Join(os.Getenv("HOME"), ".reelx")
		if cfg.ResolveDir() != want {
			t.Errorf("expected default dir %s, got %s", want, cfg.ResolveDir())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
base_url = "https://catalog.example.com/api"
timeout_seconds = 5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[state]
dir = "/custom/state"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.BaseURL != "https://catalog.example.com/api" {
			t.Errorf("expected custom base URL, got %s", config.Server.BaseURL)
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}
		if config.State.Dir != "/custom/state" {
			t.Errorf("expected custom state dir, got %s", config.State.Dir)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
