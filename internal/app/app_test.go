package app

import (
	"os"
	"path/filepath"
	"testing"

	"diskbot/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	return &config.Config{
		BotName:    "testbot",
		LogDir:     filepath.Join(base, "log"),
		ScratchDir: filepath.Join(base, "tmp"),
		Telegram:   config.TelegramConfig{Token: "TESTTOKEN"},
		Access:     config.AccessConfig{Key: "SECRET", AdminChatID: 99},
		Database:   config.DatabaseConfig{Type: "memory"},
		Storage:    config.StorageConfig{Type: "memory"},
	}
}

func TestNewBotApp(t *testing.T) {
	t.Run("wires all components from config", func(t *testing.T) {
		app, err := NewBotApp(testConfig(t), "Test")
		if err != nil {
			t.Fatalf("NewBotApp() error = %v", err)
		}
		defer app.Close()

		if app.Store() == nil {
			t.Error("Store() = nil")
		}
		if app.service == nil || app.poller == nil {
			t.Error("service or poller not wired")
		}
	})

	t.Run("creates the scratch directory", func(t *testing.T) {
		cfg := testConfig(t)
		app, err := NewBotApp(cfg, "Test")
		if err != nil {
			t.Fatalf("NewBotApp() error = %v", err)
		}
		defer app.Close()

		info, err := os.Stat(cfg.ScratchDir)
		if err != nil {
			t.Fatalf("scratch dir missing: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", cfg.ScratchDir)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Telegram.Token = ""

		if _, err := NewBotApp(cfg, "Test"); err == nil {
			t.Error("NewBotApp() = nil error, want validation failure")
		}
	})
}
