package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		BotName:    "testbot",
		LogDir:     "/var/lib/diskbot/log",
		ScratchDir: "/var/lib/diskbot/tmp",
		Telegram:   TelegramConfig{Token: "123:abc"},
		Access:     AccessConfig{Key: "SECRET", AdminChatID: 42},
		Database:   DatabaseConfig{Type: "sqlite", Path: "/var/lib/diskbot/diskbot.db"},
		Storage: StorageConfig{
			Type:          "disk",
			DiskBaseURL:   "https://cloud-api.yandex.net",
			DiskRootDir:   "/reports",
			DiskAuthToken: "OAuth token",
		},
	}
}

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := validConfig()

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BotName != original.BotName {
		t.Errorf("BotName = %q, want %q", got.BotName, original.BotName)
	}
	if got.Telegram.Token != original.Telegram.Token {
		t.Errorf("Telegram.Token = %q, want %q", got.Telegram.Token, original.Telegram.Token)
	}
	if got.Access.Key != original.Access.Key {
		t.Errorf("Access.Key = %q, want %q", got.Access.Key, original.Access.Key)
	}
	if got.Access.AdminChatID != original.Access.AdminChatID {
		t.Errorf("Access.AdminChatID = %d, want %d", got.Access.AdminChatID, original.Access.AdminChatID)
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if got.Storage.Type != "disk" {
		t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "disk")
	}
	if got.Storage.DiskRootDir != original.Storage.DiskRootDir {
		t.Errorf("Storage.DiskRootDir = %q, want %q", got.Storage.DiskRootDir, original.Storage.DiskRootDir)
	}
	if got.ScratchDir != original.ScratchDir {
		t.Errorf("ScratchDir = %q, want %q", got.ScratchDir, original.ScratchDir)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("missing token is reported by name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telegram.Token = ""
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Validate() = nil, want error")
		}
		if !strings.Contains(err.Error(), "telegram.token") {
			t.Errorf("error %q does not name telegram.token", err)
		}
	})

	t.Run("missing activation key is reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.Access.Key = ""
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "access.key") {
			t.Errorf("Validate() = %v, want error naming access.key", err)
		}
	})

	t.Run("zero admin chat id is reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.Access.AdminChatID = 0
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "access.admin_chat_id") {
			t.Errorf("Validate() = %v, want error naming access.admin_chat_id", err)
		}
	})

	t.Run("unknown storage type fails", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Type = "ftp"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error for unknown storage type")
		}
	})

	t.Run("s3 storage requires credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage = StorageConfig{Type: "s3", S3Bucket: "files", S3Region: "us-east-1"}
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "s3_access_key") {
			t.Errorf("Validate() = %v, want error naming s3_access_key", err)
		}
	})

	t.Run("memory backends need no extra fields", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database = DatabaseConfig{Type: "memory"}
		cfg.Storage = StorageConfig{Type: "memory"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "diskbot.toml")

		cfg := NewConfig(dir)
		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "sqlite" {
			t.Errorf("Database.Type = %q, want sqlite", got.Database.Type)
		}
		if got.Storage.DiskBaseURL == "" {
			t.Error("Storage.DiskBaseURL is empty, want default")
		}
	})

	t.Run("refuses to overwrite existing config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "diskbot.toml")
		if err := os.WriteFile(path, []byte("bot_name = \"x\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := Init(path, NewConfig(dir)); err == nil {
			t.Error("Init() = nil, want error for existing file")
		}
	})
}
