package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for diskbot.
type Config struct {
	BotName    string         `toml:"bot_name"`
	LogDir     string         `toml:"log_dir"`
	ScratchDir string         `toml:"scratch_dir"`
	Telegram   TelegramConfig `toml:"telegram"`
	Access     AccessConfig   `toml:"access"`
	Database   DatabaseConfig `toml:"database"`
	Storage    StorageConfig  `toml:"storage"`
}

// TelegramConfig holds the Bot API credentials and endpoint.
type TelegramConfig struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url,omitempty"` // defaults to the public Bot API
}

// AccessConfig holds the shared activation key and the administrator
// identity notified on new registrations.
type AccessConfig struct {
	Key         string `toml:"key"`
	AdminChatID int64  `toml:"admin_chat_id"`
}

// DatabaseConfig represents configuration for the catalog database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite
}

// StorageConfig represents configuration for the remote file storage backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type string `toml:"type"` // "disk", "s3", or "memory"

	// Disk-API-specific fields (only used when Type == "disk")
	DiskBaseURL   string `toml:"disk_base_url,omitempty"`
	DiskRootDir   string `toml:"disk_root_dir,omitempty"`
	DiskAuthToken string `toml:"disk_auth_token,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"` // optional, for MinIO-style deployments
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// NewConfig creates a new Config with defaults rooted at baseDir.
// Credentials and the activation key are left empty and must be filled
// in before the config validates.
func NewConfig(baseDir string) *Config {
	return &Config{
		BotName:    "diskbot",
		LogDir:     filepath.Join(baseDir, "log"),
		ScratchDir: filepath.Join(baseDir, "tmp"),
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: filepath.Join(baseDir, "diskbot.db"),
		},
		Storage: StorageConfig{
			Type:        "disk",
			DiskBaseURL: "https://cloud-api.yandex.net",
		},
	}
}

// Validate checks that every required setting is present.
// The process must fail fast at startup if any is absent.
func (c *Config) Validate() error {
	var missing []string

	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require("bot_name", c.BotName)
	require("log_dir", c.LogDir)
	require("scratch_dir", c.ScratchDir)
	require("telegram.token", c.Telegram.Token)
	require("access.key", c.Access.Key)
	if c.Access.AdminChatID == 0 {
		missing = append(missing, "access.admin_chat_id")
	}

	switch c.Database.Type {
	case "sqlite":
		require("database.path", c.Database.Path)
	case "memory":
	default:
		return fmt.Errorf("unknown database type: %q", c.Database.Type)
	}

	switch c.Storage.Type {
	case "disk":
		require("storage.disk_base_url", c.Storage.DiskBaseURL)
		require("storage.disk_root_dir", c.Storage.DiskRootDir)
		require("storage.disk_auth_token", c.Storage.DiskAuthToken)
	case "s3":
		require("storage.s3_bucket", c.Storage.S3Bucket)
		require("storage.s3_region", c.Storage.S3Region)
		require("storage.s3_access_key", c.Storage.S3AccessKey)
		require("storage.s3_secret_key", c.Storage.S3SecretKey)
	case "memory":
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
