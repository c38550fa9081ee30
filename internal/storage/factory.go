package storage

import (
	"fmt"

	"diskbot/internal/bot"
	"diskbot/internal/config"
)

// NewStorageFromConfig creates a Storage implementation based on the storage config type.
func NewStorageFromConfig(cfg config.StorageConfig) (bot.Storage, error) {
	switch cfg.Type {
	case "disk":
		if cfg.DiskBaseURL == "" {
			return nil, fmt.Errorf("disk storage requires disk_base_url to be set")
		}
		return NewDiskStorage(cfg.DiskBaseURL, cfg.DiskRootDir, cfg.DiskAuthToken), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires s3_bucket to be set")
		}
		return NewS3Storage(cfg)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
