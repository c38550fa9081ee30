package storage

import (
	"context"
	"sync"

	"diskbot/internal/bot"
)

// MemoryStorage is an in-memory implementation of the Storage
// interface, mapping entry paths to fixed URLs. Useful for testing.
// This implementation is safe for concurrent use.
type MemoryStorage struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		urls: make(map[string]string),
	}
}

// Put registers a download URL for an entry path.
func (m *MemoryStorage) Put(entryPath, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls[entryPath] = url
}

// DownloadURL returns the registered URL for entryPath, or an empty
// URL if none was registered (mirroring the disk backend's degraded
// behavior).
func (m *MemoryStorage) DownloadURL(_ context.Context, entryPath string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.urls[entryPath], nil
}

// ValidateSetup always succeeds for in-memory storage.
func (m *MemoryStorage) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryStorage implements the bot.Storage interface
var _ bot.Storage = (*MemoryStorage)(nil)
