package app

import (
	"context"
	"fmt"
	"os"

	"diskbot/internal/bot"
	"diskbot/internal/config"
	"diskbot/internal/storage"
	"diskbot/internal/store"
	"diskbot/internal/telegram"
)

// BotApp is the application layer between the CLI and the bot service.
// It constructs all dependencies from config and manages their
// lifecycle on Close.
type BotApp struct {
	cfg     *config.Config
	store   bot.Store
	storage bot.Storage
	client  *telegram.Client
	service *bot.Service
	poller  *telegram.Poller
	logFile *os.File
}

// NewBotApp creates a fully wired BotApp from the given config.
// operation identifies the CLI command being run (e.g. "Serve", "CatalogImport").
// The caller must call Close when done.
func NewBotApp(cfg *config.Config, operation string) (*BotApp, error) {
	// Fail fast: every required setting must be present at startup.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	sb, err := storage.NewStorageFromConfig(cfg.Storage)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating storage backend: %w", err)
	}
	if err := sb.ValidateSetup(); err != nil {
		st.Close()
		return nil, fmt.Errorf("validating storage backend: %w", err)
	}

	if err := os.MkdirAll(cfg.ScratchDir, 0755); err != nil {
		st.Close()
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	logger, logFile, err := newLogger(cfg.LogDir, operation)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	client := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.BaseURL)

	svc := bot.NewService(st, sb, client, &slogAdapter{l: logger}, bot.RealClock{}, bot.Settings{
		BotName:     cfg.BotName,
		AccessKey:   cfg.Access.Key,
		AdminChatID: cfg.Access.AdminChatID,
		ScratchDir:  cfg.ScratchDir,
	})

	poller := telegram.NewPoller(client, svc, &slogAdapter{l: logger})

	return &BotApp{
		cfg:     cfg,
		store:   st,
		storage: sb,
		client:  client,
		service: svc,
		poller:  poller,
		logFile: logFile,
	}, nil
}

// Run starts the dispatch loop and blocks until the context is
// canceled.
func (a *BotApp) Run(ctx context.Context) error {
	return a.poller.Run(ctx)
}

// Store exposes the catalog store for the admin CLI commands.
func (a *BotApp) Store() bot.Store {
	return a.store
}

// Close releases all resources.
func (a *BotApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
