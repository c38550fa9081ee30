package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"diskbot/internal/model"
)

// searchLimit bounds how many catalog entries one query may return.
const searchLimit = 20

// Settings carries the per-deployment values the service needs on every
// request. Constructed once at startup; no global state.
type Settings struct {
	BotName     string // Used to match commands addressed as /cmd@BotName
	AccessKey   string // Shared activation secret
	AdminChatID int64  // Notified when a new user registers
	ScratchDir  string // Local ephemeral storage for in-flight downloads
}

// Service is the core of the bot: the access gate, catalog search and
// the fetch-and-relay flow. The surrounding dispatch loop delivers one
// inbound event at a time to HandleMessage and HandleCallback.
type Service struct {
	store      Store
	storage    Storage
	transport  Transport
	logger     Logger
	clock      Clock
	httpClient *http.Client
	settings   Settings
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, storage Storage, transport Transport, logger Logger, clock Clock, settings Settings) *Service {
	return &Service{
		store:     store,
		storage:   storage,
		transport: transport,
		logger:    logger,
		clock:     clock,
		// No timeout: a relay runs to completion or failure, and no
		// cancellation path exists beyond the passed context.
		httpClient: &http.Client{},
		settings:   settings,
	}
}

// HandleMessage processes one inbound text message: a recognized
// command is dispatched, everything else is treated as a catalog
// search query.
func (s *Service) HandleMessage(ctx context.Context, msg Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	if cmd, arg, ok := s.parseCommand(text); ok {
		switch cmd {
		case "start":
			return s.handleStart(ctx, msg)
		case "key":
			return s.handleKey(ctx, msg, arg)
		}
	}

	return s.handleSearch(ctx, msg, text)
}

// parseCommand recognizes "/start" and "/key <value>", optionally
// addressed as /cmd@BotName. Anything else (including unknown
// commands) is not a command and falls through to search.
func (s *Service) parseCommand(text string) (cmd, arg string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		if !strings.EqualFold(name[at+1:], s.settings.BotName) {
			// Addressed to some other bot in the chat.
			return "", "", false
		}
		name = name[:at]
	}

	switch strings.ToLower(name) {
	case "start", "key":
		arg = strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
		return strings.ToLower(name), arg, true
	}
	return "", "", false
}

func (s *Service) handleStart(ctx context.Context, msg Message) error {
	// Positive chat IDs are private chats; the command list is not
	// offered in groups.
	if msg.ChatID <= 0 {
		return s.transport.SendMessage(ctx, msg.ChatID, msgGroupChat)
	}
	return s.transport.SendMarkdown(ctx, msg.ChatID, escapeUnderscores(helpText))
}

// handleKey runs the access gate. A user moves from unregistered to
// registered exactly once, on the first redemption with a matching
// key; re-redemption is idempotent and has no side effects.
func (s *Service) handleKey(ctx context.Context, msg Message, key string) error {
	authorized, err := s.store.IsAuthorized(msg.Sender.ID)
	if err != nil {
		return fmt.Errorf("checking authorization: %w", err)
	}
	if authorized {
		return s.transport.SendMessage(ctx, msg.ChatID, msgAccessGranted)
	}

	if key != s.settings.AccessKey {
		return s.transport.SendMessage(ctx, msg.ChatID, msgInvalidKey)
	}

	user := model.User{
		ID:        msg.Sender.ID,
		Username:  msg.Sender.Username,
		FirstName: msg.Sender.FirstName,
		LastName:  msg.Sender.LastName,
	}
	if err := s.store.RegisterUser(user); err != nil {
		return fmt.Errorf("registering user: %w", err)
	}
	s.logger.Info("user registered", "id", user.ID, "username", user.Username)

	notice := fmt.Sprintf("%s%s, %s, %s", msgNewUserPrefix, user.Username, user.FirstName, user.LastName)
	if err := s.transport.SendMessage(ctx, s.settings.AdminChatID, notice); err != nil {
		// Registration already happened; a missed notification must
		// not roll the user back into a half-registered reply.
		s.logger.Error("failed to notify admin", "error", err)
	}

	return s.transport.SendMessage(ctx, msg.ChatID, msgAccessGranted)
}

// handleSearch gates the request, then presents matching catalog
// entries as a choice list. An empty result set still yields a
// (possibly empty) choice list.
func (s *Service) handleSearch(ctx context.Context, msg Message, query string) error {
	authorized, err := s.store.IsAuthorized(msg.Sender.ID)
	if err != nil {
		return fmt.Errorf("checking authorization: %w", err)
	}
	if !authorized {
		return s.transport.SendMessage(ctx, msg.ChatID, msgAccessDenied)
	}

	entries, err := s.store.FindPaths(query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching catalog: %w", err)
	}

	choices := make([]Choice, 0, len(entries))
	for _, e := range entries {
		choices = append(choices, Choice{Label: e.Name, Token: e.Hash})
	}

	s.logger.Debug("catalog searched", "query", query, "matches", len(choices))
	return s.transport.SendChoices(ctx, msg.ChatID, msgSearchResults, choices)
}
