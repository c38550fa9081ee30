package bot

import (
	"context"
	"io"
)

// Choice is one selectable item presented to the chat: a display label
// paired with the opaque token returned on selection.
type Choice struct {
	Label string
	Token string
}

// Transport provides an interface for the outbound chat side.
// Message parsing, keyboard rendering and message editing live behind
// this interface; the core only decides what to send.
type Transport interface {
	// SendMessage sends a plain text reply to a chat.
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendMarkdown sends a MarkdownV2-formatted reply to a chat.
	SendMarkdown(ctx context.Context, chatID int64, text string) error

	// SendChoices sends a prompt with an inline choice list, one
	// choice per row.
	SendChoices(ctx context.Context, chatID int64, text string, choices []Choice) error

	// SendDocument sends file content to a chat as a document
	// attachment with the given filename.
	SendDocument(ctx context.Context, chatID int64, filename string, content io.Reader) error

	// AnswerCallback acknowledges a selection event.
	AnswerCallback(ctx context.Context, callbackID string) error

	// EditMessageText replaces the text of a previously sent message.
	EditMessageText(ctx context.Context, chatID int64, messageID int64, text string) error
}

// Sender identifies the account behind an inbound event.
type Sender struct {
	ID        string // Chat/account identifier, used as the allow-list key
	Username  string
	FirstName string
	LastName  string
}

// Message is one inbound text message.
type Message struct {
	ChatID int64
	Text   string
	Sender Sender
}

// Callback is one inbound selection event carrying a previously issued
// catalog token.
type Callback struct {
	ID        string // Callback identifier, acknowledged back to the transport
	ChatID    int64
	MessageID int64 // Message carrying the choice list, edited on completion
	Token     string
	Sender    Sender
}
