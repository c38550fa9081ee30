package testutil

import (
	"context"
	"io"
	"sync"

	"diskbot/internal/bot"
)

// SentMessage records one SendMessage or SendMarkdown call.
type SentMessage struct {
	ChatID   int64
	Text     string
	Markdown bool
}

// SentChoices records one SendChoices call.
type SentChoices struct {
	ChatID  int64
	Text    string
	Choices []bot.Choice
}

// SentDocument records one SendDocument call with the content drained.
type SentDocument struct {
	ChatID   int64
	Filename string
	Data     []byte
}

// MessageEdit records one EditMessageText call.
type MessageEdit struct {
	ChatID    int64
	MessageID int64
	Text      string
}

// FakeTransport is a recording implementation of the bot.Transport
// interface. Any of the error fields can be set to make the
// corresponding call fail.
type FakeTransport struct {
	mu sync.Mutex

	Messages  []SentMessage
	Choices   []SentChoices
	Documents []SentDocument
	Answered  []string
	Edits     []MessageEdit

	SendMessageErr  error
	SendDocumentErr error
}

// NewFakeTransport creates an empty recording transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

func (f *FakeTransport) SendMessage(_ context.Context, chatID int64, text string) error {
	if f.SendMessageErr != nil {
		return f.SendMessageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *FakeTransport) SendMarkdown(_ context.Context, chatID int64, text string) error {
	if f.SendMessageErr != nil {
		return f.SendMessageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, SentMessage{ChatID: chatID, Text: text, Markdown: true})
	return nil
}

func (f *FakeTransport) SendChoices(_ context.Context, chatID int64, text string, choices []bot.Choice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Choices = append(f.Choices, SentChoices{ChatID: chatID, Text: text, Choices: choices})
	return nil
}

func (f *FakeTransport) SendDocument(_ context.Context, chatID int64, filename string, content io.Reader) error {
	if f.SendDocumentErr != nil {
		return f.SendDocumentErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Documents = append(f.Documents, SentDocument{ChatID: chatID, Filename: filename, Data: data})
	return nil
}

func (f *FakeTransport) AnswerCallback(_ context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answered = append(f.Answered, callbackID)
	return nil
}

func (f *FakeTransport) EditMessageText(_ context.Context, chatID int64, messageID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, MessageEdit{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

// LastMessage returns the most recent recorded message, or nil.
func (f *FakeTransport) LastMessage() *SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Messages) == 0 {
		return nil
	}
	return &f.Messages[len(f.Messages)-1]
}

// MessagesTo returns all recorded messages sent to chatID.
func (f *FakeTransport) MessagesTo(chatID int64) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.Messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// Compile-time check that FakeTransport implements the bot.Transport interface
var _ bot.Transport = (*FakeTransport)(nil)
