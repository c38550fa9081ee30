package telegram

import (
	"context"
	"strconv"
	"time"

	"diskbot/internal/bot"
)

// msgInternalError is the generic failure reply sent when an event
// handler returns an error.
const msgInternalError = "Something went wrong, please try again"

// defaultPollTimeout is the getUpdates long-poll duration in seconds.
const defaultPollTimeout = 30

// Handler receives inbound events from the dispatch loop.
type Handler interface {
	HandleMessage(ctx context.Context, msg bot.Message) error
	HandleCallback(ctx context.Context, cb bot.Callback) error
}

// Poller is the dispatch loop: it long-polls for updates and delivers
// one event at a time to the handler. Handler errors are logged and
// answered with a generic failure reply; they never stop the loop.
type Poller struct {
	client  *Client
	handler Handler
	logger  bot.Logger
	timeout int
}

// NewPoller creates a Poller delivering events to handler.
func NewPoller(client *Client, handler Handler, logger bot.Logger) *Poller {
	return &Poller{
		client:  client,
		handler: handler,
		logger:  logger,
		timeout: defaultPollTimeout,
	}
}

// Run polls until the context is canceled.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64

	for {
		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("polling for updates failed", "error", err)
			// Back off briefly so a broken connection doesn't spin.
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			p.dispatch(ctx, u)
		}
	}
}

// dispatch routes one update to the handler. Non-text messages and
// callbacks without data are ignored.
func (p *Poller) dispatch(ctx context.Context, u Update) {
	switch {
	case u.Message != nil && u.Message.Text != "":
		msg := bot.Message{
			ChatID: u.Message.Chat.ID,
			Text:   u.Message.Text,
			Sender: senderFromChat(u.Message.Chat),
		}
		if err := p.handler.HandleMessage(ctx, msg); err != nil {
			p.logger.Error("message handler failed", "chat", msg.ChatID, "error", err)
			p.replyFailure(ctx, msg.ChatID)
		}

	case u.CallbackQuery != nil && u.CallbackQuery.Data != "" && u.CallbackQuery.Message != nil:
		cb := bot.Callback{
			ID:        u.CallbackQuery.ID,
			ChatID:    u.CallbackQuery.Message.Chat.ID,
			MessageID: u.CallbackQuery.Message.MessageID,
			Token:     u.CallbackQuery.Data,
			Sender:    senderFromChat(u.CallbackQuery.Message.Chat),
		}
		if err := p.handler.HandleCallback(ctx, cb); err != nil {
			p.logger.Error("callback handler failed", "chat", cb.ChatID, "error", err)
			p.replyFailure(ctx, cb.ChatID)
		}
	}
}

// replyFailure sends the generic failure reply, best effort.
func (p *Poller) replyFailure(ctx context.Context, chatID int64) {
	if err := p.client.SendMessage(ctx, chatID, msgInternalError); err != nil {
		p.logger.Error("failed to send failure reply", "chat", chatID, "error", err)
	}
}

// senderFromChat builds the sender identity from the chat a message
// arrived in. In private chats the chat ID is the account ID.
func senderFromChat(c Chat) bot.Sender {
	return bot.Sender{
		ID:        strconv.FormatInt(c.ID, 10),
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}
