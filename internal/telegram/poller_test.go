package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"diskbot/internal/bot"
)

// recordingHandler records delivered events and optionally fails.
type recordingHandler struct {
	messages  []bot.Message
	callbacks []bot.Callback
	err       error
}

func (h *recordingHandler) HandleMessage(_ context.Context, msg bot.Message) error {
	h.messages = append(h.messages, msg)
	return h.err
}

func (h *recordingHandler) HandleCallback(_ context.Context, cb bot.Callback) error {
	h.callbacks = append(h.callbacks, cb)
	return h.err
}

func newTestPoller(t *testing.T, h Handler) (*Poller, *apiRecorder) {
	t.Helper()
	client, rec := newTestClient(t)
	return NewPoller(client, h, bot.NewNopLogger()), rec
}

func TestPoller_DispatchMessage(t *testing.T) {
	h := &recordingHandler{}
	p, _ := newTestPoller(t, h)

	p.dispatch(context.Background(), Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 10,
			Chat:      Chat{ID: 7, Username: "alice", FirstName: "Alice", LastName: "Anders"},
			Text:      "Invoice",
		},
	})

	if len(h.messages) != 1 {
		t.Fatalf("messages delivered = %d, want 1", len(h.messages))
	}
	got := h.messages[0]
	want := bot.Message{
		ChatID: 7,
		Text:   "Invoice",
		Sender: bot.Sender{ID: "7", Username: "alice", FirstName: "Alice", LastName: "Anders"},
	}
	if got != want {
		t.Errorf("message = %+v, want %+v", got, want)
	}
}

func TestPoller_DispatchCallback(t *testing.T) {
	h := &recordingHandler{}
	p, _ := newTestPoller(t, h)

	p.dispatch(context.Background(), Update{
		UpdateID: 2,
		CallbackQuery: &CallbackQuery{
			ID:   "cb-1",
			Data: "h-2023",
			Message: &Message{
				MessageID: 42,
				Chat:      Chat{ID: 7, Username: "alice"},
			},
		},
	})

	if len(h.callbacks) != 1 {
		t.Fatalf("callbacks delivered = %d, want 1", len(h.callbacks))
	}
	cb := h.callbacks[0]
	if cb.ID != "cb-1" || cb.ChatID != 7 || cb.MessageID != 42 || cb.Token != "h-2023" {
		t.Errorf("callback = %+v", cb)
	}
	if cb.Sender.ID != "7" {
		t.Errorf("sender ID = %q, want 7", cb.Sender.ID)
	}
}

func TestPoller_IgnoresNonEvents(t *testing.T) {
	h := &recordingHandler{}
	p, _ := newTestPoller(t, h)

	// An empty update, a non-text message, a callback without a source
	// message and a callback without data are all dropped.
	for _, u := range []Update{
		{UpdateID: 1},
		{UpdateID: 2, Message: &Message{Chat: Chat{ID: 7}}},
		{UpdateID: 3, CallbackQuery: &CallbackQuery{ID: "cb", Data: "h"}},
		{UpdateID: 4, CallbackQuery: &CallbackQuery{ID: "cb", Message: &Message{}}},
	} {
		p.dispatch(context.Background(), u)
	}

	if len(h.messages) != 0 || len(h.callbacks) != 0 {
		t.Errorf("delivered %d messages and %d callbacks, want none",
			len(h.messages), len(h.callbacks))
	}
}

func TestPoller_HandlerFailureGetsGenericReply(t *testing.T) {
	h := &recordingHandler{err: errors.New("boom")}
	p, rec := newTestPoller(t, h)

	p.dispatch(context.Background(), Update{
		UpdateID: 1,
		Message:  &Message{Chat: Chat{ID: 7}, Text: "Invoice"},
	})

	if len(rec.calls) != 1 || rec.last().method != "sendMessage" {
		t.Fatalf("calls = %+v, want one sendMessage", rec.calls)
	}
	var params struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}
	if err := json.Unmarshal(rec.last().body, &params); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
	if params.ChatID != 7 || params.Text != msgInternalError {
		t.Errorf("failure reply = %+v, want %q to chat 7", params, msgInternalError)
	}
}
