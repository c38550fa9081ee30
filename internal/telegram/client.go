package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"diskbot/internal/bot"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Client is a thin Bot API client covering the methods the bot needs.
// It implements the bot.Transport interface.
type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Bot API client. baseURL may be empty to use the
// public endpoint; tests point it at a local server.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		// No timeout: getUpdates long-polls and document uploads can
		// be large; per-call deadlines come from the context.
		httpc: &http.Client{},
	}
}

// call POSTs a JSON-encoded method request and decodes the result.
// result may be nil when the caller only needs the ok/error outcome.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeResponse(method, resp.Body, result)
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// decodeResponse unwraps the Bot API envelope.
func decodeResponse(method string, r io.Reader, result any) error {
	var envelope apiResponse
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s failed: %s", method, envelope.Description)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for inbound events. offset acknowledges all
// updates below it; timeout is the long-poll duration in seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	params := struct {
		Offset  int64 `json:"offset"`
		Timeout int   `json:"timeout"`
	}{Offset: offset, Timeout: timeout}

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a plain text reply.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}{ChatID: chatID, Text: text}

	return c.call(ctx, "sendMessage", params, nil)
}

// SendMarkdown sends a MarkdownV2-formatted reply.
func (c *Client) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	params := struct {
		ChatID    int64  `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}{ChatID: chatID, Text: text, ParseMode: "MarkdownV2"}

	return c.call(ctx, "sendMessage", params, nil)
}

// SendChoices sends a prompt with an inline keyboard, one choice per
// row. The (label, token) pairing is the presentation contract with
// the core.
func (c *Client) SendChoices(ctx context.Context, chatID int64, text string, choices []bot.Choice) error {
	keyboard := make([][]InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		keyboard = append(keyboard, []InlineKeyboardButton{
			{Text: choice.Label, CallbackData: choice.Token},
		})
	}

	params := struct {
		ChatID      int64                `json:"chat_id"`
		Text        string               `json:"text"`
		ReplyMarkup InlineKeyboardMarkup `json:"reply_markup"`
	}{ChatID: chatID, Text: text, ReplyMarkup: InlineKeyboardMarkup{InlineKeyboard: keyboard}}

	return c.call(ctx, "sendMessage", params, nil)
}

// SendDocument uploads file content as a document attachment.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, content io.Reader) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("encoding sendDocument request: %w", err)
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("encoding sendDocument request: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("reading document content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encoding sendDocument request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), &body)
	if err != nil {
		return fmt.Errorf("building sendDocument request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling sendDocument: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse("sendDocument", resp.Body, nil)
}

// AnswerCallback acknowledges a selection event so the client stops
// showing a progress indicator.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	params := struct {
		CallbackQueryID string `json:"callback_query_id"`
	}{CallbackQueryID: callbackID}

	return c.call(ctx, "answerCallbackQuery", params, nil)
}

// EditMessageText replaces the text of a previously sent message,
// which also removes its inline keyboard.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int64, text string) error {
	params := struct {
		ChatID    int64  `json:"chat_id"`
		MessageID int64  `json:"message_id"`
		Text      string `json:"text"`
	}{ChatID: chatID, MessageID: messageID, Text: text}

	return c.call(ctx, "editMessageText", params, nil)
}

// Compile-time check that Client implements the bot.Transport interface
var _ bot.Transport = (*Client)(nil)
