package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Update is the inbound webhook envelope from the Telegram Bot API,
// reduced to the fields the dispatcher reads
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// MessageSender delivers outbound messages to a chat. The dispatcher
// depends on this interface so tests substitute a recording fake.
type MessageSender interface {
	// SendMessage sends plain text to a chat.
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendMessageWithLink sends text with a single clickable button
	// opening the given URL.
	SendMessageWithLink(ctx context.Context, chatID int64, text, buttonLabel, url string) error
}

// Client is the Telegram Bot API message sender
type Client struct {
	token   string
	apiBase string
	client  *http.Client
}

// NewClient creates a new Telegram client
func NewClient(token, apiBase string) *Client {
	return &Client{
		token:   token,
		apiBase: strings.TrimSuffix(apiBase, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessagePayload struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// SendMessage sends plain text to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, sendMessagePayload{ChatID: chatID, Text: text})
}

// SendMessageWithLink sends text with an inline keyboard button opening url
func (c *Client) SendMessageWithLink(ctx context.Context, chatID int64, text, buttonLabel, url string) error {
	return c.send(ctx, sendMessagePayload{
		ChatID: chatID,
		Text:   text,
		ReplyMarkup: &replyMarkup{
			InlineKeyboard: [][]inlineButton{{{Text: buttonLabel, URL: url}}},
		},
	})
}

func (c *Client) send(ctx context.Context, payload sendMessagePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendMessage returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
