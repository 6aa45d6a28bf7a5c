package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/go-resty/resty/v2"
)

const DefaultTelegramURL = "https://api.telegram.org"

type TelegramConfig struct {
	BotToken string        `yaml:"bot_token" json:"bot_token"`
	ChatID   string        `yaml:"chat_id" json:"chat_id"`
	BaseURL  string        `yaml:"base_url" json:"base_url" default:"https://api.telegram.org"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" default:"10s"`
}

// Configured reports whether both the token and the chat id are set.
func (c TelegramConfig) Configured() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// TelegramNotifier posts messages through the Bot API sendMessage method.
type TelegramNotifier struct {
	client *resty.Client
	token  string
	chatID string
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	if !cfg.Configured() {
		return nil, errors.New(errors.ErrCodeNotifierNotConfigured, "telegram bot token and chat id are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &TelegramNotifier{
		client: client,
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
	}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, message string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": n.chatID,
			"text":    message,
		}).
		Post("/bot" + n.token + "/sendMessage")
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationFailed, "failed to send telegram message", err)
	}

	var body telegramResponse
	_ = json.Unmarshal(resp.Body(), &body)

	if resp.IsError() || !body.OK {
		return errors.Newf(errors.ErrCodeNotificationFailed, "telegram API error %d: %s", resp.StatusCode(), body.Description)
	}

	return nil
}
