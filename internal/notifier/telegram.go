package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"SignalSentinel/internal/model"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// DefaultAPIBase is the Telegram Bot API root.
const DefaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	proxyURL string
	client   *resty.Client
	limiter  *rate.Limiter
}

// NewTelegramNotifier creates a notifier with optional proxy support.
// Messages are spaced at least minInterval apart; zero disables pacing.
func NewTelegramNotifier(botToken, chatID, apiBase, proxyURL string, minInterval time.Duration) *TelegramNotifier {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  strings.TrimRight(apiBase, "/"),
		proxyURL: proxyURL,
		client:   newClient(30*time.Second, proxyURL),
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Send sends a message to the configured chat. Failures wrap model.ErrNotifyFailure.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", model.ErrNotifyFailure, err)
	}
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"chat_id":    t.ChatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post(t.methodURL("sendMessage"))
	if err != nil {
		return fmt.Errorf("%w: send message: %w", model.ErrNotifyFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: telegram API error: status %d, body: %s", model.ErrNotifyFailure, resp.StatusCode(), resp.String())
	}
	return nil
}

func newClient(timeout time.Duration, proxyURL string) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return client
}

func (t *TelegramNotifier) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
}
