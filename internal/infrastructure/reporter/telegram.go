package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/utils"
)

// TelegramReporter posts event summaries to the admin chat via the Bot API.
type TelegramReporter struct {
	config     sharedConfig.TelegramConfig
	httpClient *http.Client
	baseURL    string
}

func NewTelegramReporter(config sharedConfig.TelegramConfig) *TelegramReporter {
	return &TelegramReporter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", config.BotToken),
	}
}

func (r *TelegramReporter) Enabled() bool {
	return r.config.BotToken != "" && r.config.AdminChatID != 0
}

func (r *TelegramReporter) Report(ctx context.Context, event Event) error {
	if !r.Enabled() {
		return nil
	}
	return r.sendMessage(ctx, formatEventText(event))
}

func (r *TelegramReporter) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/sendMessage", r.baseURL)
	body := map[string]any{
		"chat_id":    r.config.AdminChatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}

// formatEventText renders the HTML message posted to the admin chat.
func formatEventText(event Event) string {
	var b strings.Builder

	switch event.Kind {
	case KindStatusChange:
		fmt.Fprintf(&b, "<b>#StatusChange</b>\nUser: <code>%s</code>\nStatus: <b>%s</b>", event.Identifier, event.Status)
		if event.Reason != "" {
			fmt.Fprintf(&b, "\nReason: %s", event.Reason)
		}
	case KindUserCreated:
		fmt.Fprintf(&b, "<b>#NewUser</b>\nUser: <code>%s</code>", event.Identifier)
		b.WriteString(limitsBlock(event))
	case KindUserModified:
		fmt.Fprintf(&b, "<b>#Modified</b>\nUser: <code>%s</code>", event.Identifier)
		b.WriteString(limitsBlock(event))
	case KindUserDeleted:
		fmt.Fprintf(&b, "<b>#Deleted</b>\nUser: <code>%s</code>", event.Identifier)
	case KindUsageReset:
		fmt.Fprintf(&b, "<b>#UsageReset</b>\nUser: <code>%s</code>", event.Identifier)
	case KindRevoked:
		fmt.Fprintf(&b, "<b>#Revoked</b>\nUser: <code>%s</code>", event.Identifier)
	case KindLoginAttempt:
		status := "Failed"
		if event.Success {
			status = "Success"
		}
		fmt.Fprintf(&b, "<b>#Login</b>\nUser: <code>%s</code>\nIP: <code>%s</code>\nStatus: %s", event.Identifier, event.ClientIP, status)
	default:
		fmt.Fprintf(&b, "<b>#Event</b>\nUser: <code>%s</code>", event.Identifier)
	}

	if event.By != "" {
		fmt.Fprintf(&b, "\nBy: <b>%s</b>", event.By)
	}

	return b.String()
}

func limitsBlock(event Event) string {
	dataLimit := "Unlimited"
	if event.DataLimit != nil && *event.DataLimit > 0 {
		dataLimit = utils.FormatBytes(*event.DataLimit)
	}
	return fmt.Sprintf("\nData limit: %s\nExpires: %s", dataLimit, utils.FormatExpire(event.ExpireAt))
}
