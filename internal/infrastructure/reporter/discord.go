package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/utils"
)

const (
	colorGreen  = 0x2ECC71
	colorYellow = 0xF1C40F
	colorRed    = 0xE74C3C
	colorGrey   = 0x95A5A6
)

// DiscordReporter posts event embeds to a configured webhook.
type DiscordReporter struct {
	config     sharedConfig.DiscordConfig
	httpClient *http.Client
}

func NewDiscordReporter(config sharedConfig.DiscordConfig) *DiscordReporter {
	return &DiscordReporter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (r *DiscordReporter) Enabled() bool {
	return r.config.WebhookURL != ""
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      *discordFooter      `json:"footer,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordFooter struct {
	Text string `json:"text"`
}

func (r *DiscordReporter) Report(ctx context.Context, event Event) error {
	if !r.Enabled() {
		return nil
	}

	payload := map[string]any{
		"embeds": []discordEmbed{buildEmbed(event)},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.WebhookURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook error: status %d: %s", resp.StatusCode, body)
	}

	return nil
}

func buildEmbed(event Event) discordEmbed {
	embed := discordEmbed{
		Fields: []discordEmbedField{
			{Name: "User", Value: event.Identifier, Inline: true},
		},
	}

	switch event.Kind {
	case KindStatusChange:
		embed.Title = "Status Change"
		embed.Color = statusColor(event.Status)
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Status", Value: event.Status, Inline: true})
		if event.Reason != "" {
			embed.Fields = append(embed.Fields, discordEmbedField{Name: "Reason", Value: event.Reason})
		}
	case KindUserCreated:
		embed.Title = "New User"
		embed.Color = colorGreen
		embed.Fields = append(embed.Fields, limitFields(event)...)
	case KindUserModified:
		embed.Title = "User Modified"
		embed.Color = colorYellow
		embed.Fields = append(embed.Fields, limitFields(event)...)
	case KindUserDeleted:
		embed.Title = "User Deleted"
		embed.Color = colorRed
	case KindUsageReset:
		embed.Title = "Data Usage Reset"
		embed.Color = colorGrey
	case KindRevoked:
		embed.Title = "Subscription Revoked"
		embed.Color = colorRed
	case KindLoginAttempt:
		embed.Title = "Login Attempt"
		if event.Success {
			embed.Color = colorGreen
		} else {
			embed.Color = colorRed
		}
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "IP", Value: event.ClientIP, Inline: true},
			discordEmbedField{Name: "Result", Value: loginResult(event.Success), Inline: true},
		)
	default:
		embed.Title = "Event"
		embed.Color = colorGrey
	}

	if event.By != "" {
		embed.Footer = &discordFooter{Text: fmt.Sprintf("By: %s", event.By)}
	}

	return embed
}

func limitFields(event Event) []discordEmbedField {
	dataLimit := "Unlimited"
	if event.DataLimit != nil && *event.DataLimit > 0 {
		dataLimit = utils.FormatBytes(*event.DataLimit)
	}
	return []discordEmbedField{
		{Name: "Data limit", Value: dataLimit, Inline: true},
		{Name: "Expires", Value: utils.FormatExpire(event.ExpireAt), Inline: true},
	}
}

func statusColor(status string) int {
	switch status {
	case "active":
		return colorGreen
	case "limited", "expired":
		return colorYellow
	default:
		return colorRed
	}
}

func loginResult(success bool) string {
	if success {
		return "Success"
	}
	return "Failed"
}
