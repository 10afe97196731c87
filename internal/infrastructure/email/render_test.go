package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
)

func renderTestUser(t *testing.T) *user.User {
	t.Helper()
	email := "alice@example.com"
	dataLimit := int64(10 * 1024 * 1024 * 1024)
	expireAt := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	u, err := user.ReconstructUser(1, "alice", &email, user.RoleUser, vo.StatusActive, 0, &dataLimit, &expireAt, time.Now().UTC())
	require.NoError(t, err)
	return u
}

func TestRender_EveryTriggerProducesMessage(t *testing.T) {
	u := renderTestUser(t)
	for _, trigger := range notification.AllTriggers() {
		t.Run(trigger.String(), func(t *testing.T) {
			subject, body := render(trigger, u, MessageContext{})
			assert.NotEmpty(t, subject)
			assert.NotEmpty(t, body)
			assert.True(t, strings.HasPrefix(body, "Hello alice@example.com,"))
			assert.Contains(t, body, "Your VPN Administrator")
		})
	}
}

func TestRender_ActorAndReasonLines(t *testing.T) {
	u := renderTestUser(t)
	actor := "admin"
	reason := "payment overdue"

	subject, body := render(notification.TriggerUserDisabled, u, MessageContext{Actor: &actor, Reason: &reason})
	assert.Equal(t, "Your VPN access was disabled", subject)
	assert.Contains(t, body, "Changed by: admin")
	assert.Contains(t, body, "Reason: payment overdue")

	_, body = render(notification.TriggerUserDisabled, u, MessageContext{})
	assert.NotContains(t, body, "Changed by:")
	assert.NotContains(t, body, "Reason:")
}

func TestRender_NumericContextLines(t *testing.T) {
	u := renderTestUser(t)

	percent := 80.0
	_, body := render(notification.TriggerReachedUsagePercent, u, MessageContext{Percent: &percent})
	assert.Contains(t, body, "You have used 80% of your available data.")

	// Missing value drops the line but keeps the message.
	subject, body := render(notification.TriggerReachedUsagePercent, u, MessageContext{})
	assert.NotEmpty(t, subject)
	assert.NotContains(t, body, "You have used")
	assert.Contains(t, body, "Status: active")

	days := 3
	_, body = render(notification.TriggerReachedDaysLeft, u, MessageContext{Days: &days})
	assert.Contains(t, body, "You have 3 day(s) remaining on your subscription.")
}

func TestRender_UserDetailsBlock(t *testing.T) {
	u := renderTestUser(t)
	_, body := render(notification.TriggerUserCreated, u, MessageContext{})
	assert.Contains(t, body, "Status: active")
	assert.Contains(t, body, "Data limit: 10.00 GB")
	assert.Contains(t, body, "Expires: 2026-12-01 00:00 UTC")

	noLimits, err := user.ReconstructUser(2, "bob", nil, user.RoleUser, vo.StatusActive, 0, nil, nil, time.Now().UTC())
	require.NoError(t, err)
	_, body = render(notification.TriggerUserCreated, noLimits, MessageContext{})
	assert.True(t, strings.HasPrefix(body, "Hello bob,"))
	assert.Contains(t, body, "Data limit: Unlimited")
	assert.Contains(t, body, "Expires: No expiration")
}

func TestRenderMagicLink(t *testing.T) {
	body := renderMagicLink("alice", "https://panel.example.com/auth/magic?token=abc", 15)
	assert.Contains(t, body, "Hello alice,")
	assert.Contains(t, body, "https://panel.example.com/auth/magic?token=abc")
	assert.Contains(t, body, "This link expires in 15 minute(s).")
	assert.Contains(t, body, "If you did not request this email, you can safely ignore it.")
}
