package email

import (
	"fmt"
	"strings"

	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	"lucerna/internal/shared/utils"
)

// MessageContext carries the optional event fields the templates can use.
type MessageContext struct {
	Actor   *string
	Reason  *string
	Percent *float64
	Days    *int
}

// render produces the subject/body pair for one trigger. The switch covers
// the full trigger set; an unknown value yields an empty pair, which the
// dispatcher skips.
func render(trigger notification.Trigger, u *user.User, mc MessageContext) (string, string) {
	identifier := u.Identifier()
	details := formatUserDetails(u)

	switch trigger {
	case notification.TriggerUserCreated:
		return "Your VPN access is ready", wrapMessage(identifier,
			"Your account has been created successfully.",
			details,
			formatActor(mc.Actor),
		)
	case notification.TriggerUserUpdated:
		return "Your VPN account was updated", wrapMessage(identifier,
			"Your account settings were updated.",
			details,
			formatActor(mc.Actor),
		)
	case notification.TriggerUserDeleted:
		return "Your VPN account was removed", wrapMessage(identifier,
			"Your access has been revoked and the account was removed from the system.",
			formatActor(mc.Actor),
		)
	case notification.TriggerUserLimited:
		return "Your VPN account reached its limit", wrapMessage(identifier,
			"Your account is limited because the allocated data has been used.",
			details,
		)
	case notification.TriggerUserExpired:
		return "Your VPN account expired", wrapMessage(identifier,
			"Your subscription has expired.",
			details,
		)
	case notification.TriggerUserEnabled:
		return "Your VPN access is active again", wrapMessage(identifier,
			"Your account has been enabled.",
			details,
			formatActor(mc.Actor),
		)
	case notification.TriggerUserDisabled:
		reasonLine := ""
		if mc.Reason != nil && *mc.Reason != "" {
			reasonLine = fmt.Sprintf("Reason: %s", *mc.Reason)
		}
		return "Your VPN access was disabled", wrapMessage(identifier,
			"Your account has been disabled.",
			reasonLine,
			formatActor(mc.Actor),
		)
	case notification.TriggerDataUsageReset:
		return "Your VPN data usage was reset", wrapMessage(identifier,
			"Your data usage has been reset.",
			details,
			formatActor(mc.Actor),
		)
	case notification.TriggerDataResetByNext:
		return "Your VPN plan switched to the next cycle", wrapMessage(identifier,
			"Your account has been refreshed according to the next plan schedule.",
			details,
		)
	case notification.TriggerSubscriptionRevoked:
		return "Your subscription links were revoked", wrapMessage(identifier,
			"Subscription links were revoked. You will need to request new ones.",
			formatActor(mc.Actor),
		)
	case notification.TriggerReachedUsagePercent:
		percentLine := ""
		if mc.Percent != nil {
			percentLine = fmt.Sprintf("You have used %.0f%% of your available data.", *mc.Percent)
		}
		return "Your VPN usage alert", wrapMessage(identifier,
			percentLine,
			details,
		)
	case notification.TriggerReachedDaysLeft:
		daysLine := ""
		if mc.Days != nil {
			daysLine = fmt.Sprintf("You have %d day(s) remaining on your subscription.", *mc.Days)
		}
		return "Your VPN subscription is ending soon", wrapMessage(identifier,
			daysLine,
			details,
		)
	}

	return "", ""
}

func renderMagicLink(identifier, link string, expiresInMinutes int) string {
	return wrapMessage(identifier,
		"Use the secure link below to open your dashboard:",
		link,
		fmt.Sprintf("This link expires in %d minute(s).", expiresInMinutes),
		"If you did not request this email, you can safely ignore it.",
	)
}

// wrapMessage joins the non-empty lines between a greeting and a sign-off.
func wrapMessage(identifier string, lines ...string) string {
	parts := []string{fmt.Sprintf("Hello %s,", identifier)}
	for _, line := range lines {
		if line != "" {
			parts = append(parts, line)
		}
	}
	parts = append(parts, "\nRegards,", "Your VPN Administrator")
	return strings.Join(parts, "\n\n")
}

func formatUserDetails(u *user.User) string {
	dataLimit := "Unlimited"
	if u.DataLimit() != nil && *u.DataLimit() > 0 {
		dataLimit = utils.FormatBytes(*u.DataLimit())
	}
	return fmt.Sprintf("Status: %s\nData limit: %s\nExpires: %s",
		u.Status().String(), dataLimit, utils.FormatExpire(u.ExpireAt()))
}

func formatActor(actor *string) string {
	if actor == nil || *actor == "" {
		return ""
	}
	return fmt.Sprintf("Changed by: %s", *actor)
}
