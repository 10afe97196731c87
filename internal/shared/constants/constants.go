package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Database table names
const (
	TableUsers                   = "users"
	TableLoginTokens             = "user_login_tokens"
	TableEmailSettings           = "email_smtp_settings"
	TableNotificationPreferences = "email_notification_preferences"
	TableNotifications           = "notifications"
)

// Context keys set by middleware
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// SessionCookieName is the cookie carrying the portal session token.
const SessionCookieName = "portal_session"

// GenericMagicLinkMessage is returned for every magic-link request,
// whether or not the identifier matched an account.
const GenericMagicLinkMessage = "If the email is registered, a sign-in link has been sent."
