package notification

import "context"

// SettingsRepository persists the mail configuration aggregates: the
// singleton SMTP settings row and the per-trigger preference rows.
type SettingsRepository interface {
	// GetSMTPSettings returns nil without error when no row exists yet.
	GetSMTPSettings(ctx context.Context) (*SMTPSettings, error)
	UpsertSMTPSettings(ctx context.Context, settings *SMTPSettings) (*SMTPSettings, error)
	GetPreferences(ctx context.Context) ([]*Preference, error)
	// ReplacePreferences upserts the full trigger -> enabled mapping.
	ReplacePreferences(ctx context.Context, enabled map[Trigger]bool) ([]*Preference, error)
}

// NotificationRepository is the in-process notification sink.
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*Notification, int64, error)
}
