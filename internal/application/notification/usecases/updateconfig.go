package usecases

import (
	"context"
	"fmt"

	"lucerna/internal/domain/notification"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
)

type SMTPSettingsInput struct {
	Host      string  `json:"host" binding:"required"`
	Port      int     `json:"port"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	UseTLS    bool    `json:"use_tls"`
	UseSSL    bool    `json:"use_ssl"`
	FromEmail string  `json:"from_email" binding:"required"`
	FromName  *string `json:"from_name"`
}

type PreferenceInput struct {
	Trigger string `json:"trigger" binding:"required"`
	Enabled bool   `json:"enabled"`
}

type UpdateConfigCommand struct {
	SMTP        SMTPSettingsInput `json:"smtp" binding:"required"`
	Preferences []PreferenceInput `json:"preferences"`
}

// UpdateConfigUseCase writes the SMTP settings and the full preference set,
// then invalidates the dispatcher's config cache so the next send sees the
// new configuration.
type UpdateConfigUseCase struct {
	settingsRepo notification.SettingsRepository
	cache        *email.ConfigCache
	logger       logger.Interface
}

func NewUpdateConfigUseCase(
	settingsRepo notification.SettingsRepository,
	cache *email.ConfigCache,
	logger logger.Interface,
) *UpdateConfigUseCase {
	return &UpdateConfigUseCase{
		settingsRepo: settingsRepo,
		cache:        cache,
		logger:       logger,
	}
}

func (uc *UpdateConfigUseCase) Execute(ctx context.Context, cmd UpdateConfigCommand) (*ConfigResult, error) {
	settings := &notification.SMTPSettings{
		Host:      cmd.SMTP.Host,
		Port:      cmd.SMTP.Port,
		Username:  normalizeOptional(cmd.SMTP.Username),
		Password:  cmd.SMTP.Password,
		UseTLS:    cmd.SMTP.UseTLS,
		UseSSL:    cmd.SMTP.UseSSL,
		FromEmail: cmd.SMTP.FromEmail,
		FromName:  normalizeOptional(cmd.SMTP.FromName),
	}
	if settings.Port == 0 {
		settings.Port = 587
	}
	// An empty secret means "keep the stored one"; the repository only
	// replaces the password when a value is present.
	if settings.Password != nil && *settings.Password == "" {
		settings.Password = nil
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	enabled := make(map[notification.Trigger]bool, len(notification.AllTriggers()))
	for _, trigger := range notification.AllTriggers() {
		enabled[trigger] = false
	}
	for _, pref := range cmd.Preferences {
		trigger, err := notification.NewTrigger(pref.Trigger)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		enabled[trigger] = pref.Enabled
	}

	stored, err := uc.settingsRepo.UpsertSMTPSettings(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to store smtp settings: %w", err)
	}

	prefs, err := uc.settingsRepo.ReplacePreferences(ctx, enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to store notification preferences: %w", err)
	}

	uc.cache.Invalidate()
	uc.logger.Infow("notification configuration updated", "host", stored.Host, "port", stored.Port)

	return &ConfigResult{
		SMTP:        toSettingsResult(stored),
		Preferences: toPreferenceResults(prefs),
	}, nil
}

// normalizeOptional folds empty strings into absence.
func normalizeOptional(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
