package usecases

import (
	"context"
	"fmt"
	"sort"

	"lucerna/internal/domain/notification"
	"lucerna/internal/shared/logger"
)

// SMTPSettingsResult is the admin-facing view of the SMTP settings. The
// stored secret is never returned, only whether one exists.
type SMTPSettingsResult struct {
	Host        string  `json:"host"`
	Port        int     `json:"port"`
	Username    *string `json:"username"`
	UseTLS      bool    `json:"use_tls"`
	UseSSL      bool    `json:"use_ssl"`
	FromEmail   string  `json:"from_email"`
	FromName    *string `json:"from_name"`
	HasPassword bool    `json:"has_password"`
}

type PreferenceResult struct {
	Trigger string `json:"trigger"`
	Enabled bool   `json:"enabled"`
}

type ConfigResult struct {
	SMTP        *SMTPSettingsResult `json:"smtp"`
	Preferences []PreferenceResult  `json:"preferences"`
}

// GetConfigUseCase reads the notification configuration for the admin
// surface, straight from the store rather than the cache.
type GetConfigUseCase struct {
	settingsRepo notification.SettingsRepository
	logger       logger.Interface
}

func NewGetConfigUseCase(settingsRepo notification.SettingsRepository, logger logger.Interface) *GetConfigUseCase {
	return &GetConfigUseCase{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

func (uc *GetConfigUseCase) Execute(ctx context.Context) (*ConfigResult, error) {
	settings, err := uc.settingsRepo.GetSMTPSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load smtp settings: %w", err)
	}

	prefs, err := uc.settingsRepo.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification preferences: %w", err)
	}

	return &ConfigResult{
		SMTP:        toSettingsResult(settings),
		Preferences: toPreferenceResults(prefs),
	}, nil
}

func toSettingsResult(settings *notification.SMTPSettings) *SMTPSettingsResult {
	if settings == nil {
		return nil
	}
	return &SMTPSettingsResult{
		Host:        settings.Host,
		Port:        settings.Port,
		Username:    settings.Username,
		UseTLS:      settings.UseTLS,
		UseSSL:      settings.UseSSL,
		FromEmail:   settings.FromEmail,
		FromName:    settings.FromName,
		HasPassword: settings.Password != nil && *settings.Password != "",
	}
}

func toPreferenceResults(prefs []*notification.Preference) []PreferenceResult {
	results := make([]PreferenceResult, 0, len(prefs))
	for _, pref := range prefs {
		results = append(results, PreferenceResult{
			Trigger: pref.Trigger.String(),
			Enabled: pref.Enabled,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Trigger < results[j].Trigger
	})
	return results
}
