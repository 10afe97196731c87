package usecases

import (
	"context"

	"lucerna/internal/domain/notification"
)

// stubGenerator returns fixed values so tests can assert exactly what was
// persisted.
type stubGenerator struct {
	plain string
	hash  string
}

func (s *stubGenerator) Generate() (string, string, error) {
	return s.plain, s.hash, nil
}

func (s *stubGenerator) Hash(plainToken string) string {
	if plainToken == s.plain {
		return s.hash
	}
	return "hash-of-" + plainToken
}

func (s *stubGenerator) Verify(plainToken, hash string) bool {
	return s.Hash(plainToken) == hash
}

// noopSettingsRepo backs a dispatcher that is never configured, so send
// paths stay silent in tests.
type noopSettingsRepo struct{}

func (noopSettingsRepo) GetSMTPSettings(ctx context.Context) (*notification.SMTPSettings, error) {
	return nil, nil
}

func (noopSettingsRepo) UpsertSMTPSettings(ctx context.Context, settings *notification.SMTPSettings) (*notification.SMTPSettings, error) {
	return settings, nil
}

func (noopSettingsRepo) GetPreferences(ctx context.Context) ([]*notification.Preference, error) {
	return nil, nil
}

func (noopSettingsRepo) ReplacePreferences(ctx context.Context, enabled map[notification.Trigger]bool) ([]*notification.Preference, error) {
	return nil, nil
}
