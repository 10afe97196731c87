package email

import (
	"context"
	"fmt"
	"sync"

	"lucerna/internal/domain/notification"
	"lucerna/internal/shared/logger"
)

// Snapshot is one fully-built view of the notification configuration.
// Settings is nil when SMTP has never been configured.
type Snapshot struct {
	Settings    *notification.SMTPSettings
	Preferences map[notification.Trigger]bool
}

// ConfigCache holds the last loaded Snapshot and reloads it on demand.
// Invalidate clears the snapshot; the next Get reloads synchronously.
// Concurrent readers may each trigger a redundant reload after an
// invalidation, which is fine: the reload is idempotent and the snapshot
// is always assigned whole.
type ConfigCache struct {
	repo   notification.SettingsRepository
	logger logger.Interface

	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewConfigCache(repo notification.SettingsRepository, logger logger.Interface) *ConfigCache {
	return &ConfigCache{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the current snapshot, loading it from the store when absent.
func (c *ConfigCache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}

	return c.reload(ctx)
}

// Invalidate drops the snapshot. Called by every configuration write.
func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
	c.logger.Debugw("notification config cache invalidated")
}

func (c *ConfigCache) reload(ctx context.Context) (*Snapshot, error) {
	settings, err := c.repo.GetSMTPSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load smtp settings: %w", err)
	}

	prefs, err := c.repo.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification preferences: %w", err)
	}

	enabled := make(map[notification.Trigger]bool, len(prefs))
	for _, pref := range prefs {
		enabled[pref.Trigger] = pref.Enabled
	}

	snapshot := &Snapshot{
		Settings:    settings,
		Preferences: enabled,
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	return snapshot, nil
}
