package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/shared/logger"
)

type fakeSettingsRepo struct {
	settings *notification.SMTPSettings
	prefs    map[notification.Trigger]bool
	loads    int
}

func (f *fakeSettingsRepo) GetSMTPSettings(ctx context.Context) (*notification.SMTPSettings, error) {
	f.loads++
	return f.settings, nil
}

func (f *fakeSettingsRepo) UpsertSMTPSettings(ctx context.Context, settings *notification.SMTPSettings) (*notification.SMTPSettings, error) {
	f.settings = settings
	return settings, nil
}

func (f *fakeSettingsRepo) GetPreferences(ctx context.Context) ([]*notification.Preference, error) {
	prefs := make([]*notification.Preference, 0, len(f.prefs))
	for trigger, enabled := range f.prefs {
		prefs = append(prefs, &notification.Preference{Trigger: trigger, Enabled: enabled})
	}
	return prefs, nil
}

func (f *fakeSettingsRepo) ReplacePreferences(ctx context.Context, enabled map[notification.Trigger]bool) ([]*notification.Preference, error) {
	f.prefs = enabled
	return f.GetPreferences(ctx)
}

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) Send(settings *notification.SMTPSettings, msg *gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testSettings() *notification.SMTPSettings {
	return &notification.SMTPSettings{
		Host:      "smtp.example.com",
		Port:      587,
		UseTLS:    true,
		FromEmail: "noreply@example.com",
	}
}

func testUser(t *testing.T, email *string) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(1, "alice", email, user.RoleUser, vo.StatusActive, 0, nil, nil, time.Now().UTC())
	require.NoError(t, err)
	return u
}

func newTestDispatcher(repo *fakeSettingsRepo, s *fakeSender) *Dispatcher {
	d := NewDispatcher(NewConfigCache(repo, logger.NewLogger()), logger.NewLogger())
	d.sender = s
	return d
}

func TestDispatcher_Send(t *testing.T) {
	ctx := context.Background()
	email := "alice@example.com"

	t.Run("delivers when configured and enabled", func(t *testing.T) {
		repo := &fakeSettingsRepo{
			settings: testSettings(),
			prefs:    map[notification.Trigger]bool{notification.TriggerUserCreated: true},
		}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		d.Send(ctx, notification.TriggerUserCreated, testUser(t, &email), MessageContext{})
		require.Len(t, s.sent, 1)
		assert.Equal(t, []string{email}, s.sent[0].GetHeader("To"))
	})

	t.Run("no-op without email address", func(t *testing.T) {
		repo := &fakeSettingsRepo{
			settings: testSettings(),
			prefs:    map[notification.Trigger]bool{notification.TriggerUserCreated: true},
		}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		d.Send(ctx, notification.TriggerUserCreated, testUser(t, nil), MessageContext{})
		assert.Empty(t, s.sent)
	})

	t.Run("no-op when smtp unconfigured", func(t *testing.T) {
		repo := &fakeSettingsRepo{
			prefs: map[notification.Trigger]bool{notification.TriggerUserCreated: true},
		}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		d.Send(ctx, notification.TriggerUserCreated, testUser(t, &email), MessageContext{})
		assert.Empty(t, s.sent)
	})

	t.Run("no-op when trigger disabled", func(t *testing.T) {
		repo := &fakeSettingsRepo{
			settings: testSettings(),
			prefs:    map[notification.Trigger]bool{notification.TriggerUserCreated: false},
		}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		d.Send(ctx, notification.TriggerUserCreated, testUser(t, &email), MessageContext{})
		assert.Empty(t, s.sent)
	})

	t.Run("absent preference reads as disabled", func(t *testing.T) {
		repo := &fakeSettingsRepo{
			settings: testSettings(),
			prefs:    map[notification.Trigger]bool{},
		}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		d.Send(ctx, notification.TriggerUserExpired, testUser(t, &email), MessageContext{})
		assert.Empty(t, s.sent)
	})

	t.Run("transport failure is swallowed", func(t *testing.T) {
		repo := &fakeSettingsRepo{
			settings: testSettings(),
			prefs:    map[notification.Trigger]bool{notification.TriggerUserCreated: true},
		}
		s := &fakeSender{err: errors.New("connection refused")}
		d := newTestDispatcher(repo, s)

		d.Send(ctx, notification.TriggerUserCreated, testUser(t, &email), MessageContext{})
		assert.Empty(t, s.sent)
	})
}

func TestDispatcher_SendMagicLink(t *testing.T) {
	ctx := context.Background()

	t.Run("returns true on delivery", func(t *testing.T) {
		repo := &fakeSettingsRepo{settings: testSettings()}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		ok := d.SendMagicLink(ctx, "alice@example.com", "alice", "https://panel.example.com/auth/magic?token=x", 15)
		assert.True(t, ok)
		require.Len(t, s.sent, 1)
	})

	t.Run("returns false when smtp unconfigured", func(t *testing.T) {
		repo := &fakeSettingsRepo{}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		ok := d.SendMagicLink(ctx, "alice@example.com", "alice", "https://panel.example.com/auth/magic?token=x", 15)
		assert.False(t, ok)
		assert.Empty(t, s.sent)
	})

	t.Run("returns false on transport failure", func(t *testing.T) {
		repo := &fakeSettingsRepo{settings: testSettings()}
		s := &fakeSender{err: errors.New("auth failed")}
		d := newTestDispatcher(repo, s)

		ok := d.SendMagicLink(ctx, "alice@example.com", "alice", "https://panel.example.com/auth/magic?token=x", 15)
		assert.False(t, ok)
	})

	t.Run("returns false with empty address", func(t *testing.T) {
		repo := &fakeSettingsRepo{settings: testSettings()}
		s := &fakeSender{}
		d := newTestDispatcher(repo, s)

		ok := d.SendMagicLink(ctx, "", "alice", "https://panel.example.com/auth/magic?token=x", 15)
		assert.False(t, ok)
		assert.Empty(t, s.sent)
	})
}

func TestConfigCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSettingsRepo{settings: testSettings()}
	cache := NewConfigCache(repo, logger.NewLogger())

	_, err := cache.Get(ctx)
	require.NoError(t, err)
	_, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)

	cache.Invalidate()
	_, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}

func TestConfigCache_SnapshotReflectsWrites(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSettingsRepo{prefs: map[notification.Trigger]bool{notification.TriggerUserCreated: true}}
	cache := NewConfigCache(repo, logger.NewLogger())

	snapshot, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot.Settings)
	assert.True(t, snapshot.Preferences[notification.TriggerUserCreated])

	repo.settings = testSettings()
	repo.prefs = map[notification.Trigger]bool{notification.TriggerUserCreated: false}

	// Stale until invalidated.
	snapshot, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot.Settings)

	cache.Invalidate()
	snapshot, err = cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Settings)
	assert.False(t, snapshot.Preferences[notification.TriggerUserCreated])
}
