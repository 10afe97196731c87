package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portalUsecases "lucerna/internal/application/portal/usecases"
	"lucerna/internal/application/report"
	domainAuth "lucerna/internal/domain/auth"
	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	infraAuth "lucerna/internal/infrastructure/auth"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/infrastructure/token"
	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/logger"

	"lucerna/internal/interfaces/http/handlers/testutil"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	for _, u := range f.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	return f.users[identifier], nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domainAuth.LoginToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*domainAuth.LoginToken)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, t *domainAuth.LoginToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := t.SetID(uint(len(f.tokens) + 1)); err != nil {
		return err
	}
	f.tokens[t.TokenHash()] = t
	return nil
}

func (f *fakeTokenRepo) GetByTokenHash(ctx context.Context, hash string) (*domainAuth.LoginToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[hash], nil
}

func (f *fakeTokenRepo) Consume(ctx context.Context, hash string, attempt domainAuth.ConsumeAttempt) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tokens[hash]
	if !ok || stored.IsUsed() {
		return false, nil
	}
	replaced, err := domainAuth.ReconstructLoginToken(
		stored.ID(), stored.UserID(), stored.TokenHash(),
		stored.CreatedAt(), stored.ExpiresAt(), &attempt.Now,
		stored.RequestedIP(), stored.RequestedUserAgent(),
		attempt.IP, attempt.UserAgent,
	)
	if err != nil {
		return false, err
	}
	f.tokens[hash] = replaced
	return true, nil
}

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

type noopNotificationRepo struct{}

func (noopNotificationRepo) Create(ctx context.Context, record *notification.Notification) error {
	return nil
}

func (noopNotificationRepo) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*notification.Notification, int64, error) {
	return nil, 0, nil
}

type portalFixture struct {
	handler   *PortalHandler
	users     *fakeUserRepo
	tokens    *fakeTokenRepo
	generator token.Generator
	session   *infraAuth.SessionTokenService
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()
	log := logger.NewLogger()
	addr := "alice@example.com"
	alice, err := user.ReconstructUser(1, "alice", &addr, user.RoleUser, vo.StatusActive, 0, nil, nil, time.Now().UTC())
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]*user.User{addr: alice}}
	tokens := newFakeTokenRepo()
	gen := token.NewGenerator()
	dispatcher := email.NewDispatcher(email.NewConfigCache(noopSettingsRepo{}, log), log)
	session := infraAuth.NewSessionTokenService("test-secret", 60)
	router := report.NewRouter(noopNotificationRepo{}, dispatcher, nil, sharedConfig.NotifyConfig{}, log)

	handler := NewPortalHandler(
		portalUsecases.NewRequestMagicLinkUseCase(users, tokens, gen, dispatcher, "https://panel.example.com", 15, log),
		portalUsecases.NewVerifyMagicLinkUseCase(users, tokens, gen, log),
		portalUsecases.NewGetProfileUseCase(users, "https://panel.example.com", log),
		session,
		router,
		sharedConfig.CookieConfig{Path: "/", SameSite: "Lax"},
		log,
	)

	return &portalFixture{handler: handler, users: users, tokens: tokens, generator: gen, session: session}
}

func (f *portalFixture) issueToken(t *testing.T, userID uint, ttlMinutes int) string {
	t.Helper()
	plain, hash, err := f.generator.Generate()
	require.NoError(t, err)
	loginToken, err := domainAuth.NewLoginToken(userID, hash, ttlMinutes, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.tokens.Create(context.Background(), loginToken))
	return plain
}

func TestPortalHandler_RequestMagicLink(t *testing.T) {
	t.Run("registered email gets generic accepted response", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/magic-link", MagicLinkRequest{Email: "alice@example.com"})

		f.handler.RequestMagicLink(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), constants.GenericMagicLinkMessage)
		assert.Len(t, f.tokens.tokens, 1)
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/magic-link", MagicLinkRequest{Email: "nobody@example.com"})

		f.handler.RequestMagicLink(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), constants.GenericMagicLinkMessage)
		assert.Empty(t, f.tokens.tokens)
	})

	t.Run("missing email is a bad request", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/magic-link", map[string]string{})

		f.handler.RequestMagicLink(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPortalHandler_VerifyMagicLink(t *testing.T) {
	t.Run("valid token sets cookie and redirects to success", func(t *testing.T) {
		f := newPortalFixture(t)
		plain := f.issueToken(t, 1, 15)

		c, w := testutil.NewTestContext(http.MethodGet, "/auth/magic", nil)
		testutil.SetQueryParams(c, map[string]string{"token": plain})

		f.handler.VerifyMagicLink(c)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?login=success", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		claims, err := f.session.Verify(cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
	})

	t.Run("unknown token redirects to invalid", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/magic", nil)
		testutil.SetQueryParams(c, map[string]string{"token": "bogus"})

		f.handler.VerifyMagicLink(c)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?login=invalid", w.Header().Get("Location"))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("used token redirects to invalid, not a distinct reason", func(t *testing.T) {
		f := newPortalFixture(t)
		plain := f.issueToken(t, 1, 15)

		c, _ := testutil.NewTestContext(http.MethodGet, "/auth/magic", nil)
		testutil.SetQueryParams(c, map[string]string{"token": plain})
		f.handler.VerifyMagicLink(c)

		c, w := testutil.NewTestContext(http.MethodGet, "/auth/magic", nil)
		testutil.SetQueryParams(c, map[string]string{"token": plain})
		f.handler.VerifyMagicLink(c)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?login=invalid", w.Header().Get("Location"))
	})

	t.Run("expired token redirects to expired", func(t *testing.T) {
		f := newPortalFixture(t)
		plain, hash, err := f.generator.Generate()
		require.NoError(t, err)
		expired, err := domainAuth.ReconstructLoginToken(1, 1, hash,
			time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(-30*time.Minute),
			nil, nil, nil, nil, nil)
		require.NoError(t, err)
		f.tokens.tokens[hash] = expired

		c, w := testutil.NewTestContext(http.MethodGet, "/auth/magic", nil)
		testutil.SetQueryParams(c, map[string]string{"token": plain})

		f.handler.VerifyMagicLink(c)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?login=expired", w.Header().Get("Location"))
	})
}

func TestPortalHandler_Logout(t *testing.T) {
	f := newPortalFixture(t)
	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/logout", nil)

	f.handler.Logout(c)
	// Flush gin's deferred header write so the recorder sees the status
	// set by c.Status on a body-less response.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestPortalHandler_Me(t *testing.T) {
	t.Run("returns the portal profile", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/me", nil)
		testutil.SetAuthContext(c, 1)

		f.handler.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var profile portalUsecases.ProfileResult
		require.NoError(t, testutil.ParseResponse(w, &profile))
		assert.Equal(t, "alice", profile.Username)
		assert.Equal(t, "Active", profile.StatusLabel)
		assert.Equal(t, "https://panel.example.com/sub/alice", profile.Subscription.Universal)
		assert.Equal(t, "https://panel.example.com/sub/alice/clash", profile.Subscription.Clash)
	})

	t.Run("missing auth context is unauthorized", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/me", nil)

		f.handler.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		f := newPortalFixture(t)
		c, w := testutil.NewTestContext(http.MethodGet, "/api/me", nil)
		testutil.SetAuthContext(c, 42)

		f.handler.Me(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
