package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lucerna/internal/domain/auth"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/logger"
)

func setupTokenTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.LoginTokenModel{}, &models.UserModel{})
	require.NoError(t, err)

	return db
}

func createTestToken(t *testing.T, repo auth.LoginTokenRepository, userID uint, hash string) *auth.LoginToken {
	ip := "203.0.113.7"
	ua := "test-agent"
	token, err := auth.NewLoginToken(userID, hash, 15, &ip, &ua)
	require.NoError(t, err)
	err = repo.Create(context.Background(), token)
	require.NoError(t, err)
	return token
}

func TestLoginTokenRepository_Create(t *testing.T) {
	db := setupTokenTestDB(t)
	repo := NewLoginTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("create token successfully", func(t *testing.T) {
		token := createTestToken(t, repo, 1, "aaaa000000000000000000000000000000000000000000000000000000000001")
		assert.NotZero(t, token.ID())
	})

	t.Run("duplicate hash should fail", func(t *testing.T) {
		hash := "aaaa000000000000000000000000000000000000000000000000000000000002"
		createTestToken(t, repo, 1, hash)

		token, err := auth.NewLoginToken(2, hash, 15, nil, nil)
		require.NoError(t, err)
		err = repo.Create(ctx, token)
		assert.Error(t, err)
	})
}

func TestLoginTokenRepository_GetByTokenHash(t *testing.T) {
	db := setupTokenTestDB(t)
	repo := NewLoginTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		hash := "bbbb000000000000000000000000000000000000000000000000000000000001"
		created := createTestToken(t, repo, 7, hash)

		found, err := repo.GetByTokenHash(ctx, hash)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID(), found.ID())
		assert.Equal(t, uint(7), found.UserID())
		assert.False(t, found.IsUsed())
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		found, err := repo.GetByTokenHash(ctx, "cccc000000000000000000000000000000000000000000000000000000000001")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestLoginTokenRepository_Consume(t *testing.T) {
	db := setupTokenTestDB(t)
	repo := NewLoginTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("first consume wins", func(t *testing.T) {
		hash := "dddd000000000000000000000000000000000000000000000000000000000001"
		createTestToken(t, repo, 1, hash)

		ip := "198.51.100.9"
		ua := "browser"
		ok, err := repo.Consume(ctx, hash, auth.ConsumeAttempt{Now: time.Now().UTC(), IP: &ip, UserAgent: &ua})
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.GetByTokenHash(ctx, hash)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IsUsed())
		require.NotNil(t, found.ConsumedIP())
		assert.Equal(t, ip, *found.ConsumedIP())
	})

	t.Run("second consume loses", func(t *testing.T) {
		hash := "dddd000000000000000000000000000000000000000000000000000000000002"
		createTestToken(t, repo, 1, hash)

		ok, err := repo.Consume(ctx, hash, auth.ConsumeAttempt{Now: time.Now().UTC()})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.Consume(ctx, hash, auth.ConsumeAttempt{Now: time.Now().UTC()})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown hash loses", func(t *testing.T) {
		ok, err := repo.Consume(ctx, "ffff000000000000000000000000000000000000000000000000000000000001", auth.ConsumeAttempt{Now: time.Now().UTC()})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired unused token loses at the statement", func(t *testing.T) {
		hash := "dddd000000000000000000000000000000000000000000000000000000000004"
		token := createTestToken(t, repo, 1, hash)

		ok, err := repo.Consume(ctx, hash, auth.ConsumeAttempt{Now: token.ExpiresAt().Add(time.Second)})
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.GetByTokenHash(ctx, hash)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.False(t, found.IsUsed())
	})

	t.Run("exactly one of concurrent consumers wins", func(t *testing.T) {
		hash := "dddd000000000000000000000000000000000000000000000000000000000003"
		createTestToken(t, repo, 1, hash)

		const attempts = 16
		var wg sync.WaitGroup
		wins := make(chan bool, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.Consume(ctx, hash, auth.ConsumeAttempt{Now: time.Now().UTC()})
				assert.NoError(t, err)
				wins <- ok
			}()
		}
		wg.Wait()
		close(wins)

		winners := 0
		for ok := range wins {
			if ok {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})
}
