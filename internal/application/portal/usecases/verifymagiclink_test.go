package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lucerna/internal/domain/auth"
	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/token"
	"lucerna/internal/shared/logger"
)

func issueToken(t *testing.T, tokens *fakeTokenRepo, gen token.Generator, userID uint, ttlMinutes int) string {
	t.Helper()
	plain, hash, err := gen.Generate()
	require.NoError(t, err)
	loginToken, err := auth.NewLoginToken(userID, hash, ttlMinutes, nil, nil)
	require.NoError(t, err)
	require.NoError(t, tokens.Create(context.Background(), loginToken))
	return plain
}

func TestVerifyMagicLinkUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	addr := "alice@example.com"
	gen := token.NewGenerator()

	newUC := func(users *fakeUserRepo, tokens *fakeTokenRepo) *VerifyMagicLinkUseCase {
		return NewVerifyMagicLinkUseCase(users, tokens, gen, logger.NewLogger())
	}

	t.Run("valid token returns the user and marks it used", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{addr: newRegisteredUser(t, 1, "alice", &addr)}}
		tokens := newFakeTokenRepo()
		plain := issueToken(t, tokens, gen, 1, 15)

		ip := "198.51.100.8"
		got, err := newUC(users, tokens).Execute(ctx, VerifyMagicLinkCommand{Token: plain, IP: &ip})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint(1), got.ID())

		stored, err := tokens.GetByTokenHash(ctx, gen.Hash(plain))
		require.NoError(t, err)
		assert.True(t, stored.IsUsed())
		require.NotNil(t, stored.ConsumedIP())
		assert.Equal(t, ip, *stored.ConsumedIP())
	})

	t.Run("unknown token fails as not found", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{}}
		tokens := newFakeTokenRepo()

		_, err := newUC(users, tokens).Execute(ctx, VerifyMagicLinkCommand{Token: "bogus"})
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("empty token fails as not found", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{}}
		tokens := newFakeTokenRepo()

		_, err := newUC(users, tokens).Execute(ctx, VerifyMagicLinkCommand{Token: ""})
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("second use fails as already used", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{addr: newRegisteredUser(t, 1, "alice", &addr)}}
		tokens := newFakeTokenRepo()
		plain := issueToken(t, tokens, gen, 1, 15)
		uc := newUC(users, tokens)

		_, err := uc.Execute(ctx, VerifyMagicLinkCommand{Token: plain})
		require.NoError(t, err)

		_, err = uc.Execute(ctx, VerifyMagicLinkCommand{Token: plain})
		assert.ErrorIs(t, err, auth.ErrTokenAlreadyUsed)
	})

	t.Run("expired token fails as expired", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{addr: newRegisteredUser(t, 1, "alice", &addr)}}
		tokens := newFakeTokenRepo()
		plain, hash, err := gen.Generate()
		require.NoError(t, err)
		expired, err := auth.ReconstructLoginToken(1, 1, hash,
			time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(-45*time.Minute),
			nil, nil, nil, nil, nil)
		require.NoError(t, err)
		tokens.tokens[hash] = expired

		_, err = newUC(users, tokens).Execute(ctx, VerifyMagicLinkCommand{Token: plain})
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("concurrent attempts produce exactly one winner", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{addr: newRegisteredUser(t, 1, "alice", &addr)}}
		tokens := newFakeTokenRepo()
		plain := issueToken(t, tokens, gen, 1, 15)
		uc := newUC(users, tokens)

		const attempts = 8
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.Execute(ctx, VerifyMagicLinkCommand{Token: plain})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		winners := 0
		for err := range results {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, auth.ErrTokenAlreadyUsed)
			}
		}
		assert.Equal(t, 1, winners)
	})

	t.Run("token for missing user fails as not found", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*user.User{}}
		tokens := newFakeTokenRepo()
		plain := issueToken(t, tokens, gen, 99, 15)

		_, err := newUC(users, tokens).Execute(ctx, VerifyMagicLinkCommand{Token: plain})
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})
}
