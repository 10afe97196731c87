package usecases

import (
	"context"
	"fmt"

	"lucerna/internal/domain/auth"
	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/token"
	"lucerna/internal/shared/biztime"
	"lucerna/internal/shared/logger"
)

type VerifyMagicLinkCommand struct {
	Token     string
	IP        *string
	UserAgent *string
}

// VerifyMagicLinkUseCase redeems a presented magic-link token. Failure
// reasons surface as the auth sentinel errors; the HTTP layer folds
// AlreadyUsed into the same external reason as NotFound.
type VerifyMagicLinkUseCase struct {
	userRepo  user.Repository
	tokenRepo auth.LoginTokenRepository
	generator token.Generator
	logger    logger.Interface
}

func NewVerifyMagicLinkUseCase(
	userRepo user.Repository,
	tokenRepo auth.LoginTokenRepository,
	generator token.Generator,
	logger logger.Interface,
) *VerifyMagicLinkUseCase {
	return &VerifyMagicLinkUseCase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		generator: generator,
		logger:    logger,
	}
}

func (uc *VerifyMagicLinkUseCase) Execute(ctx context.Context, cmd VerifyMagicLinkCommand) (*user.User, error) {
	if cmd.Token == "" {
		return nil, auth.ErrTokenNotFound
	}

	hash := uc.generator.Hash(cmd.Token)
	loginToken, err := uc.tokenRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to look up login token: %w", err)
	}
	if loginToken == nil {
		uc.logger.Infow("magic link token not found")
		return nil, auth.ErrTokenNotFound
	}

	if loginToken.IsUsed() {
		uc.logger.Warnw("magic link token already used",
			"token_id", loginToken.ID(),
			"user_id", loginToken.UserID(),
		)
		return nil, auth.ErrTokenAlreadyUsed
	}

	now := biztime.NowUTC()
	if loginToken.IsExpired(now) {
		uc.logger.Infow("magic link token expired",
			"token_id", loginToken.ID(),
			"user_id", loginToken.UserID(),
		)
		return nil, auth.ErrTokenExpired
	}

	won, err := uc.tokenRepo.Consume(ctx, hash, auth.ConsumeAttempt{
		Now:       now,
		IP:        cmd.IP,
		UserAgent: cmd.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume login token: %w", err)
	}
	if !won {
		// A concurrent attempt consumed the token between the read and
		// the conditional update.
		uc.logger.Warnw("magic link token lost consumption race",
			"token_id", loginToken.ID(),
			"user_id", loginToken.UserID(),
		)
		return nil, auth.ErrTokenAlreadyUsed
	}

	existingUser, err := uc.userRepo.GetByID(ctx, loginToken.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if existingUser == nil {
		uc.logger.Errorw("login token references missing user",
			"token_id", loginToken.ID(),
			"user_id", loginToken.UserID(),
		)
		return nil, auth.ErrTokenNotFound
	}

	uc.logger.Infow("magic link login succeeded", "user_id", existingUser.ID())
	return existingUser, nil
}
