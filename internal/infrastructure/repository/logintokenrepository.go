package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lucerna/internal/domain/auth"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/logger"
)

type LoginTokenRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewLoginTokenRepository(db *gorm.DB, logger logger.Interface) auth.LoginTokenRepository {
	return &LoginTokenRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *LoginTokenRepositoryImpl) Create(ctx context.Context, token *auth.LoginToken) error {
	model := r.toModel(token)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create login token", "error", err, "user_id", token.UserID())
		return fmt.Errorf("failed to create login token: %w", err)
	}

	if err := token.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("login token created", "token_id", model.ID, "user_id", token.UserID())
	return nil
}

func (r *LoginTokenRepositoryImpl) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.LoginToken, error) {
	var model models.LoginTokenModel
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get login token by hash", "error", err)
		return nil, fmt.Errorf("failed to get login token by hash: %w", err)
	}

	return r.toEntity(&model)
}

// Consume marks the token used with a conditional update. The used_at IS
// NULL guard makes the write a compare-and-set: under concurrent attempts
// for the same token exactly one caller sees RowsAffected = 1. The
// expires_at guard holds the expiry check at the statement itself, so a
// token that lapses between the caller's read and this write still loses.
func (r *LoginTokenRepositoryImpl) Consume(ctx context.Context, tokenHash string, attempt auth.ConsumeAttempt) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoginTokenModel{}).
		Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", tokenHash, attempt.Now).
		Updates(map[string]interface{}{
			"used_at":             attempt.Now,
			"consumed_ip":         attempt.IP,
			"consumed_user_agent": attempt.UserAgent,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to consume login token", "error", result.Error)
		return false, fmt.Errorf("failed to consume login token: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *LoginTokenRepositoryImpl) toEntity(model *models.LoginTokenModel) (*auth.LoginToken, error) {
	if model == nil {
		return nil, nil
	}

	return auth.ReconstructLoginToken(
		model.ID,
		model.UserID,
		model.TokenHash,
		model.CreatedAt,
		model.ExpiresAt,
		model.UsedAt,
		model.RequestedIP,
		model.RequestedUserAgent,
		model.ConsumedIP,
		model.ConsumedUserAgent,
	)
}

func (r *LoginTokenRepositoryImpl) toModel(token *auth.LoginToken) *models.LoginTokenModel {
	return &models.LoginTokenModel{
		ID:                 token.ID(),
		UserID:             token.UserID(),
		TokenHash:          token.TokenHash(),
		CreatedAt:          token.CreatedAt(),
		ExpiresAt:          token.ExpiresAt(),
		UsedAt:             token.UsedAt(),
		RequestedIP:        token.RequestedIP(),
		RequestedUserAgent: token.RequestedUserAgent(),
		ConsumedIP:         token.ConsumedIP(),
		ConsumedUserAgent:  token.ConsumedUserAgent(),
	}
}
