package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/logger"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := r.toModel(u)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "error", err, "username", u.Username())
		return fmt.Errorf("failed to create user: %w", err)
	}

	return u.SetID(model.ID)
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UserRepositoryImpl) GetByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by identifier", "error", err)
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UserRepositoryImpl) toEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewStatus(model.Status)
	if err != nil {
		r.logger.Errorw("invalid user status", "error", err, "value", model.Status)
		return nil, fmt.Errorf("invalid user status: %w", err)
	}

	return user.ReconstructUser(
		model.ID,
		model.Username,
		model.Email,
		user.Role(model.Role),
		status,
		model.UsedTraffic,
		model.DataLimit,
		model.ExpireAt,
		model.CreatedAt,
	)
}

func (r *UserRepositoryImpl) toModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:          u.ID(),
		Username:    u.Username(),
		Email:       u.Email(),
		Role:        string(u.Role()),
		Status:      u.Status().String(),
		UsedTraffic: u.UsedTraffic(),
		DataLimit:   u.DataLimit(),
		ExpireAt:    u.ExpireAt(),
		CreatedAt:   u.CreatedAt(),
	}
}
