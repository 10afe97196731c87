package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lucerna/internal/domain/notification"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/logger"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewNotificationRepository(db *gorm.DB, logger logger.Interface) notification.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, record *notification.Notification) error {
	model := r.toModel(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create notification", "error", err, "trigger", record.Trigger().String())
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if err := record.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set notification ID: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*notification.Notification, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count notifications", "error", err, "user_id", userID)
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifModels []*models.NotificationModel
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifModels).Error
	if err != nil {
		r.logger.Errorw("failed to list notifications", "error", err, "user_id", userID)
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	records := make([]*notification.Notification, 0, len(notifModels))
	for _, model := range notifModels {
		entity, err := r.toEntity(model)
		if err != nil {
			r.logger.Warnw("skipping notification with unknown trigger", "id", model.ID, "trigger", model.Trigger)
			continue
		}
		records = append(records, entity)
	}

	return records, total, nil
}

func (r *NotificationRepositoryImpl) toEntity(model *models.NotificationModel) (*notification.Notification, error) {
	trigger, err := notification.NewTrigger(model.Trigger)
	if err != nil {
		return nil, err
	}
	return notification.ReconstructNotification(
		model.ID,
		model.UserID,
		trigger,
		model.Username,
		model.Email,
		model.Actor,
		model.Reason,
		model.CreatedAt,
	)
}

func (r *NotificationRepositoryImpl) toModel(record *notification.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:        record.ID(),
		UserID:    record.UserID(),
		Trigger:   record.Trigger().String(),
		Username:  record.Username(),
		Email:     record.Email(),
		Actor:     record.Actor(),
		Reason:    record.Reason(),
		CreatedAt: record.CreatedAt(),
	}
}
