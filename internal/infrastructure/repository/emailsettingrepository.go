package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lucerna/internal/domain/notification"
	"lucerna/internal/infrastructure/persistence/models"
	"lucerna/internal/shared/logger"
)

// EmailSettingRepositoryImpl persists the singleton SMTP settings row and
// the per-trigger preference rows.
type EmailSettingRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewEmailSettingRepository(db *gorm.DB, logger logger.Interface) notification.SettingsRepository {
	return &EmailSettingRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *EmailSettingRepositoryImpl) GetSMTPSettings(ctx context.Context) (*notification.SMTPSettings, error) {
	var model models.EmailSettingsModel
	if err := r.db.WithContext(ctx).Order("id ASC").First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get smtp settings", "error", err)
		return nil, fmt.Errorf("failed to get smtp settings: %w", err)
	}

	return r.toSettings(&model), nil
}

func (r *EmailSettingRepositoryImpl) UpsertSMTPSettings(ctx context.Context, settings *notification.SMTPSettings) (*notification.SMTPSettings, error) {
	var model models.EmailSettingsModel
	err := r.db.WithContext(ctx).Order("id ASC").First(&model).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		r.logger.Errorw("failed to load smtp settings for upsert", "error", err)
		return nil, fmt.Errorf("failed to load smtp settings: %w", err)
	}

	model.Host = settings.Host
	model.Port = settings.Port
	model.Username = settings.Username
	model.UseTLS = settings.UseTLS
	model.UseSSL = settings.UseSSL
	model.FromEmail = settings.FromEmail
	model.FromName = settings.FromName
	// A nil password means "keep the stored secret"; only an explicit value
	// replaces it.
	if settings.Password != nil {
		model.Password = settings.Password
	}

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.logger.Errorw("failed to upsert smtp settings", "error", err)
		return nil, fmt.Errorf("failed to upsert smtp settings: %w", err)
	}

	r.logger.Infow("smtp settings updated", "host", model.Host, "port", model.Port)
	return r.toSettings(&model), nil
}

func (r *EmailSettingRepositoryImpl) GetPreferences(ctx context.Context) ([]*notification.Preference, error) {
	var prefModels []*models.NotificationPreferenceModel
	err := r.db.WithContext(ctx).Order("`trigger` ASC").Find(&prefModels).Error
	if err != nil {
		r.logger.Errorw("failed to get notification preferences", "error", err)
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}

	prefs := make([]*notification.Preference, 0, len(prefModels))
	for _, model := range prefModels {
		trigger, err := notification.NewTrigger(model.Trigger)
		if err != nil {
			// Rows for retired triggers are skipped rather than failing the read.
			r.logger.Warnw("skipping unknown notification trigger", "value", model.Trigger)
			continue
		}
		prefs = append(prefs, &notification.Preference{
			ID:        model.ID,
			Trigger:   trigger,
			Enabled:   model.Enabled,
			CreatedAt: model.CreatedAt,
			UpdatedAt: model.UpdatedAt,
		})
	}

	return prefs, nil
}

func (r *EmailSettingRepositoryImpl) ReplacePreferences(ctx context.Context, enabled map[notification.Trigger]bool) ([]*notification.Preference, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, trigger := range notification.AllTriggers() {
			var model models.NotificationPreferenceModel
			err := tx.Where("`trigger` = ?", trigger.String()).First(&model).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			model.Trigger = trigger.String()
			model.Enabled = enabled[trigger]
			if err := tx.Save(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to replace notification preferences", "error", err)
		return nil, fmt.Errorf("failed to replace notification preferences: %w", err)
	}

	return r.GetPreferences(ctx)
}

func (r *EmailSettingRepositoryImpl) toSettings(model *models.EmailSettingsModel) *notification.SMTPSettings {
	return &notification.SMTPSettings{
		ID:        model.ID,
		Host:      model.Host,
		Port:      model.Port,
		Username:  model.Username,
		Password:  model.Password,
		UseTLS:    model.UseTLS,
		UseSSL:    model.UseSSL,
		FromEmail: model.FromEmail,
		FromName:  model.FromName,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
