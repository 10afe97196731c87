package migrations

import (
	"gorm.io/gorm"

	"lucerna/internal/infrastructure/persistence/models"
)

// CreateUsersTable creates the users table
func CreateUsersTable(db *gorm.DB) error {
	return db.AutoMigrate(&models.UserModel{})
}

// CreateLoginTokensTable creates the user_login_tokens table
func CreateLoginTokensTable(db *gorm.DB) error {
	return db.AutoMigrate(&models.LoginTokenModel{})
}

// CreateEmailSettingsTables creates the email_smtp_settings and
// email_notification_preferences tables
func CreateEmailSettingsTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.EmailSettingsModel{}); err != nil {
		return err
	}
	return db.AutoMigrate(&models.NotificationPreferenceModel{})
}

// CreateNotificationsTable creates the notifications table
func CreateNotificationsTable(db *gorm.DB) error {
	return db.AutoMigrate(&models.NotificationModel{})
}

// MigrateAll runs every table migration in dependency order.
func MigrateAll(db *gorm.DB) error {
	for _, fn := range []func(*gorm.DB) error{
		CreateUsersTable,
		CreateLoginTokensTable,
		CreateEmailSettingsTables,
		CreateNotificationsTable,
	} {
		if err := fn(db); err != nil {
			return err
		}
	}
	return nil
}
