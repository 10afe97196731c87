package models

import (
	"time"

	"lucerna/internal/shared/constants"
)

// EmailSettingsModel is the singleton SMTP configuration row.
type EmailSettingsModel struct {
	ID        uint    `gorm:"primarykey"`
	Host      string  `gorm:"not null;size:255"`
	Port      int     `gorm:"not null;default:587"`
	Username  *string `gorm:"size:255"`
	Password  *string `gorm:"size:255"`
	UseTLS    bool    `gorm:"not null;default:true"`
	UseSSL    bool    `gorm:"not null;default:false"`
	FromEmail string  `gorm:"not null;size:255"`
	FromName  *string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EmailSettingsModel) TableName() string {
	return constants.TableEmailSettings
}

// NotificationPreferenceModel holds one enablement flag per trigger.
type NotificationPreferenceModel struct {
	ID        uint   `gorm:"primarykey"`
	Trigger   string `gorm:"uniqueIndex;not null;size:32"`
	Enabled   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationPreferenceModel) TableName() string {
	return constants.TableNotificationPreferences
}
