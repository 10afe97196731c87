package models

import (
	"time"

	"lucerna/internal/shared/constants"
)

// NotificationModel is the in-process notification record appended by the
// event router for every routed lifecycle event.
type NotificationModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index"`
	Trigger   string `gorm:"not null;size:32;index"`
	Username  string `gorm:"not null;size:64"`
	Email     *string `gorm:"size:255"`
	Actor     *string `gorm:"size:64"`
	Reason    *string `gorm:"size:255"`
	CreatedAt time.Time
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
