package models

import (
	"time"

	"lucerna/internal/shared/constants"
)

// UserModel is the persistence model for portal accounts.
type UserModel struct {
	ID          uint    `gorm:"primarykey"`
	Username    string  `gorm:"uniqueIndex;not null;size:64"`
	Email       *string `gorm:"uniqueIndex;size:255"`
	Role        string  `gorm:"not null;size:16;default:user"`
	Status      string  `gorm:"not null;size:16;index"`
	UsedTraffic int64   `gorm:"not null;default:0"`
	DataLimit   *int64
	ExpireAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
