package models

import (
	"time"

	"lucerna/internal/shared/constants"
)

// LoginTokenModel is the persistence model for single-use magic-link tokens.
// Only the SHA-256 hash of the issued token is stored. Rows are never
// deleted by the portal; retention is an operational concern.
type LoginTokenModel struct {
	ID                 uint      `gorm:"primarykey"`
	UserID             uint      `gorm:"not null;index"`
	TokenHash          string    `gorm:"uniqueIndex;not null;size:64"`
	CreatedAt          time.Time `gorm:"not null"`
	ExpiresAt          time.Time `gorm:"not null"`
	UsedAt             *time.Time
	RequestedIP        *string `gorm:"size:45"`
	RequestedUserAgent *string `gorm:"size:512"`
	ConsumedIP         *string `gorm:"size:45"`
	ConsumedUserAgent  *string `gorm:"size:512"`
}

func (LoginTokenModel) TableName() string {
	return constants.TableLoginTokens
}
