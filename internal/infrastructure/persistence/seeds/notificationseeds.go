package seeds

import (
	"gorm.io/gorm"

	"lucerna/internal/domain/notification"
	"lucerna/internal/infrastructure/persistence/models"
)

// SeedNotificationPreferences ensures one preference row exists per trigger.
// New rows are created disabled; existing rows keep their configured value.
func SeedNotificationPreferences(db *gorm.DB) error {
	for _, trigger := range notification.AllTriggers() {
		pref := models.NotificationPreferenceModel{
			Trigger: trigger.String(),
			Enabled: false,
		}
		if err := db.FirstOrCreate(&pref, models.NotificationPreferenceModel{
			Trigger: trigger.String(),
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
