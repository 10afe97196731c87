package notification

import "time"

// Preference is the per-trigger email enablement flag. One row exists per
// trigger; absent rows read as disabled.
type Preference struct {
	ID        uint
	Trigger   Trigger
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
