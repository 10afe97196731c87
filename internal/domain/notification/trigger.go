package notification

import "fmt"

// Trigger is one member of the closed set of account lifecycle events that
// can produce a notification. The set is fixed; rendering switches over it
// exhaustively.
type Trigger string

const (
	TriggerUserCreated         Trigger = "user_created"
	TriggerUserUpdated         Trigger = "user_updated"
	TriggerUserDeleted         Trigger = "user_deleted"
	TriggerUserLimited         Trigger = "user_limited"
	TriggerUserExpired         Trigger = "user_expired"
	TriggerUserEnabled         Trigger = "user_enabled"
	TriggerUserDisabled        Trigger = "user_disabled"
	TriggerDataUsageReset      Trigger = "data_usage_reset"
	TriggerDataResetByNext     Trigger = "data_reset_by_next"
	TriggerSubscriptionRevoked Trigger = "subscription_revoked"
	TriggerReachedUsagePercent Trigger = "reached_usage_percent"
	TriggerReachedDaysLeft     Trigger = "reached_days_left"
)

// AllTriggers returns every trigger in a stable order. Used for seeding and
// for normalizing preference writes to the full set.
func AllTriggers() []Trigger {
	return []Trigger{
		TriggerUserCreated,
		TriggerUserUpdated,
		TriggerUserDeleted,
		TriggerUserLimited,
		TriggerUserExpired,
		TriggerUserEnabled,
		TriggerUserDisabled,
		TriggerDataUsageReset,
		TriggerDataResetByNext,
		TriggerSubscriptionRevoked,
		TriggerReachedUsagePercent,
		TriggerReachedDaysLeft,
	}
}

func NewTrigger(value string) (Trigger, error) {
	t := Trigger(value)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification trigger: %q", value)
	}
	return t, nil
}

func (t Trigger) IsValid() bool {
	switch t {
	case TriggerUserCreated, TriggerUserUpdated, TriggerUserDeleted,
		TriggerUserLimited, TriggerUserExpired, TriggerUserEnabled,
		TriggerUserDisabled, TriggerDataUsageReset, TriggerDataResetByNext,
		TriggerSubscriptionRevoked, TriggerReachedUsagePercent,
		TriggerReachedDaysLeft:
		return true
	}
	return false
}

func (t Trigger) String() string {
	return string(t)
}
