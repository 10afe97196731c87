package utils

import (
	"fmt"
	"time"
)

// FormatBytes renders a byte count in the nearest binary unit.
func FormatBytes(value int64) string {
	const unit = 1024
	if value < unit {
		return fmt.Sprintf("%d B", value)
	}
	div, exp := int64(unit), 0
	for n := value / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(value)/float64(div), "KMGTPE"[exp])
}

// FormatExpire renders an optional expiry timestamp for message bodies.
func FormatExpire(expireAt *time.Time) string {
	if expireAt == nil {
		return "No expiration"
	}
	return expireAt.UTC().Format("2006-01-02 15:04 UTC")
}
