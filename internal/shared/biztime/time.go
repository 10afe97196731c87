// Package biztime centralizes time handling. All storage and transport use
// UTC; formatting for humans happens at the rendering edge.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time (any timezone) to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// FormatStamp formats a UTC time for human-readable message bodies.
func FormatStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
