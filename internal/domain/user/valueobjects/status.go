package valueobjects

import "fmt"

// Status is the account lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
	StatusLimited  Status = "limited"
	StatusExpired  Status = "expired"
	StatusOnHold   Status = "on_hold"
)

func NewStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid user status: %q", value)
	}
	return s, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDisabled, StatusLimited, StatusExpired, StatusOnHold:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Label returns the human-readable form used in portal responses and
// notification bodies.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusDisabled:
		return "Disabled"
	case StatusLimited:
		return "Limited"
	case StatusExpired:
		return "Expired"
	case StatusOnHold:
		return "On hold"
	default:
		return string(s)
	}
}
