package notification

import (
	"errors"
	"time"
)

// Notification is the in-process record the event router appends for every
// routed lifecycle event, independent of outbound delivery.
type Notification struct {
	id        uint
	userID    uint
	trigger   Trigger
	username  string
	email     *string
	actor     *string
	reason    *string
	createdAt time.Time
}

func NewNotification(userID uint, trigger Trigger, username string, email, actor, reason *string) (*Notification, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if !trigger.IsValid() {
		return nil, errors.New("invalid notification trigger")
	}

	return &Notification{
		userID:    userID,
		trigger:   trigger,
		username:  username,
		email:     email,
		actor:     actor,
		reason:    reason,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructNotification rebuilds the record from persistence.
func ReconstructNotification(id, userID uint, trigger Trigger, username string, email, actor, reason *string, createdAt time.Time) (*Notification, error) {
	if id == 0 {
		return nil, errors.New("notification ID cannot be zero")
	}

	return &Notification{
		id:        id,
		userID:    userID,
		trigger:   trigger,
		username:  username,
		email:     email,
		actor:     actor,
		reason:    reason,
		createdAt: createdAt,
	}, nil
}

func (n *Notification) ID() uint {
	return n.id
}

func (n *Notification) UserID() uint {
	return n.userID
}

func (n *Notification) Trigger() Trigger {
	return n.trigger
}

func (n *Notification) Username() string {
	return n.username
}

func (n *Notification) Email() *string {
	return n.email
}

func (n *Notification) Actor() *string {
	return n.actor
}

func (n *Notification) Reason() *string {
	return n.reason
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) SetID(id uint) error {
	if id == 0 {
		return errors.New("notification ID cannot be zero")
	}
	n.id = id
	return nil
}
