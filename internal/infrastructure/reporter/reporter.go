package reporter

import (
	"context"
	"time"
)

// Kind identifies the shape of a reported event.
type Kind string

const (
	KindStatusChange Kind = "status_change"
	KindUserCreated  Kind = "user_created"
	KindUserModified Kind = "user_modified"
	KindUserDeleted  Kind = "user_deleted"
	KindUsageReset   Kind = "usage_reset"
	KindRevoked      Kind = "subscription_revoked"
	KindLoginAttempt Kind = "login_attempt"
)

// Event is the pre-formatted payload handed to every reporter channel.
// Fields beyond Kind and Identifier are optional per kind.
type Event struct {
	Kind       Kind
	Identifier string
	Status     string
	By         string
	Reason     string
	DataLimit  *int64
	ExpireAt   *time.Time
	ClientIP   string
	Success    bool
}

// Reporter is one outbound event channel. Implementations own their
// transport timeouts; the router isolates their failures from each other.
type Reporter interface {
	Report(ctx context.Context, event Event) error
	Enabled() bool
}
