package user

import (
	"errors"
	"time"

	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/shared/biztime"
)

// Role controls access to the admin configuration surface.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the portal-facing account aggregate. It carries only the fields
// the login and notification paths need; full account management lives
// outside this service.
type User struct {
	id          uint
	username    string
	email       *string
	role        Role
	status      vo.Status
	usedTraffic int64
	dataLimit   *int64
	expireAt    *time.Time
	createdAt   time.Time
}

func NewUser(username string, email *string, role Role, status vo.Status) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if !status.IsValid() {
		return nil, errors.New("invalid user status")
	}
	if role == "" {
		role = RoleUser
	}

	return &User{
		username:  username,
		email:     email,
		role:      role,
		status:    status,
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructUser rebuilds the aggregate from persistence.
func ReconstructUser(
	id uint,
	username string,
	email *string,
	role Role,
	status vo.Status,
	usedTraffic int64,
	dataLimit *int64,
	expireAt *time.Time,
	createdAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}

	return &User{
		id:          id,
		username:    username,
		email:       email,
		role:        role,
		status:      status,
		usedTraffic: usedTraffic,
		dataLimit:   dataLimit,
		expireAt:    expireAt,
		createdAt:   createdAt,
	}, nil
}

// Identifier returns the address the user is known by in outbound messages:
// email when present, username otherwise.
func (u *User) Identifier() string {
	if u.email != nil && *u.email != "" {
		return *u.email
	}
	return u.username
}

// HasEmail reports whether the account has a registered address.
func (u *User) HasEmail() bool {
	return u.email != nil && *u.email != ""
}

// UsagePercent returns used traffic as a percentage of the data limit, or
// nil when the account is unlimited.
func (u *User) UsagePercent() *float64 {
	if u.dataLimit == nil || *u.dataLimit <= 0 {
		return nil
	}
	percent := float64(u.usedTraffic) / float64(*u.dataLimit) * 100
	return &percent
}

func (u *User) IsAdmin() bool {
	return u.role == RoleAdmin
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) Username() string {
	return u.username
}

func (u *User) Email() *string {
	return u.email
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) Status() vo.Status {
	return u.status
}

func (u *User) UsedTraffic() int64 {
	return u.usedTraffic
}

func (u *User) DataLimit() *int64 {
	return u.dataLimit
}

func (u *User) ExpireAt() *time.Time {
	return u.expireAt
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) SetID(id uint) error {
	if id == 0 {
		return errors.New("user ID cannot be zero")
	}
	u.id = id
	return nil
}
