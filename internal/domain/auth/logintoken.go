package auth

import (
	"errors"
	"time"

	"lucerna/internal/shared/biztime"
)

var (
	ErrInvalidTokenHash = errors.New("token hash cannot be empty")
	ErrInvalidTTL       = errors.New("token ttl must be positive")
)

// LoginToken is a single-use magic-link credential. Only the hash of the
// issued token is ever held here; the plaintext exists once, in the link
// handed to the mail dispatcher.
type LoginToken struct {
	id                 uint
	userID             uint
	tokenHash          string
	createdAt          time.Time
	expiresAt          time.Time
	usedAt             *time.Time
	requestedIP        *string
	requestedUserAgent *string
	consumedIP         *string
	consumedUserAgent  *string
}

func NewLoginToken(userID uint, tokenHash string, ttlMinutes int, requestedIP, requestedUserAgent *string) (*LoginToken, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, ErrInvalidTokenHash
	}
	if ttlMinutes <= 0 {
		return nil, ErrInvalidTTL
	}

	now := biztime.NowUTC()
	return &LoginToken{
		userID:             userID,
		tokenHash:          tokenHash,
		createdAt:          now,
		expiresAt:          now.Add(time.Duration(ttlMinutes) * time.Minute),
		requestedIP:        requestedIP,
		requestedUserAgent: requestedUserAgent,
	}, nil
}

// ReconstructLoginToken rebuilds the aggregate from persistence.
func ReconstructLoginToken(
	id uint,
	userID uint,
	tokenHash string,
	createdAt time.Time,
	expiresAt time.Time,
	usedAt *time.Time,
	requestedIP *string,
	requestedUserAgent *string,
	consumedIP *string,
	consumedUserAgent *string,
) (*LoginToken, error) {
	if id == 0 {
		return nil, errors.New("token ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, ErrInvalidTokenHash
	}

	return &LoginToken{
		id:                 id,
		userID:             userID,
		tokenHash:          tokenHash,
		createdAt:          createdAt,
		expiresAt:          expiresAt,
		usedAt:             usedAt,
		requestedIP:        requestedIP,
		requestedUserAgent: requestedUserAgent,
		consumedIP:         consumedIP,
		consumedUserAgent:  consumedUserAgent,
	}, nil
}

func (t *LoginToken) IsExpired(now time.Time) bool {
	return now.After(t.expiresAt)
}

func (t *LoginToken) IsUsed() bool {
	return t.usedAt != nil
}

func (t *LoginToken) ID() uint {
	return t.id
}

func (t *LoginToken) UserID() uint {
	return t.userID
}

func (t *LoginToken) TokenHash() string {
	return t.tokenHash
}

func (t *LoginToken) CreatedAt() time.Time {
	return t.createdAt
}

func (t *LoginToken) ExpiresAt() time.Time {
	return t.expiresAt
}

func (t *LoginToken) UsedAt() *time.Time {
	return t.usedAt
}

func (t *LoginToken) RequestedIP() *string {
	return t.requestedIP
}

func (t *LoginToken) RequestedUserAgent() *string {
	return t.requestedUserAgent
}

func (t *LoginToken) ConsumedIP() *string {
	return t.consumedIP
}

func (t *LoginToken) ConsumedUserAgent() *string {
	return t.consumedUserAgent
}

func (t *LoginToken) SetID(id uint) error {
	if id == 0 {
		return errors.New("token ID cannot be zero")
	}
	t.id = id
	return nil
}
