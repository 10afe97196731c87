package auth

import (
	"context"
	"time"
)

// ConsumeAttempt carries the metadata captured when a token is redeemed.
type ConsumeAttempt struct {
	Now       time.Time
	IP        *string
	UserAgent *string
}

// LoginTokenRepository persists magic-link tokens. Consume must be a
// conditional update: it marks the row used only while used_at is still
// null, so exactly one of any concurrent attempts wins.
type LoginTokenRepository interface {
	Create(ctx context.Context, token *LoginToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*LoginToken, error)
	// Consume returns true when this call performed the null -> non-null
	// transition of used_at, false when another consumer already had.
	Consume(ctx context.Context, tokenHash string, attempt ConsumeAttempt) (bool, error)
}
