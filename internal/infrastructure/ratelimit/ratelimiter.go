package ratelimit

import "context"

// Config caps requests per window. A zero value disables that window.
type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// RateLimiter bounds how often a key may pass within the configured windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, config Config) (bool, error)
	Reset(ctx context.Context, key string) error
}
