package auth

import "errors"

// Consumption failure kinds. AlreadyUsed and NotFound are folded into a
// single "invalid" reason at the HTTP boundary so callers cannot probe
// token state; they stay distinct here for logging and tests.
var (
	ErrTokenNotFound    = errors.New("login token not found")
	ErrTokenExpired     = errors.New("login token expired")
	ErrTokenAlreadyUsed = errors.New("login token already used")
)
