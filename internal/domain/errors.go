package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these with %w so handlers can map to HTTP status codes
// without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")

	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("otp mismatch")
	ErrRateLimited = errors.New("rate limited")

	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenWrongType = errors.New("token wrong type")

	ErrNotification   = errors.New("notification failed")
	ErrBadCredentials = errors.New("bad credentials")
)
