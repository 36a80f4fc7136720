package service

import "errors"

// Error kinds surfaced by the shortening and resolution paths. Callers
// match with errors.Is; controllers translate them to HTTP statuses.
var (
	// ErrInvalidAlias means the custom alias failed format validation or is reserved
	ErrInvalidAlias = errors.New("invalid custom alias: use 3-20 characters (letters, numbers, hyphens, underscores only)")

	// ErrAliasConflict means the alias is already bound to a different URL
	ErrAliasConflict = errors.New("alias is already used for a different URL")

	// ErrCodeSpaceExhausted means every generation attempt collided with an existing code
	ErrCodeSpaceExhausted = errors.New("failed to generate a unique short code")

	// ErrNotFound means the short code does not exist or has expired
	ErrNotFound = errors.New("short URL not found or expired")

	// ErrInvalidExpiry means the requested expiration time is in the past
	ErrInvalidExpiry = errors.New("invalid expiration time")
)
