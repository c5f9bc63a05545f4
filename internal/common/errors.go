// Package common defines shared constants and sentinel errors used across
// the cloud drive client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable  = errors.New("service unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoSession is returned by operations that require a signed-in identity.
	ErrNoSession = errors.New("no active session")
)
