// Package common defines shared constants and sentinel errors used across
// the DeHug CLI and tracker components. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Request validation errors surfaced by the tracker API.
	ErrorInvalidSource = errors.New("invalid download source")
	ErrorEmptyItemName = errors.New("empty item name")

	// Credential lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)
