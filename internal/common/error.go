// Package common defines shared constants and sentinel errors used across
// the HR portal server and its tools. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Input rejected before touching storage or the hasher.
	ErrValidation = errors.New("validation error")

	// Registration errors.
	ErrAlreadyExists = errors.New("email already registered")

	// Login errors. ErrInvalidCredentials covers both an unknown email and a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")

	// Auth errors (invalid, malformed, expired or orphaned token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. An expired token matches both ErrInvalidToken
	// and ErrTokenExpired.
	ErrTokenExpired = errors.New("token expired")

	// Hasher errors. These point at a programming or data corruption bug,
	// not at user input.
	ErrEncoding = errors.New("password encoding error")
	ErrFormat   = errors.New("unrecognized password digest")

	// Storage unavailable or a constraint violation not otherwise classified.
	ErrDatabase = errors.New("database error")
)
