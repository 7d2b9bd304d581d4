// Package common defines shared constants and sentinel errors used across
// the file vault components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Vault validation errors.
	ErrPathViolation   = errors.New("path violation")
	ErrEmptyPayload    = errors.New("empty payload")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrExtensionDenied = errors.New("file extension not allowed")

	// Cipher errors. Decryption failure is security-relevant and must never
	// be collapsed into ErrNotFound.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Key management errors (fatal at startup).
	ErrKeyUnavailable = errors.New("encryption key unavailable")

	// Sharing errors.
	ErrSelfShare = errors.New("cannot share a file with its owner")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// User registration errors.
	ErrUsernameTaken = errors.New("username already taken")
)
