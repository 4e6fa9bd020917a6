// Package common defines sentinel errors and small helpers shared by every
// Lightning Pass layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store failures. ErrStoreTimeout is retryable and distinct from a
	// generic ErrStore so the caller can tell a slow store from a broken one.
	ErrStore        = errors.New("store failure")
	ErrStoreTimeout = errors.New("store timeout")

	// Authentication failures (login or master password mismatch).
	ErrUnauthorized = errors.New("unauthorized")

	// Crypto failures: wrong key or tampered ciphertext.
	ErrDecryption = errors.New("decryption failed")

	// Reset token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Vault errors.
	ErrMasterPasswordNotSet = errors.New("master password not set")

	// Startup errors.
	ErrMissingKeyMaterial = errors.New("missing key material")

	ErrorInternal = errors.New("internal error")
)
