// Package common defines shared constants and sentinel errors used across
// vsnap components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Key lifecycle errors. The OS credential vault being unreachable is
	// fatal for every encrypt/decrypt call.
	ErrKeyAccess = errors.New("cannot access encryption key")

	// Crypto errors. A failed authentication tag or malformed blob fails
	// the single field being read, never silently decodes to garbage.
	ErrDecrypt = errors.New("decryption failed")

	// Storage errors.
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage error")

	// Legacy migration errors (first-run startup only).
	ErrMigration = errors.New("migration failed")
)
