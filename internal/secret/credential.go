// Package secret provides in-memory handling of short-lived secrets such as
// server passwords. Secrets are kept in owned mutable byte buffers so they
// can be deterministically wiped after use.
package secret

import (
	"crypto/rand"
	"fmt"
)

// Credential holds a secret in an owned mutable byte buffer.
//
// The zero value is an empty credential. A Credential is never persisted as
// an object: callers unwrap the plaintext immediately before use and wipe
// any copy immediately after. Wiping is best-effort defense in depth, not a
// hard security boundary: the Go runtime may retain internal copies (for
// example, string conversions or moves during garbage collection).
type Credential struct {
	data []byte
}

// New copies the given plaintext into a new Credential. The caller still
// owns s; since Go strings are immutable the original cannot be wiped,
// which is an accepted limitation of constructing from a string.
func New(s string) *Credential {
	if s == "" {
		return &Credential{}
	}
	return &Credential{data: []byte(s)}
}

// FromBytes takes ownership of b. The caller must not use b afterwards.
func FromBytes(b []byte) *Credential {
	return &Credential{data: b}
}

// Bytes returns the plaintext as a borrowed slice. The slice is only valid
// until Clear is called and must not be retained or logged.
func (c *Credential) Bytes() []byte {
	return c.data
}

// Reveal returns the plaintext as a string for APIs that require one.
// The returned string cannot be wiped; use Bytes where possible.
func (c *Credential) Reveal() string {
	if c.IsEmpty() {
		return ""
	}
	return string(c.data)
}

// Clear overwrites the buffer with random bytes, then with zeros, and
// releases it. Safe to call multiple times and on a nil receiver, since
// record types hand out nil credentials for absent passwords.
func (c *Credential) Clear() {
	if c == nil {
		return
	}
	if len(c.data) == 0 {
		c.data = nil
		return
	}
	_, _ = rand.Read(c.data)
	Wipe(c.data)
	c.data = nil
}

// IsEmpty reports whether the credential holds no data.
func (c *Credential) IsEmpty() bool {
	return c == nil || len(c.data) == 0
}

// Len returns the length of the stored secret in bytes.
func (c *Credential) Len() int {
	if c == nil {
		return 0
	}
	return len(c.data)
}

// String returns a masked representation so accidental printing never
// exposes the secret.
func (c *Credential) String() string {
	if c.IsEmpty() {
		return "Credential(empty)"
	}
	return fmt.Sprintf("Credential(%d bytes)", len(c.data))
}

// Wipe overwrites the contents of the provided byte slice with zeros.
// If the slice is nil, the function does nothing.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
