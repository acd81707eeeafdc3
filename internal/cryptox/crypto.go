// Package cryptox wraps the database encryption key with an authenticated
// encryption scheme. Every stored sensitive field goes through Box: equal
// plaintexts encrypt to different blobs (fresh random nonce per call) and
// tampered or corrupted blobs fail closed instead of decoding to garbage.
package cryptox

import (
	"context"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/keyx"
	"github.com/akarpov87/vsnap/internal/secret"
)

// Box encrypts and decrypts strings using XChaCha20-Poly1305.
//
// The key is resolved through the Provider on every call rather than cached:
// acceptable overhead for a config store, and it keeps key lifetime in the
// vault's hands.
type Box struct {
	keys keyx.Provider
}

func NewBox(keys keyx.Provider) *Box {
	return &Box{keys: keys}
}

// Encrypt seals the plaintext and returns a single opaque blob laid out as
// nonce || ciphertext || tag.
func (b *Box) Encrypt(ctx context.Context, plaintext string) ([]byte, error) {
	key, err := b.keys.Key(ctx)
	if err != nil {
		return nil, err
	}
	defer secret.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens a blob produced by Encrypt. It verifies the authentication
// tag before returning any plaintext and reports common.ErrDecrypt for
// malformed or tampered input.
func (b *Box) Decrypt(ctx context.Context, blob []byte) (string, error) {
	key, err := b.keys.Key(ctx)
	if err != nil {
		return "", err
	}
	defer secret.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}

	if len(blob) < aead.NonceSize() {
		return "", fmt.Errorf("%w: blob too short", common.ErrDecrypt)
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecrypt, err)
	}
	return string(plaintext), nil
}
