// Package keyx manages the single symmetric encryption key protecting the
// local database. The key lives in the OS credential vault and is never
// written to disk anywhere else; losing the vault entry after data exists
// makes that data unrecoverable.
package keyx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/logging"
)

const (
	// Service is the fixed vault service identifier. Load-bearing for
	// existing installations; do not rename.
	Service = "vsnap"

	keyEntry = "database_encryption_key"
	keySize  = 32
)

// Provider yields the database encryption key.
type Provider interface {
	// Key returns the 32-byte encryption key. Implementations must fail
	// with common.ErrKeyAccess when the backing vault is unreachable;
	// silently falling back to a fixed key would be a critical flaw.
	Key(ctx context.Context) ([]byte, error)
}

// KeyringProvider stores the key in the OS credential vault (Keychain,
// Credential Manager, Secret Service) as a hex string. The key is created
// lazily on first use.
type KeyringProvider struct {
	service string
	entry   string
	log     logging.Logger
}

func NewKeyringProvider(log logging.Logger) *KeyringProvider {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &KeyringProvider{service: Service, entry: keyEntry, log: log}
}

// Key reads the key from the vault, generating and persisting a fresh one
// if no entry exists yet.
func (p *KeyringProvider) Key(ctx context.Context) ([]byte, error) {
	existing, err := keyring.Get(p.service, p.entry)
	if err == nil {
		key, decErr := hex.DecodeString(existing)
		if decErr != nil || len(key) != keySize {
			return nil, fmt.Errorf("%w: malformed vault entry", common.ErrKeyAccess)
		}
		return key, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyAccess, err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyAccess, err)
	}
	if err := keyring.Set(p.service, p.entry, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyAccess, err)
	}

	p.log.Info(ctx, "generated new encryption key for database")
	return key, nil
}

// Static is a fixed-key Provider for tests.
type Static []byte

func (s Static) Key(ctx context.Context) ([]byte, error) {
	return []byte(s), nil
}
