// Package store is the encrypted relational storage engine backing vsnap.
//
// It owns a single SQLite database with three tables: config (store-internal
// metadata), servers (managed server records) and settings (a typed
// key/value store). Every sensitive column holds ciphertext produced by
// cryptox.Box; since equal plaintexts encrypt to different blobs, lookups on
// encrypted fields use a decrypt-then-compare scan rather than SQL equality.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/cryptox"
	"github.com/akarpov87/vsnap/internal/filex"
	"github.com/akarpov87/vsnap/internal/logging"
	"github.com/akarpov87/vsnap/internal/store/migrations"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "config.db"

const schemaVersion = "2"

// Store provides encrypted access to the configuration database.
type Store struct {
	db  *sql.DB
	box *cryptox.Box
	log logging.Logger
}

// Open creates (if needed) and migrates the database inside dataDir, seeds
// the config metadata, and returns a ready Store. Construction failures are
// fatal for startup: a store that cannot write is worse than no store.
func Open(ctx context.Context, dataDir string, box *cryptox.Box, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if err := filex.EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrStorage, dbPath, err)
	}
	// at-most-one-writer: a single connection avoids SQLITE_BUSY between
	// the interactive caller and workers persisting results
	db.SetMaxOpenConns(1)

	s := &Store{db: db, box: box, log: log}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.seedConfig(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info(ctx, "initialized encrypted database", "path", dbPath)
	return s, nil
}

// migrate applies the embedded schema migrations. The base schema (version
// 1) must succeed; failure of the additive password migration (version 2) is
// logged and swallowed so existing installations keep working with whatever
// schema they have.
func (s *Store) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("%w: set dialect: %v", common.ErrStorage, err)
	}

	if err := goose.UpToContext(ctx, s.db, ".", 1); err != nil {
		return fmt.Errorf("%w: base schema: %v", common.ErrStorage, err)
	}

	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		s.log.Error(ctx, "schema migration failed, continuing with existing schema", "error", err)
	}
	return nil
}

// seedConfig records store metadata in the config table.
func (s *Store) seedConfig(ctx context.Context) error {
	now := time.Now().Format(time.RFC3339)
	for key, value := range map[string]string{
		"schema_version": schemaVersion,
		"app_version":    common.AppVersion,
		"created_at":     now,
	} {
		if err := s.SaveConfigValue(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SaveConfigValue encrypts and upserts one config metadata entry.
func (s *Store) SaveConfigValue(ctx context.Context, key, value string) error {
	blob, err := s.box.Encrypt(ctx, value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, blob, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: save config[%s]: %v", common.ErrStorage, key, err)
	}
	return nil
}

// GetConfigValue decrypts one config metadata entry. Absent keys return
// ("", nil), matching read-path leniency.
func (s *Store) GetConfigValue(ctx context.Context, key string) (string, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: get config[%s]: %v", common.ErrStorage, key, err)
	}
	return s.box.Decrypt(ctx, blob)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
