package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akarpov87/vsnap/internal/common"
)

// SaveSetting encrypts value and upserts it under key with the given data
// type tag (TypeString, TypeBool, TypeInt or TypeFloat). The value is
// always the string serialization of the typed value.
func (s *Store) SaveSetting(ctx context.Context, key, value, dataType string) error {
	blob, err := s.box.Encrypt(ctx, value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, data_type, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value,
			data_type = excluded.data_type, updated_at = excluded.updated_at
	`, key, blob, dataType, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: save setting[%s]: %v", common.ErrStorage, key, err)
	}
	return nil
}

// GetSetting returns the decoded value stored under key, or def when the
// key is absent or the stored value cannot be decrypted or decoded.
func (s *Store) GetSetting(ctx context.Context, key string, def any) any {
	var (
		blob     []byte
		dataType string
	)
	err := s.db.QueryRowContext(ctx, `SELECT value, data_type FROM settings WHERE key = ?`, key).Scan(&blob, &dataType)
	if err != nil {
		return def
	}

	value, err := s.box.Decrypt(ctx, blob)
	if err != nil {
		s.log.Warn(ctx, "failed to decrypt setting", "key", key, "error", err)
		return def
	}

	decoded, err := decodeSetting(value, dataType)
	if err != nil {
		s.log.Warn(ctx, "failed to decode setting", "key", key, "type", dataType, "error", err)
		return def
	}
	return decoded
}

// GetAllSettings decrypts and decodes every setting. A key whose value
// cannot be decrypted or decoded is skipped; it never aborts enumeration of
// the others.
func (s *Store) GetAllSettings(ctx context.Context) map[string]any {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, data_type FROM settings`)
	if err != nil {
		s.log.Error(ctx, "failed to retrieve settings", "error", err)
		return map[string]any{}
	}
	defer rows.Close()

	settings := make(map[string]any)
	for rows.Next() {
		var (
			key      string
			blob     []byte
			dataType string
		)
		if err := rows.Scan(&key, &blob, &dataType); err != nil {
			continue
		}
		value, err := s.box.Decrypt(ctx, blob)
		if err != nil {
			s.log.Warn(ctx, "skipping undecryptable setting", "key", key)
			continue
		}
		decoded, err := decodeSetting(value, dataType)
		if err != nil {
			s.log.Warn(ctx, "skipping malformed setting", "key", key, "type", dataType)
			continue
		}
		settings[key] = decoded
	}
	if err := rows.Err(); err != nil {
		s.log.Error(ctx, "failed to iterate settings", "error", err)
	}
	return settings
}

func decodeSetting(value, dataType string) (any, error) {
	switch dataType {
	case TypeBool:
		return strings.EqualFold(value, "true"), nil
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		return n, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return value, nil
	}
}
