package store

import (
	"context"
	"fmt"
	"time"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/secret"
)

// SavePassword stores a password for the (hostname, username) pair. The
// matching server row is located by decrypt-scan and updated in place so no
// duplicate row is ever created; if the server is unknown, a fresh row with
// default flags is inserted.
func (s *Store) SavePassword(ctx context.Context, hostname, username string, password *secret.Credential) error {
	serverID, err := s.findServerID(ctx, hostname, username)
	if err != nil {
		return err
	}

	var encPassword []byte
	if !password.IsEmpty() {
		blob, err := s.box.Encrypt(ctx, password.Reveal())
		if err != nil {
			return err
		}
		encPassword = blob
	}

	if serverID != 0 {
		_, err = s.db.ExecContext(ctx, `
			UPDATE servers SET password = ?, updated_at = ? WHERE id = ?
		`, encPassword, time.Now().Format(time.RFC3339), serverID)
		if err != nil {
			return fmt.Errorf("%w: update password: %v", common.ErrStorage, err)
		}
		s.log.Debug(ctx, "updated password", "host", hostname)
		return nil
	}

	if err := s.SaveServer(ctx, hostname, username, false, 0, password); err != nil {
		return err
	}
	s.log.Info(ctx, "created new server entry with password", "host", hostname)
	return nil
}

// GetPassword returns the stored password for the (hostname, username)
// pair, or nil when the server is unknown or no password is stored.
func (s *Store) GetPassword(ctx context.Context, hostname, username string) *secret.Credential {
	for _, server := range s.GetServers(ctx) {
		if server.Hostname == hostname && server.Username == username {
			return server.Password
		}
	}
	return nil
}

// DeletePassword clears the stored password for the (hostname, username)
// pair, leaving the server's other fields untouched. Unknown pairs are
// logged and ignored.
func (s *Store) DeletePassword(ctx context.Context, hostname, username string) error {
	for _, server := range s.GetServers(ctx) {
		if server.Hostname == hostname && server.Username == username {
			return s.SaveServer(ctx, hostname, username, server.VerifySSL, server.DisplayOrder, nil)
		}
	}
	s.log.Warn(ctx, "server not found for password deletion", "host", hostname)
	return nil
}
