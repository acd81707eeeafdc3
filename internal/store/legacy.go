package store

import (
	"context"
	"fmt"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/dbx"
	"github.com/akarpov87/vsnap/internal/secret"
)

// LoadServers returns servers in the older map shape keyed by hostname.
// Passwords are not part of that shape; use GetPassword for them.
func (s *Store) LoadServers(ctx context.Context) map[string]LegacyServer {
	servers := s.GetServers(ctx)
	legacy := make(map[string]LegacyServer, len(servers))
	for _, server := range servers {
		legacy[server.Hostname] = LegacyServer{
			Username:  server.Username,
			VerifySSL: server.VerifySSL,
		}
	}
	return legacy
}

// SaveServers replaces all stored servers with the given map-shaped set.
// Any password already stored for a surviving (hostname, username) pair is
// preserved across the round-trip, so translating through the older shape
// never silently discards secrets.
func (s *Store) SaveServers(ctx context.Context, servers map[string]LegacyServer) error {
	existing := s.GetServers(ctx)
	passwords := make(map[string]*secret.Credential)
	for _, server := range existing {
		if !server.Password.IsEmpty() {
			passwords[server.Hostname+":"+server.Username] = server.Password
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM servers`); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: clear servers: %v", common.ErrStorage, err)
	}

	for hostname, data := range servers {
		password := passwords[hostname+":"+data.Username]
		if err := s.SaveServer(ctx, hostname, data.Username, data.VerifySSL, 0, password); err != nil {
			return err
		}
	}

	s.log.Debug(ctx, "saved servers to encrypted database",
		"count", len(servers), "passwords_preserved", len(passwords))
	return nil
}
