package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/akarpov87/vsnap/internal/common"
	"github.com/akarpov87/vsnap/internal/secret"
)

// SaveServer encrypts hostname, username and the optional password
// independently and persists the record. An existing row for the same
// (hostname, username) pair is updated in place; it is located by
// decrypt-scan, since ciphertext equality cannot be used. Passing a nil or
// empty password clears any stored one.
func (s *Store) SaveServer(ctx context.Context, hostname, username string, verifySSL bool, displayOrder int, password *secret.Credential) error {
	var encPassword []byte
	if !password.IsEmpty() {
		blob, err := s.box.Encrypt(ctx, password.Reveal())
		if err != nil {
			return err
		}
		encPassword = blob
	}

	existing, err := s.findServerID(ctx, hostname, username)
	if err != nil {
		return err
	}

	now := time.Now().Format(time.RFC3339)

	if existing != 0 {
		_, err = s.db.ExecContext(ctx, `
			UPDATE servers
			SET password = ?, verify_ssl = ?, display_order = ?, updated_at = ?
			WHERE id = ?
		`, encPassword, verifySSL, displayOrder, now, existing)
		if err != nil {
			return fmt.Errorf("%w: update server: %v", common.ErrStorage, err)
		}
		s.log.Debug(ctx, "updated server configuration", "host", hostname)
		return nil
	}

	encHostname, err := s.box.Encrypt(ctx, hostname)
	if err != nil {
		return err
	}
	encUsername, err := s.box.Encrypt(ctx, username)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO servers (hostname, username, password, verify_ssl, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, encHostname, encUsername, encPassword, verifySSL, displayOrder, now, now)
	if err != nil {
		return fmt.Errorf("%w: insert server: %v", common.ErrStorage, err)
	}
	s.log.Debug(ctx, "saved server configuration", "host", hostname)
	return nil
}

// GetServers decrypts and returns every server record, ordered by display
// order and then hostname. A row whose password fails to decrypt yields a
// nil password (logged, not fatal); a row whose hostname or username fails
// to decrypt is unreadable and is excluded (logged). Read failures degrade
// to an empty list so the caller's UI stays responsive.
func (s *Store) GetServers(ctx context.Context) []ServerRecord {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hostname, username, password, verify_ssl, display_order, created_at, updated_at
		FROM servers
	`)
	if err != nil {
		s.log.Error(ctx, "failed to retrieve servers", "error", err)
		return nil
	}
	defer rows.Close()

	var servers []ServerRecord
	for rows.Next() {
		var (
			rec                      ServerRecord
			encHost, encUser, encPwd []byte
			createdAt, updatedAt     string
		)
		if err := rows.Scan(&rec.ID, &encHost, &encUser, &encPwd, &rec.VerifySSL, &rec.DisplayOrder, &createdAt, &updatedAt); err != nil {
			s.log.Error(ctx, "failed to scan server row", "error", err)
			continue
		}

		host, err := s.box.Decrypt(ctx, encHost)
		if err != nil {
			s.log.Warn(ctx, "server row unreadable, skipping", "id", rec.ID, "error", err)
			continue
		}
		user, err := s.box.Decrypt(ctx, encUser)
		if err != nil {
			s.log.Warn(ctx, "server row unreadable, skipping", "id", rec.ID, "error", err)
			continue
		}
		rec.Hostname = host
		rec.Username = user

		if len(encPwd) > 0 {
			pwd, err := s.box.Decrypt(ctx, encPwd)
			if err != nil {
				s.log.Warn(ctx, "failed to decrypt password", "host", host, "error", err)
			} else {
				rec.Password = secret.New(pwd)
			}
		}

		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		servers = append(servers, rec)
	}
	if err := rows.Err(); err != nil {
		s.log.Error(ctx, "failed to iterate server rows", "error", err)
	}

	sort.SliceStable(servers, func(i, j int) bool {
		if servers[i].DisplayOrder != servers[j].DisplayOrder {
			return servers[i].DisplayOrder < servers[j].DisplayOrder
		}
		return servers[i].Hostname < servers[j].Hostname
	})
	return servers
}

// GetServer returns the record for hostname, or nil when no such server is
// stored.
func (s *Store) GetServer(ctx context.Context, hostname string) *ServerRecord {
	for _, server := range s.GetServers(ctx) {
		if server.Hostname == hostname {
			return &server
		}
	}
	return nil
}

// DeleteServer removes the record for hostname, located by decrypt-scan.
// Deleting an unknown hostname is a no-op.
func (s *Store) DeleteServer(ctx context.Context, hostname string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, hostname FROM servers`)
	if err != nil {
		return fmt.Errorf("%w: delete server: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var serverID int64
	for rows.Next() {
		var (
			id      int64
			encHost []byte
		)
		if err := rows.Scan(&id, &encHost); err != nil {
			continue
		}
		host, err := s.box.Decrypt(ctx, encHost)
		if err != nil {
			continue
		}
		if host == hostname {
			serverID = id
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: delete server: %v", common.ErrStorage, err)
	}
	if serverID == 0 {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM servers WHERE id = ?`, serverID); err != nil {
		return fmt.Errorf("%w: delete server: %v", common.ErrStorage, err)
	}
	s.log.Debug(ctx, "deleted server configuration", "host", hostname)
	return nil
}

// findServerID locates a row by decrypt-scan equality on the
// (hostname, username) pair. Returns 0 when no row matches.
func (s *Store) findServerID(ctx context.Context, hostname, username string) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, hostname, username FROM servers`)
	if err != nil {
		return 0, fmt.Errorf("%w: scan servers: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id               int64
			encHost, encUser []byte
		)
		if err := rows.Scan(&id, &encHost, &encUser); err != nil {
			continue
		}
		host, err := s.box.Decrypt(ctx, encHost)
		if err != nil {
			continue
		}
		user, err := s.box.Decrypt(ctx, encUser)
		if err != nil {
			continue
		}
		if host == hostname && user == username {
			return id, nil
		}
	}
	return 0, rows.Err()
}
