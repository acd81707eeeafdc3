package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/vsnap/internal/secret"
)

func TestSaveServer_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", true, 1, secret.New("pw1")))

	servers := s.GetServers(ctx)
	require.Len(t, servers, 1)

	got := servers[0]
	assert.Equal(t, "vc01.example.org", got.Hostname)
	assert.Equal(t, "admin", got.Username)
	assert.True(t, got.VerifySSL)
	assert.Equal(t, 1, got.DisplayOrder)
	require.False(t, got.Password.IsEmpty())
	assert.Equal(t, "pw1", got.Password.Reveal())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveServer_UpdatesInPlace(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, secret.New("pw1")))
	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", true, 5, secret.New("pw2")))

	require.Equal(t, 1, countServerRows(t, s), "re-saving the same (hostname, username) must not add rows")

	got := s.GetServer(ctx, "vc01.example.org")
	require.NotNil(t, got)
	assert.True(t, got.VerifySSL)
	assert.Equal(t, 5, got.DisplayOrder)
	assert.Equal(t, "pw2", got.Password.Reveal())
}

func TestSaveServer_DifferentUsernameIsNewRow(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, nil))
	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "readonly", false, 0, nil))

	require.Equal(t, 2, countServerRows(t, s))
}

func TestSaveServer_NilPasswordClearsStoredOne(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, secret.New("pw1")))
	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, nil))

	got := s.GetServer(ctx, "vc01.example.org")
	require.NotNil(t, got)
	require.True(t, got.Password.IsEmpty())
}

func TestGetServers_CiphertextAtRest(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, secret.New("pw1")))

	var host, user, pwd []byte
	require.NoError(t, s.db.QueryRow(`SELECT hostname, username, password FROM servers`).Scan(&host, &user, &pwd))
	assert.NotContains(t, string(host), "vc01.example.org")
	assert.NotContains(t, string(user), "admin")
	assert.NotContains(t, string(pwd), "pw1")
}

func TestGetServers_OrderedByDisplayOrderThenHostname(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "zz.example.org", "a", false, 0, nil))
	require.NoError(t, s.SaveServer(ctx, "aa.example.org", "a", false, 0, nil))
	require.NoError(t, s.SaveServer(ctx, "mm.example.org", "a", false, 1, nil))

	servers := s.GetServers(ctx)
	require.Len(t, servers, 3)
	assert.Equal(t, "aa.example.org", servers[0].Hostname)
	assert.Equal(t, "zz.example.org", servers[1].Hostname)
	assert.Equal(t, "mm.example.org", servers[2].Hostname)
}

func TestGetServers_CorruptedPasswordYieldsNilPassword(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, secret.New("pw1")))

	// corrupt the stored password blob
	_, err := s.db.Exec(`UPDATE servers SET password = X'00DEADBEEF'`)
	require.NoError(t, err)

	servers := s.GetServers(ctx)
	require.Len(t, servers, 1, "row must still be readable")
	assert.True(t, servers[0].Password.IsEmpty())
	assert.Equal(t, "vc01.example.org", servers[0].Hostname)
}

func TestGetServers_CorruptedHostnameExcludesRow(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, nil))
	require.NoError(t, s.SaveServer(ctx, "vc02.example.org", "admin", false, 0, nil))

	_, err := s.db.Exec(`UPDATE servers SET hostname = X'00DEADBEEF' WHERE id = 1`)
	require.NoError(t, err)

	servers := s.GetServers(ctx)
	require.Len(t, servers, 1)
	assert.Equal(t, "vc02.example.org", servers[0].Hostname)
}

func TestGetServer_AbsentReturnsNil(t *testing.T) {
	s := setupStore(t)
	require.Nil(t, s.GetServer(context.Background(), "nowhere.example.org"))
}

func TestDeleteServer(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, "vc01.example.org", "admin", false, 0, nil))
	require.NoError(t, s.SaveServer(ctx, "vc02.example.org", "admin", false, 0, nil))

	require.NoError(t, s.DeleteServer(ctx, "vc01.example.org"))

	require.Equal(t, 1, countServerRows(t, s))
	require.Nil(t, s.GetServer(ctx, "vc01.example.org"))
	require.NotNil(t, s.GetServer(ctx, "vc02.example.org"))

	// deleting an unknown host is a no-op
	require.NoError(t, s.DeleteServer(ctx, "vc01.example.org"))
}
