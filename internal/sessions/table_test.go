package sessions

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/vsnap/internal/remote"
	"github.com/akarpov87/vsnap/internal/secret"
)

type stubSession struct {
	host string
}

func (s *stubSession) Host() string { return s.host }
func (s *stubSession) Machines(ctx context.Context) ([]remote.Machine, error) {
	return nil, nil
}
func (s *stubSession) Disconnect(ctx context.Context) error { return nil }

func TestTable_PutAndLookup(t *testing.T) {
	table := NewTable()
	session := &stubSession{host: "vc01"}

	table.Put("vc01", session, Credentials{Username: "admin", Password: secret.New("pw")})

	require.Equal(t, 1, table.Len())

	creds, ok := table.Credentials("vc01")
	require.True(t, ok)
	assert.Equal(t, "admin", creds.Username)
	assert.Equal(t, "pw", creds.Password.Reveal())

	assert.Equal(t, []string{"vc01"}, table.Hosts())
}

func TestTable_SessionsReturnsCopy(t *testing.T) {
	table := NewTable()
	table.Put("vc01", &stubSession{host: "vc01"}, Credentials{})

	snapshot := table.Sessions()
	delete(snapshot, "vc01")

	require.Equal(t, 1, table.Len(), "mutating the snapshot must not affect the table")
}

func TestTable_RemoveReturnsSessionAndWipesPassword(t *testing.T) {
	table := NewTable()
	session := &stubSession{host: "vc01"}
	pwd := secret.New("pw")
	table.Put("vc01", session, Credentials{Password: pwd})

	removed, ok := table.Remove("vc01")
	require.True(t, ok)
	assert.Same(t, session, removed)
	assert.True(t, pwd.IsEmpty(), "password must be wiped on removal")

	_, ok = table.Remove("vc01")
	assert.False(t, ok)
	_, ok = table.Credentials("vc01")
	assert.False(t, ok)
}

func TestTable_ClearWipesEverything(t *testing.T) {
	table := NewTable()
	pwd1 := secret.New("pw1")
	pwd2 := secret.New("pw2")
	table.Put("vc01", &stubSession{host: "vc01"}, Credentials{Password: pwd1})
	table.Put("vc02", &stubSession{host: "vc02"}, Credentials{Password: pwd2})

	removed := table.Clear()
	require.Len(t, removed, 2)
	assert.Equal(t, 0, table.Len())
	assert.True(t, pwd1.IsEmpty())
	assert.True(t, pwd2.IsEmpty())
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			table.Put("vc01", &stubSession{host: "vc01"}, Credentials{})
		}()
		go func() {
			defer wg.Done()
			_ = table.Sessions()
			_, _ = table.Credentials("vc01")
		}()
	}
	wg.Wait()

	require.Equal(t, 1, table.Len())
}
