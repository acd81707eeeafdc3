// Package sessions owns the shared table of live management-server sessions
// and their credentials.
//
// The table is shared between the interactive caller and every worker, so
// all access is serialized under one mutex. The lock is held only for the
// map mutation itself: accessors hand out copies and callers perform any
// network call (connect, list, poll, disconnect) on the copy with the lock
// released.
package sessions

import (
	"sync"

	"github.com/akarpov87/vsnap/internal/remote"
	"github.com/akarpov87/vsnap/internal/secret"
)

// Credentials pairs a session's username and password with its SSL
// preference.
type Credentials struct {
	Username  string
	Password  *secret.Credential
	VerifySSL bool
}

// Table maps hostname to live session and credentials.
type Table struct {
	mu       sync.Mutex
	sessions map[string]remote.Session
	creds    map[string]Credentials
}

func NewTable() *Table {
	return &Table{
		sessions: make(map[string]remote.Session),
		creds:    make(map[string]Credentials),
	}
}

// Put registers a live session with its credentials, replacing any previous
// entry for the host.
func (t *Table) Put(host string, session remote.Session, creds Credentials) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[host] = session
	t.creds[host] = creds
}

// Remove drops the entry for host and returns the removed session so the
// caller can disconnect it outside the lock.
func (t *Table) Remove(host string) (remote.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	session, ok := t.sessions[host]
	if ok {
		delete(t.sessions, host)
		if creds, exists := t.creds[host]; exists {
			creds.Password.Clear()
			delete(t.creds, host)
		}
	}
	return session, ok
}

// Sessions returns a snapshot copy of the session map. The copy is safe to
// iterate while other goroutines mutate the table.
func (t *Table) Sessions() map[string]remote.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := make(map[string]remote.Session, len(t.sessions))
	for host, session := range t.sessions {
		snapshot[host] = session
	}
	return snapshot
}

// Credentials returns the credentials stored for host.
func (t *Table) Credentials(host string) (Credentials, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	creds, ok := t.creds[host]
	return creds, ok
}

// Hosts returns the connected hostnames.
func (t *Table) Hosts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	hosts := make([]string, 0, len(t.sessions))
	for host := range t.sessions {
		hosts = append(hosts, host)
	}
	return hosts
}

// Len returns the number of live sessions.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// Clear wipes all credentials and empties the table, returning the removed
// sessions so the caller can disconnect them outside the lock.
func (t *Table) Clear() map[string]remote.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := t.sessions
	t.sessions = make(map[string]remote.Session)
	for _, creds := range t.creds {
		creds.Password.Clear()
	}
	t.creds = make(map[string]Credentials)
	return removed
}
