package orchestrator

import (
	"context"
	"fmt"

	"github.com/akarpov87/vsnap/internal/remote"
	"github.com/akarpov87/vsnap/internal/secret"
	"github.com/akarpov87/vsnap/internal/sessions"
)

// Server is one saved server the auto-connect worker should sign in to.
type Server struct {
	Hostname  string
	Username  string
	Password  *secret.Credential
	VerifySSL bool
}

// AutoConnect signs in to every saved server that has a stored password and
// registers the resulting sessions, with their credentials, in table.
// Servers without a password are skipped silently. A connect failure is
// recorded per host and never stops the remaining hosts.
func AutoConnect(ctx context.Context, connector remote.Connector, servers []Server, table *sessions.Table, opts Options) <-chan Event {
	opts = opts.withDefaults()

	var dialable []Server
	for _, srv := range servers {
		if !srv.Password.IsEmpty() {
			dialable = append(dialable, srv)
		}
	}

	e := newEmitter(len(dialable))

	go func() {
		for _, srv := range dialable {
			e.progress("Connecting", srv.Hostname)

			callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
			session, err := connector.Connect(callCtx, srv.Hostname, srv.Username, srv.Password.Reveal(), srv.VerifySSL)
			cancel()
			if err != nil {
				opts.Logger.Warn(ctx, "auto-connect failed", "host", srv.Hostname, "error", err)
				e.fail(fmt.Sprintf("Failed to connect to %s: %s", srv.Hostname, err))
				continue
			}

			table.Put(srv.Hostname, session, sessions.Credentials{
				Username:  srv.Username,
				Password:  srv.Password,
				VerifySSL: srv.VerifySSL,
			})
			e.completed++
			e.result(ConnectedResult{Host: srv.Hostname, Username: srv.Username})
		}
		e.finish(fmt.Sprintf("%d connected", e.completed))
	}()

	return e.ch
}
