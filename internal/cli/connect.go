package cli

import (
	"context"
	"fmt"

	"github.com/akarpov87/vsnap/internal/orchestrator"
	"github.com/akarpov87/vsnap/internal/secret"
	"github.com/akarpov87/vsnap/internal/sessions"
)

func (a *App) connect(ctx context.Context, hostname string) {
	record := a.store.GetServer(ctx, hostname)
	if record == nil {
		fmt.Fprintln(a.out, "Unknown server:", hostname)
		return
	}

	password := record.Password
	if password.IsEmpty() {
		pw, err := GetPassword(a.out, fmt.Sprintf("Password for %s@%s: ", record.Username, hostname))
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return
		}
		password = secret.FromBytes(pw)
	}
	defer password.Clear()

	callCtx, cancel := context.WithTimeout(ctx, a.config.ConnectTimeout)
	session, err := a.connector.Connect(callCtx, hostname, record.Username, password.Reveal(), record.VerifySSL)
	cancel()
	if err != nil {
		fmt.Fprintf(a.out, "Failed to connect to %s: %s\n", hostname, err)
		return
	}

	a.table.Put(hostname, session, sessions.Credentials{
		Username:  record.Username,
		Password:  secret.New(password.Reveal()),
		VerifySSL: record.VerifySSL,
	})
	fmt.Fprintln(a.out, "Connected to", hostname)
}

// connectAll signs in to every saved server with a stored password.
func (a *App) connectAll(ctx context.Context) {
	var servers []orchestrator.Server
	for _, record := range a.store.GetServers(ctx) {
		servers = append(servers, orchestrator.Server{
			Hostname:  record.Hostname,
			Username:  record.Username,
			Password:  record.Password,
			VerifySSL: record.VerifySSL,
		})
	}
	if len(servers) == 0 {
		fmt.Fprintln(a.out, "No saved servers")
		return
	}

	a.consume(orchestrator.AutoConnect(ctx, a.connector, servers, a.table, a.workerOptions()), false)
}

func (a *App) disconnect(ctx context.Context, hostname string) {
	session, ok := a.table.Remove(hostname)
	if !ok {
		fmt.Fprintln(a.out, "Not connected to", hostname)
		return
	}
	if err := session.Disconnect(ctx); err != nil {
		a.log.Warn(ctx, "disconnect failed", "host", hostname, "error", err)
	}
	fmt.Fprintln(a.out, "Disconnected from", hostname)
}
