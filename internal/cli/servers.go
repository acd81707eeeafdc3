package cli

import (
	"context"
	"fmt"

	"github.com/akarpov87/vsnap/internal/secret"
)

func (a *App) listServers(ctx context.Context) {
	servers := a.store.GetServers(ctx)
	if len(servers) == 0 {
		fmt.Fprintln(a.out, "No saved servers")
		return
	}
	for _, srv := range servers {
		stored := "no password"
		if !srv.Password.IsEmpty() {
			stored = "password stored"
		}
		fmt.Fprintf(a.out, "%s  user=%s  verify_ssl=%t  %s\n", srv.Hostname, srv.Username, srv.VerifySSL, stored)
		srv.Password.Clear()
	}
}

func (a *App) addServer(ctx context.Context) {
	hostname, err := GetSimpleText(a.reader, "Hostname", a.out)
	if err != nil || hostname == "" {
		fmt.Fprintln(a.out, "A hostname is required")
		return
	}
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil || username == "" {
		fmt.Fprintln(a.out, "A username is required")
		return
	}
	verifySSL, err := GetYesNo(a.reader, "Verify SSL certificate?", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	pw, err := GetPassword(a.out, "Password (empty to skip): ")
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	var password *secret.Credential
	if len(pw) > 0 {
		password = secret.FromBytes(pw)
		defer password.Clear()
	}

	order := len(a.store.GetServers(ctx))
	if err := a.store.SaveServer(ctx, hostname, username, verifySSL, order, password); err != nil {
		fmt.Fprintln(a.out, "Error saving server:", err)
		return
	}
	fmt.Fprintln(a.out, "Saved", hostname)
}

func (a *App) deleteServer(ctx context.Context, hostname string) {
	if err := a.store.DeleteServer(ctx, hostname); err != nil {
		fmt.Fprintln(a.out, "Error deleting server:", err)
		return
	}
	fmt.Fprintln(a.out, "Deleted", hostname)
}
