package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	n := a.table.Len()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("(%d connected)", n)
}

// Root runs the command loop. Commands and interactive prompts share
// a.reader: a single buffer over the input stream, so a command never
// swallows the lines a follow-up prompt is about to read.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to vsnap (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "vsnap %s> ", a.getStatus())

		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: servers, addserver, delserver <host>,")
			fmt.Fprintln(a.out, "  connect <host>, connectall, disconnect <host>,")
			fmt.Fprintln(a.out, "  fetch, snapshots, create <vm> [vm...], delete <n> [n...],")
			fmt.Fprintln(a.out, "  settings, set <key> <value> [string|bool|int|float], exit")
		case "servers":
			a.listServers(ctx)
		case "addserver":
			a.addServer(ctx)
		case "delserver":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "Usage: delserver <host>")
				continue
			}
			a.deleteServer(ctx, args[0])
		case "connect":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "Usage: connect <host>")
				continue
			}
			a.connect(ctx, args[0])
		case "connectall":
			a.connectAll(ctx)
		case "disconnect":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "Usage: disconnect <host>")
				continue
			}
			a.disconnect(ctx, args[0])
		case "fetch":
			a.fetch(ctx)
		case "snapshots":
			a.showInventory()
		case "create":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: create <vm> [vm...]")
				continue
			}
			a.createSnapshots(ctx, args)
		case "delete":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: delete <n> [n...]  (indexes from 'snapshots')")
				continue
			}
			a.deleteSnapshots(ctx, args)
		case "settings":
			a.showSettings(ctx)
		case "set":
			a.setSetting(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
