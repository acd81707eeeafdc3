package cli

import (
	"context"
	"fmt"
	"os/user"
	"strconv"

	"github.com/akarpov87/vsnap/internal/orchestrator"
)

// consume drains a worker's event stream, echoing progress and failures.
// When collect is true the full results the worker produced are appended to
// the inventory and the updated listing is printed.
func (a *App) consume(ch <-chan orchestrator.Event, collect bool) {
	var collected []orchestrator.FullResult

	for ev := range ch {
		switch ev := ev.(type) {
		case orchestrator.Progress:
			fmt.Fprintln(a.out, ev.Message)
		case orchestrator.ResultEvent:
			switch r := ev.Result.(type) {
			case orchestrator.FullResult:
				collected = append(collected, r)
			case orchestrator.DegradedResult:
				fmt.Fprintf(a.out, "Snapshot created for %s (run 'fetch' to refresh details)\n", r.MachineName)
			case orchestrator.DeletedResult:
				fmt.Fprintf(a.out, "Deleted %s from %s\n", r.SnapshotName, r.MachineName)
			case orchestrator.ConnectedResult:
				fmt.Fprintf(a.out, "Connected to %s as %s\n", r.Host, r.Username)
			}
		case orchestrator.Failure:
			fmt.Fprintln(a.out, "Errors:")
			fmt.Fprintln(a.out, ev.Message)
		case orchestrator.Complete:
			fmt.Fprintf(a.out, "Done: %d succeeded, %d failed\n", ev.Completed, ev.Failed)
		}
	}

	if collect {
		a.inventory = append(a.inventory, collected...)
		a.showInventory()
	}
}

func (a *App) fetch(ctx context.Context) {
	if a.table.Len() == 0 {
		fmt.Fprintln(a.out, "Not connected to any server")
		return
	}
	a.inventory = nil
	a.consume(orchestrator.Fetch(ctx, a.table.Sessions(), a.workerOptions()), true)
}

func (a *App) showInventory() {
	if len(a.inventory) == 0 {
		fmt.Fprintln(a.out, "No snapshots (run 'fetch' first)")
		return
	}
	for i, snap := range a.inventory {
		marker := ""
		if snap.IsChild {
			marker = "  (child)"
		}
		fmt.Fprintf(a.out, "%3d  %-20s %-25s %s  by %s%s\n",
			i+1, snap.MachineName, snap.Name, snap.Created.Format("2006-01-02 15:04"), snap.CreatedBy, marker)
	}
}

func (a *App) createSnapshots(ctx context.Context, machineNames []string) {
	if a.table.Len() == 0 {
		fmt.Fprintln(a.out, "Not connected to any server")
		return
	}

	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	memory, err := GetYesNo(a.reader, "Include memory state?", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	req := orchestrator.CreateRequest{
		MachineNames: machineNames,
		SnapshotName: a.config.SnapshotName,
		Description:  description,
		User:         currentUser(),
		Memory:       memory,
	}

	a.consume(orchestrator.Create(ctx, a.table.Sessions(), req, a.workerOptions()), true)
}

func (a *App) deleteSnapshots(ctx context.Context, args []string) {
	var items []orchestrator.DeleteItem
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(a.inventory) {
			fmt.Fprintln(a.out, "No such snapshot index:", arg)
			return
		}
		snap := a.inventory[n-1]
		items = append(items, orchestrator.DeleteItem{
			MachineName:  snap.MachineName,
			SnapshotName: snap.Name,
			Snapshot:     snap.Snapshot,
		})
	}

	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete %d snapshot(s)?", len(items)), a.out)
	if err != nil || !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	a.consume(orchestrator.Delete(ctx, items, a.workerOptions()), false)
	// Stale indexes after a delete; force a re-fetch.
	a.inventory = nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return orchestrator.UnknownCreator
}
