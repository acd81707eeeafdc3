package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akarpov87/vsnap/internal/remote"
)

// CreateRequest describes one bulk snapshot-creation batch.
type CreateRequest struct {
	// MachineNames are the display names to snapshot, matched
	// case-insensitively across all sessions.
	MachineNames []string

	// SnapshotName is the name given to every created snapshot. It is
	// also what the worker searches for afterwards when locating the
	// created artifact.
	SnapshotName string

	// Description is the free-text description; the creator marker is
	// appended to it before the task is started.
	Description string

	// User is recorded as the creator inside the description.
	User string

	// Memory includes the machine's memory state in the snapshot.
	Memory bool
}

type createItem struct {
	name    string
	host    string
	machine remote.Machine
}

// Create snapshots every requested machine. Machines are located by a
// linear probe across all sessions; names with no match anywhere fail
// immediately and are not retried. Within a session, tasks are started in
// chunks of BatchSize and each chunk is polled to quiescence before the
// next starts.
//
// On task success the worker tries to locate the snapshot it just created
// (same name, created today) and emits a FullResult; when the snapshot
// cannot be found it emits a DegradedResult carrying only the machine name.
func Create(ctx context.Context, sessionsByHost map[string]remote.Session, req CreateRequest, opts Options) <-chan Event {
	opts = opts.withDefaults()
	e := newEmitter(len(req.MachineNames))

	go func() {
		e.progress("Locating", "VMs")

		byHost := discoverMachines(ctx, sessionsByHost, req.MachineNames, opts, e)

		found := 0
		for _, items := range byHost {
			found += len(items)
		}
		if found > 0 {
			e.progress("Creating", fmt.Sprintf("Found %d", found))
		}

		hosts := make([]string, 0, len(byHost))
		for host := range byHost {
			hosts = append(hosts, host)
		}
		sort.Strings(hosts)

		description := AnnotateCreator(req.Description, req.User)

		for _, host := range hosts {
			e.progress("Creating", host)

			for _, chunk := range chunks(byHost[host], opts.BatchSize) {
				e.progress("Batch", fmt.Sprintf("%d VMs", len(chunk)))

				var active []started[createItem]
				for _, item := range chunk {
					callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
					task, err := item.machine.CreateSnapshot(callCtx, req.SnapshotName, description, req.Memory)
					cancel()
					if err != nil {
						e.fail(fmt.Sprintf("Error creating snapshot for %s: %s", item.name, err))
						continue
					}
					active = append(active, started[createItem]{payload: item, task: task})
				}

				pollUntilTerminal(ctx, active, opts,
					func(ctx context.Context, item createItem) {
						e.completed++
						e.result(locateCreated(ctx, item, req.SnapshotName, opts))
						e.progress("Created", fmt.Sprintf("%.1f%%", float64(e.completed)/float64(e.total)*100))
					},
					func(item createItem, msg string) {
						e.fail(fmt.Sprintf("Failed: %s: %s", item.name, msg))
					},
					func(item createItem, pct int) {
						e.progress("Working", fmt.Sprintf("%s (%d%%)", item.name, pct))
					},
				)
			}
		}

		details := fmt.Sprintf("%d done", e.completed)
		if len(e.failures) > 0 {
			details += fmt.Sprintf(", %d failed", len(e.failures))
		}
		e.finish(details)
	}()

	return e.ch
}

// discoverMachines resolves each requested name to a live machine, grouped
// by session host. Names that resolve nowhere are recorded as failures.
func discoverMachines(ctx context.Context, sessionsByHost map[string]remote.Session, names []string, opts Options, e *emitter) map[string][]createItem {
	hosts := make([]string, 0, len(sessionsByHost))
	for host := range sessionsByHost {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	// One machine listing per session for the whole batch.
	inventory := make(map[string][]remote.Machine, len(hosts))
	for _, host := range hosts {
		callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
		machines, err := sessionsByHost[host].Machines(callCtx)
		cancel()
		if err != nil {
			opts.Logger.Warn(ctx, "machine listing failed during discovery", "host", host, "error", err)
			continue
		}
		inventory[host] = machines
	}

	byHost := make(map[string][]createItem)
	for i, name := range names {
		e.progressAt(i, len(names), "Finding", name)

		found := false
		for _, host := range hosts {
			for _, machine := range inventory[host] {
				if strings.EqualFold(machine.Name(), name) {
					byHost[host] = append(byHost[host], createItem{name: name, host: host, machine: machine})
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			e.fail(fmt.Sprintf("Server not found: %s", name))
		}
	}
	return byHost
}

// locateCreated searches the machine's snapshot tree for the snapshot the
// finished task produced: same name, created today. Falls back to a
// DegradedResult when the re-read fails or nothing matches.
func locateCreated(ctx context.Context, item createItem, snapshotName string, opts Options) Result {
	callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
	roots, err := item.machine.Snapshots(callCtx)
	cancel()
	if err != nil {
		opts.Logger.Warn(ctx, "could not re-read snapshots after create", "machine", item.name, "error", err)
		return DegradedResult{MachineName: item.name}
	}

	now := time.Now()
	for _, snapshot := range flattenSnapshots(roots) {
		if snapshot.Name() == snapshotName && sameDay(snapshot.Created(), now) {
			return FullResult{
				MachineName: item.machine.Name(),
				Server:      item.host,
				Name:        snapshot.Name(),
				Created:     snapshot.Created(),
				CreatedBy:   ExtractCreator(snapshot.Description()),
				Description: snapshot.Description(),
				HasChildren: len(snapshot.Children()) > 0,
				IsChild:     snapshot.Parent() != nil,
				Machine:     item.machine,
				Snapshot:    snapshot,
			}
		}
	}
	return DegradedResult{MachineName: item.name}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
