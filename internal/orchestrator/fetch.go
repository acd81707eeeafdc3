package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/akarpov87/vsnap/internal/remote"
)

// Fetch enumerates every snapshot on every machine reachable through the
// given sessions. One FullResult is emitted per snapshot, parents before
// children. A session that fails mid-walk is recorded as a single failure
// and the remaining sessions are still processed.
//
// The returned channel delivers Progress, ResultEvent, an optional
// aggregated Failure, and exactly one Complete, then closes.
func Fetch(ctx context.Context, sessionsByHost map[string]remote.Session, opts Options) <-chan Event {
	opts = opts.withDefaults()
	e := newEmitter(len(sessionsByHost))

	hosts := make([]string, 0, len(sessionsByHost))
	for host := range sessionsByHost {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	go func() {
		for _, host := range hosts {
			e.progress("Connecting", host)

			if err := fetchSession(ctx, host, sessionsByHost[host], opts, e); err != nil {
				opts.Logger.Error(ctx, "snapshot fetch failed", "host", host, "error", err)
				e.fail(fmt.Sprintf("Error processing %s: %s", host, err))
				continue
			}
			e.completed++
		}
		e.finish("Snapshots retrieved")
	}()

	return e.ch
}

func fetchSession(ctx context.Context, host string, session remote.Session, opts Options, e *emitter) error {
	callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
	machines, err := session.Machines(callCtx)
	cancel()
	if err != nil {
		return err
	}

	// Only machines that actually carry snapshots count toward the
	// per-session progress scale.
	type machineSnapshots struct {
		machine remote.Machine
		roots   []remote.Snapshot
	}
	var withSnapshots []machineSnapshots
	for _, machine := range machines {
		callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
		roots, err := machine.Snapshots(callCtx)
		cancel()
		if err != nil {
			return err
		}
		if len(roots) > 0 {
			withSnapshots = append(withSnapshots, machineSnapshots{machine, roots})
		}
	}

	for i, ms := range withSnapshots {
		e.progressAt(i+1, len(withSnapshots), "Processing", ms.machine.Name())

		for _, snapshot := range flattenSnapshots(ms.roots) {
			e.result(FullResult{
				MachineName: ms.machine.Name(),
				Server:      host,
				Name:        snapshot.Name(),
				Created:     snapshot.Created(),
				CreatedBy:   ExtractCreator(snapshot.Description()),
				Description: snapshot.Description(),
				HasChildren: len(snapshot.Children()) > 0,
				IsChild:     snapshot.Parent() != nil,
				Machine:     ms.machine,
				Snapshot:    snapshot,
			})
		}
	}
	return nil
}
