package orchestrator

import (
	"context"
	"fmt"

	"github.com/akarpov87/vsnap/internal/remote"
)

// DeleteItem identifies one snapshot to remove. The live Snapshot reference
// comes from an earlier fetch or create result.
type DeleteItem struct {
	MachineName  string
	SnapshotName string
	Snapshot     remote.Snapshot
}

// Delete removes the given snapshots, children kept. Tasks are started in
// chunks of BatchSize and each chunk is polled to quiescence before the
// next starts. One DeletedResult is emitted per removed snapshot.
func Delete(ctx context.Context, items []DeleteItem, opts Options) <-chan Event {
	opts = opts.withDefaults()
	e := newEmitter(len(items))

	go func() {
		for _, chunk := range chunks(items, opts.BatchSize) {
			var active []started[DeleteItem]
			for _, item := range chunk {
				e.progress("Deleting", item.MachineName)

				callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
				task, err := item.Snapshot.Delete(callCtx)
				cancel()
				if err != nil {
					e.fail(fmt.Sprintf("Error starting deletion of %s: %s", item.SnapshotName, err))
					continue
				}
				active = append(active, started[DeleteItem]{payload: item, task: task})
			}

			pollUntilTerminal(ctx, active, opts,
				func(_ context.Context, item DeleteItem) {
					e.completed++
					e.result(DeletedResult{MachineName: item.MachineName, SnapshotName: item.SnapshotName})
				},
				func(item DeleteItem, msg string) {
					e.fail(fmt.Sprintf("Failed to delete %s: %s", item.SnapshotName, msg))
				},
				func(item DeleteItem, pct int) {
					e.progress("Deleting", fmt.Sprintf("%s (%d%%)", item.MachineName, pct))
				},
			)
		}
		e.finish("All deleted")
	}()

	return e.ch
}
