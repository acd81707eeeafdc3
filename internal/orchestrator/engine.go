package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akarpov87/vsnap/internal/logging"
	"github.com/akarpov87/vsnap/internal/remote"
)

// Options configure a worker. Zero values fall back to the defaults used by
// the original tool: 5 outstanding tasks per session, 500ms poll interval,
// 10s per remote call, 30m wall-clock budget per chunk.
type Options struct {
	BatchSize    int
	PollInterval time.Duration
	CallTimeout  time.Duration
	PollBudget   time.Duration
	Logger       logging.Logger
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 5
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 500 * time.Millisecond
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 10 * time.Second
	}
	if o.PollBudget <= 0 {
		o.PollBudget = 30 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	return o
}

// emitter tracks batch state and pushes events to the caller. It is only
// ever used from the single worker goroutine.
type emitter struct {
	ch        chan Event
	batchID   string
	total     int
	completed int
	failures  []string
}

func newEmitter(total int) *emitter {
	return &emitter{
		ch:      make(chan Event, 16),
		batchID: uuid.NewString(),
		total:   total,
	}
}

func (e *emitter) progress(operation, details string) {
	e.progressAt(e.completed, e.total, operation, details)
}

// progressAt reports against an explicit scale, for phases that track a
// different denominator than the batch itself (e.g. machines within one
// session).
func (e *emitter) progressAt(completed, total int, operation, details string) {
	e.ch <- Progress{
		Completed: completed,
		Total:     total,
		Message:   FormatProgress(completed, total, operation, details),
	}
}

func (e *emitter) result(r Result) {
	e.ch <- ResultEvent{Result: r}
}

func (e *emitter) fail(msg string) {
	e.failures = append(e.failures, msg)
}

// finish emits the aggregated failure report (if any), the final progress
// line, exactly one Complete event, and closes the channel.
func (e *emitter) finish(details string) {
	if len(e.failures) > 0 {
		e.ch <- Failure{Message: strings.Join(e.failures, "\n")}
	}
	e.progressAt(e.total, e.total, "Complete", details)
	e.ch <- Complete{BatchID: e.batchID, Completed: e.completed, Failed: len(e.failures)}
	close(e.ch)
}

// started pairs a live remote task with the work item it belongs to.
type started[T any] struct {
	payload T
	task    remote.Task
}

// pollUntilTerminal cooperatively polls every task in a chunk until each
// reaches a terminal state. Within a chunk, completion order across items
// is unspecified. A transport error while polling fails the item; a task
// still pending when the wall-clock budget expires, or when ctx is
// cancelled, is surfaced as a failure rather than hanging forever.
func pollUntilTerminal[T any](
	ctx context.Context,
	tasks []started[T],
	opts Options,
	onSuccess func(context.Context, T),
	onFailure func(T, string),
	onPending func(T, int),
) {
	deadline := time.Now().Add(opts.PollBudget)
	active := tasks

	for len(active) > 0 {
		if time.Now().After(deadline) {
			for _, st := range active {
				onFailure(st.payload, "task did not finish within the poll budget")
			}
			return
		}

		remaining := active[:0]
		for _, st := range active {
			callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
			status, err := st.task.Poll(callCtx)
			cancel()

			if err != nil {
				onFailure(st.payload, err.Error())
				continue
			}

			if !status.Terminal() {
				if onPending != nil {
					onPending(st.payload, status.Progress)
				}
				remaining = append(remaining, st)
				continue
			}
			if status.State == remote.TaskSuccess {
				onSuccess(ctx, st.payload)
			} else {
				onFailure(st.payload, status.Message)
			}
		}
		active = remaining

		if len(active) == 0 {
			return
		}

		select {
		case <-ctx.Done():
			for _, st := range active {
				onFailure(st.payload, "cancelled")
			}
			return
		case <-time.After(opts.PollInterval):
		}
	}
}

// chunks splits items into consecutive groups of at most size.
func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for size > 0 && len(items) > 0 {
		n := size
		if n > len(items) {
			n = len(items)
		}
		out = append(out, items[:n])
		items = items[n:]
	}
	return out
}

// flattenSnapshots walks a snapshot tree depth-first, parents before
// children.
func flattenSnapshots(snapshots []remote.Snapshot) []remote.Snapshot {
	var result []remote.Snapshot
	for _, snapshot := range snapshots {
		result = append(result, snapshot)
		result = append(result, flattenSnapshots(snapshot.Children())...)
	}
	return result
}
