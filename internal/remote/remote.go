// Package remote defines the hypervisor management capability consumed by
// the orchestrator. The actual protocol client (connection, authentication,
// task polling primitives) is an external collaborator; this package only
// fixes the shape vsnap depends on. Tests use in-memory fakes.
package remote

import (
	"context"
	"time"
)

// Connector opens sessions against a management server.
type Connector interface {
	// Connect authenticates against host and returns a live session.
	// Implementations must honor ctx for timeout and cancellation.
	Connect(ctx context.Context, host, user, password string, verifyCert bool) (Session, error)
}

// Session is a live, authenticated connection to one management server.
type Session interface {
	// Host returns the server this session is connected to.
	Host() string

	// Machines enumerates the virtual machines visible to the session.
	Machines(ctx context.Context) ([]Machine, error)

	// Disconnect tears the session down.
	Disconnect(ctx context.Context) error
}

// Machine is a managed virtual machine reference.
type Machine interface {
	// Name returns the machine's display name.
	Name() string

	// Snapshots returns the machine's root snapshots; children hang off
	// each Snapshot.
	Snapshots(ctx context.Context) ([]Snapshot, error)

	// CreateSnapshot starts snapshot creation and returns the pollable
	// task handle.
	CreateSnapshot(ctx context.Context, name, description string, memory bool) (Task, error)
}

// Snapshot is a node in a machine's snapshot tree.
type Snapshot interface {
	Name() string
	Description() string
	Created() time.Time

	// Children returns direct child snapshots.
	Children() []Snapshot

	// Parent returns the parent snapshot, or nil at the root.
	Parent() Snapshot

	// Delete starts removal of this snapshot (children are kept) and
	// returns the pollable task handle.
	Delete(ctx context.Context) (Task, error)
}

// TaskState is the coarse state of a remote task.
type TaskState int

const (
	// TaskPending means the task is still running; Progress is valid.
	TaskPending TaskState = iota
	// TaskSuccess is the successful terminal state.
	TaskSuccess
	// TaskError is the failed terminal state; Message carries the reason.
	TaskError
)

// TaskStatus is one observation of a remote task.
type TaskStatus struct {
	State    TaskState
	Progress int    // percent complete, meaningful while pending
	Message  string // error description when State is TaskError
}

// Terminal reports whether the task has finished, either way.
func (s TaskStatus) Terminal() bool {
	return s.State == TaskSuccess || s.State == TaskError
}

// Task is a pollable handle to a long-running remote operation.
type Task interface {
	Poll(ctx context.Context) (TaskStatus, error)
}
