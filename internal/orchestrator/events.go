// Package orchestrator runs vsnap's bulk remote operations: snapshot fetch,
// creation and deletion, plus auto-connect to saved servers.
//
// Each worker runs on its own goroutine and communicates with the caller
// exclusively through a stream of events; no result is ever shared through
// mutable state. Per-item failures are accumulated and reported once as an
// aggregated Failure event after all items reach a terminal state, followed
// by exactly one Complete event, regardless of how many items failed.
package orchestrator

import (
	"time"

	"github.com/akarpov87/vsnap/internal/remote"
)

// Event is a notification emitted by a worker. The concrete types are
// Progress, ResultEvent, Failure and Complete.
type Event interface{ isEvent() }

// Progress reports batch advancement: how many items finished out of how
// many, plus a human-readable message built by FormatProgress.
type Progress struct {
	Completed int
	Total     int
	Message   string
}

// ResultEvent carries one per-item outcome.
type ResultEvent struct {
	Result Result
}

// Failure is the single aggregated error report for a batch: the
// newline-joined messages of every item that failed. Emitted at most once,
// right before Complete.
type Failure struct {
	Message string
}

// Complete is the terminal event of a batch, emitted exactly once even when
// items failed. The event channel is closed right after it.
type Complete struct {
	BatchID   string
	Completed int
	Failed    int
}

func (Progress) isEvent()    {}
func (ResultEvent) isEvent() {}
func (Failure) isEvent()     {}
func (Complete) isEvent()    {}

// Result is a per-item outcome. Callers must handle every concrete shape:
// FullResult, DegradedResult, DeletedResult and ConnectedResult.
type Result interface{ isResult() }

// FullResult describes a snapshot with complete metadata, suitable for
// caller-side caching without a re-fetch.
type FullResult struct {
	MachineName string
	Server      string
	Name        string
	Created     time.Time
	CreatedBy   string
	Description string
	HasChildren bool
	IsChild     bool

	// Live references for follow-up operations (e.g. deletion).
	Machine  remote.Machine
	Snapshot remote.Snapshot
}

// DegradedResult is emitted when a created snapshot could not be located
// afterwards; it carries only the original work-item identifier. Callers
// must handle it by re-fetching if they need full metadata.
type DegradedResult struct {
	MachineName string
}

// DeletedResult reports one successfully removed snapshot.
type DeletedResult struct {
	MachineName  string
	SnapshotName string
}

// ConnectedResult reports one server the auto-connect worker signed in to.
type ConnectedResult struct {
	Host     string
	Username string
}

func (FullResult) isResult()      {}
func (DegradedResult) isResult()  {}
func (DeletedResult) isResult()   {}
func (ConnectedResult) isResult() {}
