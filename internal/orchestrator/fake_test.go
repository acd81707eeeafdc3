package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/akarpov87/vsnap/internal/remote"
)

// fakeTask replays a scripted sequence of statuses, repeating the last one.
type fakeTask struct {
	mu       sync.Mutex
	statuses []remote.TaskStatus
	err      error
}

func successTask() *fakeTask {
	return &fakeTask{statuses: []remote.TaskStatus{{State: remote.TaskSuccess}}}
}

func errorTask(msg string) *fakeTask {
	return &fakeTask{statuses: []remote.TaskStatus{{State: remote.TaskError, Message: msg}}}
}

func (t *fakeTask) Poll(ctx context.Context) (remote.TaskStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return remote.TaskStatus{}, t.err
	}
	status := t.statuses[0]
	if len(t.statuses) > 1 {
		t.statuses = t.statuses[1:]
	}
	return status, nil
}

type fakeSnapshot struct {
	name        string
	description string
	created     time.Time
	children    []*fakeSnapshot
	parent      *fakeSnapshot
	deleteTask  *fakeTask
	deleteErr   error
}

func (s *fakeSnapshot) Name() string        { return s.name }
func (s *fakeSnapshot) Description() string { return s.description }
func (s *fakeSnapshot) Created() time.Time  { return s.created }

func (s *fakeSnapshot) Children() []remote.Snapshot {
	out := make([]remote.Snapshot, 0, len(s.children))
	for _, c := range s.children {
		c.parent = s
		out = append(out, c)
	}
	return out
}

func (s *fakeSnapshot) Parent() remote.Snapshot {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

func (s *fakeSnapshot) Delete(ctx context.Context) (remote.Task, error) {
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	if s.deleteTask != nil {
		return s.deleteTask, nil
	}
	return successTask(), nil
}

type fakeMachine struct {
	mu        sync.Mutex
	name      string
	snapshots []*fakeSnapshot
	snapErr   error

	createTask *fakeTask
	createErr  error
	// materialize makes CreateSnapshot append the snapshot so a later
	// Snapshots call can find it.
	materialize bool
}

func (m *fakeMachine) Name() string { return m.name }

func (m *fakeMachine) Snapshots(ctx context.Context) ([]remote.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapErr != nil {
		return nil, m.snapErr
	}
	out := make([]remote.Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	return out, nil
}

func (m *fakeMachine) CreateSnapshot(ctx context.Context, name, description string, memory bool) (remote.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.materialize {
		m.snapshots = append(m.snapshots, &fakeSnapshot{
			name:        name,
			description: description,
			created:     time.Now(),
		})
	}
	if m.createTask != nil {
		return m.createTask, nil
	}
	return successTask(), nil
}

type fakeSession struct {
	host        string
	machines    []*fakeMachine
	machinesErr error
}

func (s *fakeSession) Host() string { return s.host }

func (s *fakeSession) Machines(ctx context.Context) ([]remote.Machine, error) {
	if s.machinesErr != nil {
		return nil, s.machinesErr
	}
	out := make([]remote.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeSession) Disconnect(ctx context.Context) error { return nil }

type fakeConnector struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession
	errs     map[string]error
	attempts []string
}

func (c *fakeConnector) Connect(ctx context.Context, host, user, password string, verifyCert bool) (remote.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts = append(c.attempts, host)
	if err := c.errs[host]; err != nil {
		return nil, err
	}
	return c.sessions[host], nil
}

// fastOptions keeps test batches snappy.
func fastOptions() Options {
	return Options{
		PollInterval: time.Millisecond,
		CallTimeout:  time.Second,
		PollBudget:   5 * time.Second,
	}
}

// drain collects everything a worker emits, split by event kind.
type drained struct {
	progress  []Progress
	results   []Result
	failures  []Failure
	completes []Complete
}

func drain(ch <-chan Event) drained {
	var d drained
	for ev := range ch {
		switch ev := ev.(type) {
		case Progress:
			d.progress = append(d.progress, ev)
		case ResultEvent:
			d.results = append(d.results, ev.Result)
		case Failure:
			d.failures = append(d.failures, ev)
		case Complete:
			d.completes = append(d.completes, ev)
		}
	}
	return d
}
