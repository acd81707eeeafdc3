package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteEmitsOneResultPerSnapshot(t *testing.T) {
	items := []DeleteItem{
		{MachineName: "vm1", SnapshotName: "old", Snapshot: &fakeSnapshot{name: "old"}},
		{MachineName: "vm2", SnapshotName: "stale", Snapshot: &fakeSnapshot{name: "stale"}},
	}

	d := drain(Delete(context.Background(), items, fastOptions()))

	require.Len(t, d.results, 2)
	deleted, ok := d.results[0].(DeletedResult)
	require.True(t, ok)
	assert.Equal(t, "vm1", deleted.MachineName)
	assert.Equal(t, "old", deleted.SnapshotName)

	require.Len(t, d.completes, 1)
	assert.Equal(t, 2, d.completes[0].Completed)
	assert.Zero(t, d.completes[0].Failed)
	assert.Empty(t, d.failures)
}

func TestDeletePartialFailure(t *testing.T) {
	items := []DeleteItem{
		{MachineName: "vm1", SnapshotName: "a", Snapshot: &fakeSnapshot{name: "a"}},
		{MachineName: "vm2", SnapshotName: "b", Snapshot: &fakeSnapshot{name: "b", deleteErr: assert.AnError}},
		{MachineName: "vm3", SnapshotName: "c", Snapshot: &fakeSnapshot{name: "c", deleteTask: errorTask("file locked")}},
	}

	d := drain(Delete(context.Background(), items, fastOptions()))

	require.Len(t, d.results, 1)
	require.Len(t, d.failures, 1)
	assert.Contains(t, d.failures[0].Message, "Error starting deletion of b")
	assert.Contains(t, d.failures[0].Message, "Failed to delete c: file locked")

	require.Len(t, d.completes, 1)
	assert.Equal(t, 1, d.completes[0].Completed)
	assert.Equal(t, 2, d.completes[0].Failed)
}

func TestDeleteRespectsBatchSize(t *testing.T) {
	var items []DeleteItem
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, DeleteItem{MachineName: name, SnapshotName: name, Snapshot: &fakeSnapshot{name: name}})
	}

	opts := fastOptions()
	opts.BatchSize = 3

	d := drain(Delete(context.Background(), items, opts))

	require.Len(t, d.results, 7)
	require.Len(t, d.completes, 1)
	assert.Equal(t, 7, d.completes[0].Completed)
}
