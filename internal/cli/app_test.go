package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/vsnap/internal/orchestrator"
)

func TestConsumeCollectsInventory(t *testing.T) {
	ch := make(chan orchestrator.Event, 8)
	ch <- orchestrator.Progress{Message: "Processing: web01 (1/1)"}
	ch <- orchestrator.ResultEvent{Result: orchestrator.FullResult{
		MachineName: "web01",
		Name:        "baseline",
		Created:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		CreatedBy:   "jdoe",
	}}
	ch <- orchestrator.Complete{BatchID: "b1", Completed: 1}
	close(ch)

	var out bytes.Buffer
	app := &App{out: &out}
	app.consume(ch, true)

	require.Len(t, app.inventory, 1)
	assert.Equal(t, "baseline", app.inventory[0].Name)
	assert.Contains(t, out.String(), "Processing: web01 (1/1)")
	assert.Contains(t, out.String(), "Done: 1 succeeded, 0 failed")
	assert.Contains(t, out.String(), "web01")
	assert.Contains(t, out.String(), "by jdoe")
}

func TestConsumeReportsFailures(t *testing.T) {
	ch := make(chan orchestrator.Event, 4)
	ch <- orchestrator.Failure{Message: "Server not found: vm3\nFailed: vm5: timeout"}
	ch <- orchestrator.Complete{BatchID: "b2", Completed: 3, Failed: 2}
	close(ch)

	var out bytes.Buffer
	app := &App{out: &out}
	app.consume(ch, false)

	assert.Contains(t, out.String(), "Server not found: vm3")
	assert.Contains(t, out.String(), "Failed: vm5: timeout")
	assert.Contains(t, out.String(), "Done: 3 succeeded, 2 failed")
	assert.Nil(t, app.inventory)
}
