// Integration tests for JSONL persistence. The JSONL files are the source
// of truth: the SQLite database is disposable and is rebuilt from them on
// every attach.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/satchel/pkg/types"
)

func TestJSONLFileCreation(t *testing.T) {
	backend, dataDir := newAttachedBackend(t)
	defer backend.Detach()

	for _, file := range []string{"pages.jsonl", "tasks.jsonl", "projects.jsonl", "tags.jsonl", "links.jsonl"} {
		_, err := os.Stat(filepath.Join(dataDir, file))
		assert.NoError(t, err, "%s must exist after attach", file)
	}

	_, err := os.Stat(filepath.Join(dataDir, "notebook.db"))
	assert.NoError(t, err, "notebook.db must exist after attach")
}

func TestJSONLWrittenOnMutation(t *testing.T) {
	backend, dataDir := newAttachedBackend(t)
	defer backend.Detach()

	tasks, err := backend.GetTable(types.TableTasks)
	require.NoError(t, err)

	for _, summary := range []string{"Buy milk", "Call plumber", "File taxes"} {
		_, err := tasks.Set("", &types.Task{Summary: summary})
		require.NoError(t, err)
	}

	lines := readJSONLLines(t, filepath.Join(dataDir, "tasks.jsonl"))
	require.Len(t, lines, 3, "tasks.jsonl must have 3 lines")
	assert.Equal(t, "Buy milk", lines[0]["summary"])
	assert.Equal(t, "inbox", lines[0]["state"])
}

func TestDatabaseIsDisposable(t *testing.T) {
	backend, dataDir := newAttachedBackend(t)

	tasks, err := backend.GetTable(types.TableTasks)
	require.NoError(t, err)
	id, err := tasks.Set("", &types.Task{Summary: "Survives the database"})
	require.NoError(t, err)

	require.NoError(t, backend.Detach())

	// Remove the SQLite file entirely; the JSONL files must carry the data.
	require.NoError(t, os.Remove(filepath.Join(dataDir, "notebook.db")))

	fresh := reattach(t, backend, dataDir)
	defer fresh.Detach()

	tasks, err = fresh.GetTable(types.TableTasks)
	require.NoError(t, err)
	entity, err := tasks.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Survives the database", entity.(*types.Task).Summary)
}

func TestHandEditedJSONLLoads(t *testing.T) {
	backend, dataDir := newAttachedBackend(t)
	require.NoError(t, backend.Detach())

	// Simulate an external edit, e.g. a git merge adding a task line.
	line := `{"task_id":"0195a3c1-0000-7000-8000-000000000001","summary":"Merged from another machine","state":"next","priority":0,"created_at":"2026-08-01T10:00:00Z","updated_at":"2026-08-01T10:00:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "tasks.jsonl"), []byte(line), 0o644))

	fresh := reattach(t, backend, dataDir)
	defer fresh.Detach()

	tasks, err := fresh.GetTable(types.TableTasks)
	require.NoError(t, err)
	entity, err := tasks.Get("0195a3c1-0000-7000-8000-000000000001")
	require.NoError(t, err)
	task := entity.(*types.Task)
	assert.Equal(t, "Merged from another machine", task.Summary)
	assert.Equal(t, types.TaskStateNext, task.State)
}

func TestMalformedJSONLLinesSkipped(t *testing.T) {
	backend, dataDir := newAttachedBackend(t)
	require.NoError(t, backend.Detach())

	content := `{"task_id":"0195a3c1-0000-7000-8000-00000000000a","summary":"Good line","state":"inbox","created_at":"2026-08-01T10:00:00Z","updated_at":"2026-08-01T10:00:00Z"}` + "\n" +
		"{not json\n" +
		`{"task_id":"0195a3c1-0000-7000-8000-00000000000b","summary":"Also good","state":"inbox","created_at":"2026-08-01T11:00:00Z","updated_at":"2026-08-01T11:00:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "tasks.jsonl"), []byte(content), 0o644))

	fresh := reattach(t, backend, dataDir)
	defer fresh.Detach()

	tasks, err := fresh.GetTable(types.TableTasks)
	require.NoError(t, err)
	results, err := tasks.Fetch(types.Filter{})
	require.NoError(t, err)
	assert.Len(t, results, 2, "malformed line must be skipped, good lines kept")
}
