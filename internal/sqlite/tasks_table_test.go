// Unit tests for the tasks table accessor.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/satchel/pkg/types"
)

func tasksTableOf(t *testing.T, b *Backend) types.Table {
	t.Helper()
	table, err := b.GetTable(types.TableTasks)
	require.NoError(t, err)
	return table
}

func TestTasksSet(t *testing.T) {
	tests := []struct {
		name      string
		task      *types.Task
		wantErr   error
		wantState string
	}{
		{
			name:      "new task defaults to inbox",
			task:      &types.Task{Summary: "Call dentist"},
			wantState: types.TaskStateInbox,
		},
		{
			name:      "explicit state preserved",
			task:      &types.Task{Summary: "Water plants", State: types.TaskStateNext},
			wantState: types.TaskStateNext,
		},
		{
			name:    "empty summary rejected",
			task:    &types.Task{Summary: ""},
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "invalid state rejected",
			task:    &types.Task{Summary: "Bad state", State: "paused"},
			wantErr: types.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			table := tasksTableOf(t, b)

			id, err := table.Set("", tt.task)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			entity, err := table.Get(id)
			require.NoError(t, err)
			got := entity.(*types.Task)
			assert.Equal(t, tt.task.Summary, got.Summary)
			assert.Equal(t, tt.wantState, got.State)
		})
	}
}

func TestTasksPriorityClamped(t *testing.T) {
	b := setupBackend(t)
	table := tasksTableOf(t, b)

	id, err := table.Set("", &types.Task{Summary: "call !!!! urgent", Priority: 4})
	require.NoError(t, err)
	entity, err := table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.MaxPriority, entity.(*types.Task).Priority)

	id, err = table.Set("", &types.Task{Summary: "negative", Priority: -2})
	require.NoError(t, err)
	entity, err = table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, entity.(*types.Task).Priority)
}

func TestTasksDueRoundTrip(t *testing.T) {
	b := setupBackend(t)
	table := tasksTableOf(t, b)

	due := time.Date(2026, 9, 15, 17, 0, 0, 0, time.UTC)
	id, err := table.Set("", &types.Task{
		Summary:  "File taxes",
		State:    types.TaskStateScheduled,
		Due:      &due,
		Priority: 2,
	})
	require.NoError(t, err)

	entity, err := table.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Task)
	require.NotNil(t, got.Due)
	assert.True(t, got.Due.Equal(due))
	assert.Equal(t, 2, got.Priority)
	assert.Nil(t, got.DoneAt)
}

func TestTasksLifecycle(t *testing.T) {
	b := setupBackend(t)
	table := tasksTableOf(t, b)

	id, err := table.Set("", &types.Task{Summary: "Fix bike"})
	require.NoError(t, err)

	entity, err := table.Get(id)
	require.NoError(t, err)
	task := entity.(*types.Task)

	require.NoError(t, task.Clarify(types.TaskStateNext))
	_, err = table.Set(id, task)
	require.NoError(t, err)

	require.NoError(t, task.Done())
	_, err = table.Set(id, task)
	require.NoError(t, err)

	entity, err = table.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Task)
	assert.Equal(t, types.TaskStateDone, got.State)
	require.NotNil(t, got.DoneAt)
}

func TestTasksDelete(t *testing.T) {
	b := setupBackend(t)
	tasks := tasksTableOf(t, b)
	links, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)

	id, err := tasks.Set("", &types.Task{Summary: "Short-lived"})
	require.NoError(t, err)
	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeTaggedWith, FromID: id, ToID: "some-tag"})
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(id))

	_, err = tasks.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)

	results, err := links.Fetch(types.Filter{"from_id": id})
	require.NoError(t, err)
	assert.Empty(t, results, "task links should cascade")

	assert.ErrorIs(t, tasks.Delete(id), types.ErrNotFound)
}

func TestTasksFetch(t *testing.T) {
	b := setupBackend(t)
	tasks := tasksTableOf(t, b)
	links, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)
	tags, err := b.GetTable(types.TableTags)
	require.NoError(t, err)
	projects, err := b.GetTable(types.TableProjects)
	require.NoError(t, err)

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(30 * 24 * time.Hour)

	inboxID, err := tasks.Set("", &types.Task{Summary: "Sort inbox item"})
	require.NoError(t, err)
	nextID, err := tasks.Set("", &types.Task{Summary: "Urgent errand", State: types.TaskStateNext, Due: &soon, Priority: 1})
	require.NoError(t, err)
	schedID, err := tasks.Set("", &types.Task{Summary: "Renew passport", State: types.TaskStateScheduled, Due: &later})
	require.NoError(t, err)
	_, err = tasks.Set("", &types.Task{Summary: "Old chore", State: types.TaskStateDone})
	require.NoError(t, err)

	projectID, err := projects.Set("", &types.Project{Name: "Paperwork"})
	require.NoError(t, err)
	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeBelongsTo, FromID: schedID, ToID: projectID})
	require.NoError(t, err)

	tagResults, err := tags.Fetch(types.Filter{"name": "errand"})
	require.NoError(t, err)
	require.Len(t, tagResults, 1)
	errandTag := tagResults[0].(*types.Tag)
	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeTaggedWith, FromID: nextID, ToID: errandTag.TagID})
	require.NoError(t, err)

	t.Run("states filter", func(t *testing.T) {
		results, err := tasks.Fetch(types.Filter{"states": []string{types.TaskStateInbox}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, inboxID, results[0].(*types.Task).TaskID)
	})

	t.Run("due tasks sort before undated", func(t *testing.T) {
		results, err := tasks.Fetch(nil)
		require.NoError(t, err)
		require.Len(t, results, 4)
		assert.Equal(t, nextID, results[0].(*types.Task).TaskID)
		assert.Equal(t, schedID, results[1].(*types.Task).TaskID)
	})

	t.Run("project membership filter", func(t *testing.T) {
		results, err := tasks.Fetch(types.Filter{"project_id": projectID})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, schedID, results[0].(*types.Task).TaskID)
	})

	t.Run("tag filter normalizes the name", func(t *testing.T) {
		results, err := tasks.Fetch(types.Filter{"tag": "@Errand"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, nextID, results[0].(*types.Task).TaskID)
	})

	t.Run("due_before filter", func(t *testing.T) {
		cutoff := time.Now().Add(48 * time.Hour)
		results, err := tasks.Fetch(types.Filter{"due_before": cutoff})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, nextID, results[0].(*types.Task).TaskID)
	})

	t.Run("combined states and tag filter", func(t *testing.T) {
		results, err := tasks.Fetch(types.Filter{
			"states": []string{types.TaskStateNext, types.TaskStateWaiting},
			"tag":    "errand",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		results, err := tasks.Fetch(types.Filter{"states": []string{types.TaskStateWaiting}})
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("invalid states filter type rejected", func(t *testing.T) {
		_, err := tasks.Fetch(types.Filter{"states": "next"})
		assert.ErrorIs(t, err, types.ErrInvalidFilter)
	})
}
