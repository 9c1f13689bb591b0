// Unit tests for the tags table accessor.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/satchel/pkg/types"
)

func TestTagsSet(t *testing.T) {
	tests := []struct {
		name     string
		tagName  string
		wantErr  error
		wantName string
	}{
		{
			name:     "plain name",
			tagName:  "garden",
			wantName: "garden",
		},
		{
			name:     "at-prefix stripped and lowercased",
			tagName:  "@Garden",
			wantName: "garden",
		},
		{
			name:     "underscores and digits allowed",
			tagName:  "deep_work2",
			wantName: "deep_work2",
		},
		{
			name:    "empty name rejected",
			tagName: "",
			wantErr: types.ErrInvalidTag,
		},
		{
			name:    "spaces rejected",
			tagName: "deep work",
			wantErr: types.ErrInvalidTag,
		},
		{
			name:    "existing built-in rejected",
			tagName: "waiting",
			wantErr: types.ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			tags, err := b.GetTable(types.TableTags)
			require.NoError(t, err)

			id, err := tags.Set("", &types.Tag{Name: tt.tagName})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			entity, err := tags.Get(id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, entity.(*types.Tag).Name)
		})
	}
}

func TestTagsDeleteCascadesLinks(t *testing.T) {
	b := setupBackend(t)
	tags, err := b.GetTable(types.TableTags)
	require.NoError(t, err)
	tasks, err := b.GetTable(types.TableTasks)
	require.NoError(t, err)
	links, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)

	tagID, err := tags.Set("", &types.Tag{Name: "library"})
	require.NoError(t, err)
	taskID, err := tasks.Set("", &types.Task{Summary: "Return books"})
	require.NoError(t, err)
	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeTaggedWith, FromID: taskID, ToID: tagID})
	require.NoError(t, err)

	require.NoError(t, tags.Delete(tagID))

	_, err = tags.Get(tagID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	results, err := links.Fetch(types.Filter{"to_id": tagID})
	require.NoError(t, err)
	assert.Empty(t, results)

	// The task itself is untouched.
	_, err = tasks.Get(taskID)
	assert.NoError(t, err)
}

func TestTagsFetch(t *testing.T) {
	b := setupBackend(t)
	tags, err := b.GetTable(types.TableTags)
	require.NoError(t, err)

	t.Run("built-in tags present in name order", func(t *testing.T) {
		results, err := tags.Fetch(nil)
		require.NoError(t, err)
		require.Len(t, results, len(builtinTags))
		var names []string
		for _, r := range results {
			names = append(names, r.(*types.Tag).Name)
		}
		assert.Equal(t, []string{"errand", "home", "phone", "waiting", "work"}, names)
	})

	t.Run("name filter normalizes the query", func(t *testing.T) {
		results, err := tags.Fetch(types.Filter{"name": "@Home"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "home", results[0].(*types.Tag).Name)
	})

	t.Run("unknown name returns empty slice", func(t *testing.T) {
		results, err := tags.Fetch(types.Filter{"name": "zettelkasten"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
