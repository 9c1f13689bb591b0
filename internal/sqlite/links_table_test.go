// Unit tests for the links table accessor.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/satchel/pkg/types"
)

func TestLinksSet(t *testing.T) {
	tests := []struct {
		name    string
		link    *types.Link
		wantErr error
	}{
		{
			name: "refers_to link",
			link: &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "page-a", ToID: "page-b"},
		},
		{
			name: "belongs_to link",
			link: &types.Link{LinkType: types.LinkTypeBelongsTo, FromID: "task-1", ToID: "project-1"},
		},
		{
			name:    "unknown link type rejected",
			link:    &types.Link{LinkType: "mentions", FromID: "a", ToID: "b"},
			wantErr: types.ErrInvalidData,
		},
		{
			name:    "empty from rejected",
			link:    &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "", ToID: "b"},
			wantErr: types.ErrInvalidData,
		},
		{
			name:    "empty to rejected",
			link:    &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "a", ToID: ""},
			wantErr: types.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			links, err := b.GetTable(types.TableLinks)
			require.NoError(t, err)

			id, err := links.Set("", tt.link)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			entity, err := links.Get(id)
			require.NoError(t, err)
			got := entity.(*types.Link)
			assert.Equal(t, tt.link.LinkType, got.LinkType)
			assert.Equal(t, tt.link.FromID, got.FromID)
			assert.Equal(t, tt.link.ToID, got.ToID)
		})
	}
}

func TestLinksEdgeUniqueness(t *testing.T) {
	b := setupBackend(t)
	links, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)

	first, err := links.Set("", &types.Link{LinkType: types.LinkTypeTaggedWith, FromID: "task-1", ToID: "tag-1"})
	require.NoError(t, err)

	// Setting the same edge again returns the existing ID.
	second, err := links.Set("", &types.Link{LinkType: types.LinkTypeTaggedWith, FromID: "task-1", ToID: "tag-1"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	results, err := links.Fetch(nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// A different edge type between the same entities is a separate link.
	third, err := links.Set("", &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "task-1", ToID: "tag-1"})
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestLinksDelete(t *testing.T) {
	b := setupBackend(t)
	links, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)

	id, err := links.Set("", &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "a", ToID: "b"})
	require.NoError(t, err)

	require.NoError(t, links.Delete(id))
	_, err = links.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, links.Delete(id), types.ErrNotFound)
}

func TestLinksFetch(t *testing.T) {
	b := setupBackend(t)
	links, err := b.GetTable(types.TableLinks)
	require.NoError(t, err)

	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "page-1", ToID: "page-2"})
	require.NoError(t, err)
	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeRefersTo, FromID: "page-1", ToID: "page-3"})
	require.NoError(t, err)
	_, err = links.Set("", &types.Link{LinkType: types.LinkTypeBelongsTo, FromID: "task-1", ToID: "project-1"})
	require.NoError(t, err)

	t.Run("filter by link type", func(t *testing.T) {
		results, err := links.Fetch(types.Filter{"link_type": types.LinkTypeRefersTo})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("filter by from and type", func(t *testing.T) {
		results, err := links.Fetch(types.Filter{
			"link_type": types.LinkTypeRefersTo,
			"from_id":   "page-1",
			"to_id":     "page-3",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "page-3", results[0].(*types.Link).ToID)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		results, err := links.Fetch(types.Filter{"from_id": "nobody"})
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}
