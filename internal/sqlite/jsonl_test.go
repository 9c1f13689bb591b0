// Unit tests for JSONL reading, atomic writing, and table persistence.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/satchel/pkg/types"
)

func TestReadJSONL(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "well-formed lines",
			content: `{"a":1}` + "\n" + `{"b":2}` + "\n",
			want:    2,
		},
		{
			name:    "empty file",
			content: "",
			want:    0,
		},
		{
			name:    "blank lines skipped",
			content: "\n\n" + `{"a":1}` + "\n\n",
			want:    1,
		},
		{
			name:    "malformed line skipped, rest loads",
			content: `{"a":1}` + "\n" + `{"broken` + "\n" + `{"b":2}` + "\n",
			want:    2,
		},
		{
			name:    "no trailing newline",
			content: `{"a":1}`,
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "records.jsonl")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			records, err := readJSONL(path)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
			for _, rec := range records {
				assert.True(t, json.Valid(rec))
			}
		})
	}

	t.Run("missing file returns error", func(t *testing.T) {
		_, err := readJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
		assert.Error(t, err)
	})
}

func TestWriteJSONL(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.jsonl")
		in := []json.RawMessage{
			json.RawMessage(`{"id":"1"}`),
			json.RawMessage(`{"id":"2"}`),
		}
		require.NoError(t, writeJSONL(path, in))

		out, err := readJSONL(path)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.JSONEq(t, `{"id":"1"}`, string(out[0]))
	})

	t.Run("empty records write an empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.jsonl")
		require.NoError(t, writeJSONL(path, nil))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})

	t.Run("overwrite replaces prior content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "replace.jsonl")
		require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"old":true}`)}))
		require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"new":true}`)}))

		records, err := readJSONL(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.JSONEq(t, `{"new":true}`, string(records[0]))
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, writeJSONL(filepath.Join(dir, "clean.jsonl"),
			[]json.RawMessage{json.RawMessage(`{"x":1}`)}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "clean.jsonl", entries[0].Name())
	})
}

func TestMutationsPersistToJSONL(t *testing.T) {
	b := setupBackend(t)
	pages, err := b.GetTable(types.TablePages)
	require.NoError(t, err)

	id, err := pages.Set("", &types.Page{Path: "Someday", Title: "Someday"})
	require.NoError(t, err)

	records, err := readJSONL(filepath.Join(b.DataDir(), "pages.jsonl"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	var row map[string]any
	require.NoError(t, json.Unmarshal(records[0], &row))
	assert.Equal(t, id, row["page_id"])
	assert.Equal(t, "Someday", row["path"])

	require.NoError(t, pages.Delete(id))
	records, err = readJSONL(filepath.Join(b.DataDir(), "pages.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
