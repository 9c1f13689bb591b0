// Package integration provides backend integration tests for satchel.
package integration

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-tools/satchel/internal/sqlite"
	"github.com/inkwell-tools/satchel/pkg/types"
)

// newAttachedBackend creates a backend attached to a fresh temp data dir.
func newAttachedBackend(t *testing.T) (*sqlite.Backend, string) {
	t.Helper()
	dataDir := t.TempDir()
	backend := sqlite.NewBackend()
	err := backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir})
	require.NoError(t, err, "Attach must succeed")
	return backend, dataDir
}

// reattach detaches the backend and attaches a fresh one over the same
// data directory, simulating a process restart.
func reattach(t *testing.T, backend *sqlite.Backend, dataDir string) *sqlite.Backend {
	t.Helper()
	require.NoError(t, backend.Detach())
	fresh := sqlite.NewBackend()
	err := fresh.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir})
	require.NoError(t, err, "re-attach must succeed")
	return fresh
}

// readJSONLLines returns each non-empty line of a JSONL file parsed as a map.
func readJSONLLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "open JSONL file")
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record), "parse JSONL line")
		lines = append(lines, record)
	}
	require.NoError(t, scanner.Err())
	return lines
}
