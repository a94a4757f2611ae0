package burst

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifactTable(t *testing.T) {
	table := NewArtifactTable("/mnt/x", 3)
	require.Len(t, table, 3)
	assert.Equal(t, "/mnt/x/wb0", table[0].Path)
	assert.Equal(t, "/mnt/x/wb2", table[2].Path)
	for _, a := range table {
		assert.Nil(t, a.File)
	}
}

func TestPayloads(t *testing.T) {
	compact := CompactPayload()
	expanded := ExpandedPayload()

	require.Len(t, compact, CompactSize)
	require.Len(t, expanded, ExpandedSize)
	assert.Less(t, CompactSize, ExpandedSize, "compact must sit under the threshold expanded crosses")

	for _, b := range compact {
		require.Equal(t, byte('A'), b)
	}
	for _, b := range expanded {
		require.Equal(t, byte('B'), b)
	}
}

func TestSweepStale(t *testing.T) {
	dir := t.TempDir()

	// Leftovers from a "crashed" run, plus files that must survive.
	for _, name := range []string{"wb0", "wb17", "wb-churn3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keepme.txt"), []byte("keep"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "wbdir"), 0755))

	removed, err := SweepStale(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"keepme.txt", "wbdir"}, names)
}

func TestSweepStale_MissingDir(t *testing.T) {
	_, err := SweepStale(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
