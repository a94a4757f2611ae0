package burst

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Payload sizes bracketing the inline-data threshold (~156 bytes on
// 256-byte inodes). Compact stays comfortably inside; expanded is past it,
// forcing the layout conversion.
const (
	CompactSize  = 140
	ExpandedSize = 200
)

// artifactPattern matches artifact file names in the target directory,
// covering both the barrier strategy's batch files and the continuous
// strategy's churn files.
const artifactPattern = "wb*"

// Artifact is one tracked file in the current batch. File is non-nil only
// while the artifact is open; a failed create leaves it nil and the slot is
// skipped for the rest of the cycle.
//
// Ownership follows the phase machine: the producer owns every slot during
// Produce and Cleanup, exactly one racer owns it during Race. No lock.
type Artifact struct {
	Path string
	File *os.File
}

// NewArtifactTable precomputes the artifact paths for a batch of n files in
// dir. Paths are fixed for the life of the run; only the File fields churn.
func NewArtifactTable(dir string, n int) []Artifact {
	table := make([]Artifact, n)
	for i := range table {
		table[i] = Artifact{Path: filepath.Join(dir, fmt.Sprintf("wb%d", i))}
	}
	return table
}

// CompactPayload returns the write buffer for the compact content class.
func CompactPayload() []byte {
	buf := make([]byte, CompactSize)
	for i := range buf {
		buf[i] = 'A'
	}
	return buf
}

// ExpandedPayload returns the write buffer for the expanded content class.
func ExpandedPayload() []byte {
	buf := make([]byte, ExpandedSize)
	for i := range buf {
		buf[i] = 'B'
	}
	return buf
}

// SweepStale removes files in dir matching the artifact name pattern.
// A previous run that crashed the host leaves its batch behind; sweeping
// before the first cycle keeps leftover expanded files from polluting the
// new batch's layout state. Returns the number of files removed.
func SweepStale(dir string) (int, error) {
	matcher := glob.MustCompile(artifactPattern)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read target directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !matcher.Match(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
