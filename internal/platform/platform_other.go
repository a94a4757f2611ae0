//go:build !linux

package platform

import "os"

type nativeCaps struct{}

// PinThread is a no-op where thread affinity is not exposed.
func (nativeCaps) PinThread(index int) error { return nil }

// FlushHint is a no-op: there is no portable non-blocking writeback hint,
// and a blocking Sync here would serialize away the race window the hint
// exists to open.
func (nativeCaps) FlushHint(f *os.File) error { return nil }

// SyncFilesystem falls back to syncing the single file.
func (nativeCaps) SyncFilesystem(f *os.File) error { return f.Sync() }

// MemPressure is unavailable off Linux.
func (nativeCaps) MemPressure() (MemoryPressure, bool) { return MemoryPressure{}, false }
