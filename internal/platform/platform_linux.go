//go:build linux

package platform

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

type nativeCaps struct{}

// PinThread binds the current OS thread to CPU index modulo NumCPU.
// Deterministic role-to-CPU mapping keeps the flush and the mutation on
// genuinely concurrent cores instead of letting the scheduler serialize
// them.
func (nativeCaps) PinThread(index int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(index % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}

// FlushHint starts writeback for the whole file without waiting for it.
// SYNC_FILE_RANGE_WRITE queues the dirty pages and returns immediately,
// which is the property the race depends on.
func (nativeCaps) FlushHint(f *os.File) error {
	return unix.SyncFileRange(int(f.Fd()), 0, 0, unix.SYNC_FILE_RANGE_WRITE)
}

// SyncFilesystem flushes the filesystem containing f and waits for it.
func (nativeCaps) SyncFilesystem(f *os.File) error {
	return unix.Syncfs(int(f.Fd()))
}

// MemPressure reads Dirty and Writeback from /proc/meminfo.
func (nativeCaps) MemPressure() (MemoryPressure, bool) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return MemoryPressure{}, false
	}
	return parseMeminfo(data)
}
