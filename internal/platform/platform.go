package platform

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// MemoryPressure is a snapshot of the kernel's dirty-page accounting.
// Values are in bytes.
type MemoryPressure struct {
	// Dirty is memory waiting to be written back to disk.
	Dirty uint64
	// Writeback is memory actively being written back.
	Writeback uint64
}

// Caps is the set of OS capabilities the racing engine consumes. The
// methods are advisory: every implementation is allowed to do less than
// asked (a no-op flush hint, an ignored pin), never more.
type Caps interface {
	// PinThread binds the calling goroutine's OS thread to the logical CPU
	// with the given index, modulo the number of available CPUs. The caller
	// must have locked the goroutine to its thread first.
	PinThread(index int) error

	// FlushHint asks the kernel to start writing the file's dirty pages
	// without waiting for completion. The returned error is informational;
	// the engine ignores it on the hot path.
	FlushHint(f *os.File) error

	// SyncFilesystem blocks until the filesystem containing f is flushed.
	SyncFilesystem(f *os.File) error

	// MemPressure samples the system dirty/writeback byte counts.
	// ok is false when the information is unavailable on this platform.
	MemPressure() (p MemoryPressure, ok bool)
}

// Native returns the capability implementation for the build target.
func Native() Caps {
	return nativeCaps{}
}

// InstallStopHandler registers stop as the handler for SIGINT and SIGTERM.
// The handler runs at most once, on a dedicated goroutine; a second signal
// is ignored rather than re-entering the save path. The returned function
// uninstalls the handler.
func InstallStopHandler(stop func()) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	var once sync.Once
	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			once.Do(stop)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
