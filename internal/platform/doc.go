// Package platform isolates the OS-specific capabilities the racing engine
// depends on: pinning the current thread to a CPU, issuing a non-blocking
// writeback hint for a single file, forcing a blocking whole-filesystem
// flush, and sampling memory-pressure counters.
//
// The engine only sees the [Caps] interface, so the synchronization core
// stays portable and testable. [Native] returns the real implementation for
// the build target; on non-Linux targets the flush hint degrades to a no-op
// and pressure sampling reports unavailable, which keeps the tool runnable
// (if toothless) everywhere.
package platform
