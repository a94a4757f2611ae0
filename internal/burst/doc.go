// Package burst implements the synchronization core of writeburst: the
// phased barrier, the worker roles, and the two interchangeable racing
// strategies built from them.
//
// The target is a kernel-side race between a data-layout conversion
// (truncating a small file and rewriting it past the inline threshold) and
// the asynchronous writeback of that same file's dirty pages. Either
// operation alone is boring; the window in which both are in flight on
// different cores is narrow. Everything in this package exists to widen the
// effective width of that window by lining up many conversions immediately
// behind a freshly issued, non-blocking flush.
//
// # Roles
//
//   - Coordinator: drives the phase cycle and issues the flush hint.
//   - Producer: creates a batch of compact artifacts, later tears it down.
//   - Racer: expands its partition of the batch during the race window.
//   - Monitor: heartbeats counters into the crash-oracle state file.
//
// The barrier strategy rendezvouses all roles at each phase boundary for
// precise overlap. The continuous strategy replaces coordination with
// sustained pressure: independent churn workers and a periodic blocking
// sync. Both satisfy [Strategy].
//
// All cross-role state lives in an explicit [Context] value; there are no
// package-level singletons. The barrier's atomics are the only
// synchronization primitive in the core: the artifact table needs no lock
// because exactly one role owns it in any given phase.
package burst
