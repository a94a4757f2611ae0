package burst

import (
	"sync/atomic"

	"github.com/fsrace/writeburst/internal/platform"
)

// Barrier is the shared phase state machine. Participants advance it by
// rendezvous: whichever participant's readiness increment completes the
// expected count resets the counter and stores the next phase in the same
// step, and everyone else spins until they observe the new phase.
//
// The barrier carries no generation counter. A participant descheduled for
// longer than a full cycle can in principle wake to a phase value it was
// not waiting for and proceed out of turn. The hazard is accepted: on this
// workload a skipped boundary costs one cycle's precision, and the cure (a
// wider rendezvous word) would put more work on the hot path.
//
// Every wait loop polls the stop flag, so cancellation unblocks all
// participants within one poll interval. There are no timeouts: a missed
// rendezvous stalls until the operator stops the run.
type Barrier struct {
	phase  atomic.Uint32
	ready  atomic.Uint32
	cycles atomic.Uint64

	stop *atomic.Bool
}

// NewBarrier creates a Barrier in PhaseProduce wired to the given stop flag.
func NewBarrier(stop *atomic.Bool) *Barrier {
	b := &Barrier{stop: stop}
	b.phase.Store(uint32(PhaseProduce))
	return b
}

// Phase returns the current phase.
func (b *Barrier) Phase() Phase {
	return Phase(b.phase.Load())
}

// Ready returns the current readiness count. It is only ever in
// [0, expected] for the phase being gathered.
func (b *Barrier) Ready() uint32 {
	return b.ready.Load()
}

// Advance moves the barrier to the given phase without a rendezvous. Only
// the role that solely owns the current boundary may call it: the
// coordinator for Produce→Trigger→Race, the producer for Cleanup→Produce.
func (b *Barrier) Advance(next Phase) {
	b.phase.Store(uint32(next))
}

// SignalReady records this participant's readiness without waiting.
// Used by the producer, whose completion the coordinator polls with
// AwaitReady rather than joining the rendezvous itself.
func (b *Barrier) SignalReady() {
	b.ready.Add(1)
}

// SignalAndWait atomically increments the readiness count. The participant
// whose increment reaches expected resets the count to zero, advances the
// phase to next, and returns true: it is the transitioner for this
// boundary. All others spin until the phase observably equals next or the
// run is stopped, and return false.
func (b *Barrier) SignalAndWait(next Phase, expected uint32) bool {
	if b.ready.Add(1) == expected {
		b.ready.Store(0)
		b.phase.Store(uint32(next))
		return true
	}
	b.WaitFor(next)
	return false
}

// WaitFor spins until the phase equals want. Returns false if the run was
// stopped first.
func (b *Barrier) WaitFor(want Phase) bool {
	for i := uint(0); Phase(b.phase.Load()) != want; i++ {
		if b.stop.Load() {
			return false
		}
		platform.Yield(i)
	}
	return true
}

// WaitWhile spins for as long as the phase equals current. Returns false if
// the run was stopped first.
func (b *Barrier) WaitWhile(current Phase) bool {
	for i := uint(0); Phase(b.phase.Load()) == current; i++ {
		if b.stop.Load() {
			return false
		}
		platform.Yield(i)
	}
	return true
}

// AwaitReady spins until the barrier sits in phase want with at least min
// participants signalled ready. Returns false if the run was stopped first.
func (b *Barrier) AwaitReady(want Phase, min uint32) bool {
	for i := uint(0); ; i++ {
		if Phase(b.phase.Load()) == want && b.ready.Load() >= min {
			return true
		}
		if b.stop.Load() {
			return false
		}
		platform.Yield(i)
	}
}

// ResetReady clears the readiness count. The sole boundary owner calls it
// when advancing without a rendezvous.
func (b *Barrier) ResetReady() {
	b.ready.Store(0)
}

// CompleteCycle increments and returns the completed-cycle counter.
func (b *Barrier) CompleteCycle() uint64 {
	return b.cycles.Add(1)
}

// Cycles returns the number of completed cycles.
func (b *Barrier) Cycles() uint64 {
	return b.cycles.Load()
}
