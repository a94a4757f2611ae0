package burst

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "produce", PhaseProduce.String())
	assert.Equal(t, "trigger", PhaseTrigger.String())
	assert.Equal(t, "race", PhaseRace.String())
	assert.Equal(t, "cleanup", PhaseCleanup.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

func TestPhase_Next_IsCyclic(t *testing.T) {
	p := PhaseProduce
	want := []Phase{PhaseTrigger, PhaseRace, PhaseCleanup, PhaseProduce}
	for _, w := range want {
		p = p.Next()
		assert.Equal(t, w, p)
	}
}

func TestBarrier_StartsInProduce(t *testing.T) {
	var stop atomic.Bool
	b := NewBarrier(&stop)
	assert.Equal(t, PhaseProduce, b.Phase())
	assert.Equal(t, uint32(0), b.Ready())
	assert.Equal(t, uint64(0), b.Cycles())
}

func TestBarrier_SignalAndWait_SingleParticipant(t *testing.T) {
	var stop atomic.Bool
	b := NewBarrier(&stop)

	transitioned := b.SignalAndWait(PhaseTrigger, 1)
	assert.True(t, transitioned, "sole participant must be the transitioner")
	assert.Equal(t, PhaseTrigger, b.Phase())
	assert.Equal(t, uint32(0), b.Ready(), "ready must reset with the advance")
}

func TestBarrier_SignalAndWait_ExactlyOneTransitioner(t *testing.T) {
	const participants = 8

	var stop atomic.Bool
	b := NewBarrier(&stop)

	var transitions atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < participants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.SignalAndWait(PhaseTrigger, participants) {
				transitions.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), transitions.Load(), "exactly one participant performs the advance")
	assert.Equal(t, PhaseTrigger, b.Phase())
	assert.Equal(t, uint32(0), b.Ready())
}

func TestBarrier_ReadyNeverExceedsExpected(t *testing.T) {
	const participants = 6

	var stop atomic.Bool
	b := NewBarrier(&stop)

	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < participants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-release
			b.SignalAndWait(PhaseTrigger, participants)
		}()
	}

	// Sample the counter while the rendezvous gathers.
	observer := make(chan struct{})
	var maxSeen atomic.Uint32
	go func() {
		defer close(observer)
		for b.Phase() != PhaseTrigger {
			if r := b.Ready(); r > maxSeen.Load() {
				maxSeen.Store(r)
			}
		}
	}()

	close(release)
	wg.Wait()
	<-observer

	assert.LessOrEqual(t, maxSeen.Load(), uint32(participants))
	assert.Equal(t, uint32(0), b.Ready())
}

func TestBarrier_WaitFor_CancelledByStop(t *testing.T) {
	var stop atomic.Bool
	b := NewBarrier(&stop)

	done := make(chan bool, 1)
	go func() {
		// PhaseRace never arrives; only the stop flag can release this.
		done <- b.WaitFor(PhaseRace)
	}()

	time.Sleep(10 * time.Millisecond)
	stop.Store(true)

	select {
	case ok := <-done:
		assert.False(t, ok, "a cancelled wait must report failure")
	case <-time.After(5 * time.Second):
		t.Fatal("WaitFor did not observe the stop flag")
	}
}

func TestBarrier_WaitWhile_CancelledByStop(t *testing.T) {
	var stop atomic.Bool
	b := NewBarrier(&stop)

	done := make(chan bool, 1)
	go func() {
		done <- b.WaitWhile(PhaseProduce)
	}()

	stop.Store(true)
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("WaitWhile did not observe the stop flag")
	}
}

func TestBarrier_AwaitReady(t *testing.T) {
	var stop atomic.Bool
	b := NewBarrier(&stop)

	done := make(chan bool, 1)
	go func() {
		done <- b.AwaitReady(PhaseProduce, 1)
	}()

	b.SignalReady()
	select {
	case ok := <-done:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("AwaitReady did not observe readiness")
	}
}

// TestBarrier_FullCycleOrder drives one complete cycle single-threaded,
// asserting the strict Produce → Trigger → Race → Cleanup → Produce order
// with no skipped or revisited phase.
func TestBarrier_FullCycleOrder(t *testing.T) {
	var stop atomic.Bool
	b := NewBarrier(&stop)

	require.Equal(t, PhaseProduce, b.Phase())

	// Producer signals batch completion; coordinator consumes it.
	b.SignalReady()
	require.True(t, b.AwaitReady(PhaseProduce, 1))
	b.ResetReady()
	b.Advance(PhaseTrigger)
	require.Equal(t, PhaseTrigger, b.Phase())

	// Coordinator releases the racers.
	b.Advance(PhaseRace)
	require.Equal(t, PhaseRace, b.Phase())

	// The sole racer finishes and performs the rendezvous advance.
	require.True(t, b.SignalAndWait(PhaseCleanup, 1))
	require.Equal(t, PhaseCleanup, b.Phase())

	// Producer tears down and restarts the cycle.
	b.ResetReady()
	b.Advance(PhaseProduce)
	require.Equal(t, PhaseProduce, b.Phase())

	assert.Equal(t, uint64(1), b.CompleteCycle())
	assert.Equal(t, uint64(1), b.Cycles())
}
