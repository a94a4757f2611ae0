package platform

import (
	"runtime"
	"time"
)

// Spin tuning. The first window of iterations busy-spins for microsecond
// wakeups; after that the waiter starts yielding its thread, and under
// sustained contention it backs off to a brief sleep so a stalled rendezvous
// does not burn a core forever.
const (
	spinYieldEvery = 64
	spinSleepAfter = 1 << 14
	spinSleepFor   = 50 * time.Microsecond
)

// Yield is the capability-bounded spin hint used inside barrier wait loops.
// The caller passes its iteration count; Yield decides whether to keep
// spinning hot, yield the processor, or sleep briefly. It makes no
// assumption about any particular pause instruction being available.
func Yield(iteration uint) {
	switch {
	case iteration >= spinSleepAfter:
		time.Sleep(spinSleepFor)
	case iteration%spinYieldEvery == spinYieldEvery-1:
		runtime.Gosched()
	}
}
