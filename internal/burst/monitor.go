package burst

import (
	"time"

	"github.com/fsrace/writeburst/internal/logging"
	"github.com/fsrace/writeburst/internal/platform"
	"github.com/fsrace/writeburst/internal/state"
)

// Progress is one heartbeat sample of the run's cumulative counters.
type Progress struct {
	Elapsed    time.Duration
	Cycles     uint64
	Operations uint64
	OpsPerSec  float64
	// Pressure is nil when the platform cannot report dirty/writeback
	// counters.
	Pressure *platform.MemoryPressure
}

// ProgressFunc receives each heartbeat sample. It runs on the monitor
// goroutine and must not block for long.
type ProgressFunc func(Progress)

// Monitor heartbeats the run's liveness into the crash-oracle state file
// and emits a progress sample per interval. It has no effect on the race
// itself; it exists so that a crash leaves evidence and a human can watch
// the rate.
type Monitor struct {
	ctx        *Context
	store      *state.Store
	interval   time.Duration
	onProgress ProgressFunc
	log        *logging.Logger
}

// NewMonitor creates a monitor writing to store every interval. onProgress
// may be nil.
func NewMonitor(ctx *Context, store *state.Store, interval time.Duration, onProgress ProgressFunc) *Monitor {
	return &Monitor{
		ctx:        ctx,
		store:      store,
		interval:   interval,
		onProgress: onProgress,
		log:        ctx.Log.WithRole("monitor"),
	}
}

// Run loops until the context is stopped. The final not-running record is
// not written here: stop handling owns that, so the last word about the
// run's liveness is always the stopper's.
func (m *Monitor) Run() {
	for m.ctx.sleep(m.interval) {
		m.beat()
	}
}

// beat samples counters, persists a running snapshot and reports progress.
func (m *Monitor) beat() {
	if err := m.store.Save(m.Snapshot("running", true)); err != nil {
		m.log.Warn("heartbeat save failed", "error", err.Error())
	}

	if m.onProgress == nil {
		return
	}

	elapsed := m.ctx.Elapsed()
	ops := m.ctx.Operations()
	sample := Progress{
		Elapsed:    elapsed,
		Cycles:     m.ctx.Barrier.Cycles(),
		Operations: ops,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		sample.OpsPerSec = float64(ops) / secs
	}
	if p, ok := m.ctx.Caps.MemPressure(); ok {
		sample.Pressure = &p
	}

	m.onProgress(sample)
}

// Snapshot assembles a state record for the current counters.
func (m *Monitor) Snapshot(status string, running bool) state.Snapshot {
	return state.Snapshot{
		RunID:      m.ctx.RunID,
		StartTime:  m.ctx.StartedAt(),
		LastUpdate: time.Now(),
		Cycles:     m.ctx.Barrier.Cycles(),
		Operations: m.ctx.Operations(),
		Running:    running,
		Status:     status,
	}
}
