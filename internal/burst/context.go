package burst

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fsrace/writeburst/internal/config"
	"github.com/fsrace/writeburst/internal/logging"
	"github.com/fsrace/writeburst/internal/platform"
)

// Context carries all shared state for one run: the stop flag, the barrier,
// the artifact table, the payload buffers and the cumulative counters.
// It is passed by reference into every role entry point; nothing in the
// core is a package-level singleton.
type Context struct {
	RunID uuid.UUID
	Log   *logging.Logger
	Caps  platform.Caps
	Cfg   config.BurstConfig

	Barrier   *Barrier
	Artifacts []Artifact
	Compact   []byte
	Expanded  []byte

	startedAt time.Time
	stop      atomic.Bool
	ops       atomic.Uint64
}

// NewContext builds a run context from validated configuration. The
// artifact table is sized for the barrier strategy; the continuous strategy
// ignores it and generates per-worker paths instead.
func NewContext(cfg config.BurstConfig, log *logging.Logger, caps platform.Caps) *Context {
	runID := uuid.New()
	ctx := &Context{
		RunID:     runID,
		Log:       log.WithRun(runID.String()).WithStrategy(cfg.Strategy),
		Caps:      caps,
		Cfg:       cfg,
		Artifacts: NewArtifactTable(cfg.TargetDir, cfg.ArtifactCount),
		Compact:   CompactPayload(),
		Expanded:  ExpandedPayload(),
		startedAt: time.Now(),
	}
	ctx.Barrier = NewBarrier(&ctx.stop)
	return ctx
}

// Running reports whether the run is still live. Every spin and sleep point
// in every role polls this.
func (c *Context) Running() bool {
	return !c.stop.Load()
}

// Stop requests cancellation. All roles reach a blocking-free exit path
// within one poll interval; Stop itself does not wait for them.
func (c *Context) Stop() {
	c.stop.Store(true)
}

// AddOperations adds n completed conversion operations to the run total.
func (c *Context) AddOperations(n uint64) {
	c.ops.Add(n)
}

// Operations returns the cumulative conversion count.
func (c *Context) Operations() uint64 {
	return c.ops.Load()
}

// StartedAt returns the run start time.
func (c *Context) StartedAt() time.Time {
	return c.startedAt
}

// Elapsed returns time since the run started.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.startedAt)
}

// stopPollInterval bounds how long any sleeping role can outlive a stop
// request.
const stopPollInterval = 25 * time.Millisecond

// sleep blocks for d while polling the stop flag. It returns true if the
// full duration elapsed and false if the run was stopped first.
func (c *Context) sleep(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for c.Running() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		if remaining > stopPollInterval {
			remaining = stopPollInterval
		}
		time.Sleep(remaining)
	}
	return false
}
