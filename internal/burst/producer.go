package burst

import (
	"os"
	"runtime"

	"github.com/fsrace/writeburst/internal/logging"
)

// Role-to-CPU mapping for the barrier strategy. Fixed and deterministic so
// the targeted kernel work lands on genuinely concurrent cores.
const (
	cpuCoordinator = 0
	cpuProducer    = 1
	cpuRacerBase   = 2
)

// producer creates each cycle's compact batch and tears it down again.
type producer struct {
	ctx *Context
	log *logging.Logger
}

func newProducer(ctx *Context) *producer {
	return &producer{ctx: ctx, log: ctx.Log.WithRole("producer")}
}

// run is the producer's cycle loop. It owns the artifact table during
// Produce and Cleanup and is the sole boundary owner for Cleanup→Produce.
func (p *producer) run() {
	runtime.LockOSThread()
	if err := p.ctx.Caps.PinThread(cpuProducer); err != nil {
		p.log.Debug("thread pin failed", "cpu", cpuProducer, "error", err.Error())
	}

	b := p.ctx.Barrier
	p.log.Info("producer started", "artifacts", len(p.ctx.Artifacts))

	for p.ctx.Running() {
		p.produceBatch()
		b.SignalReady()

		// The phase cannot leave Cleanup without this role, so waiting for
		// Cleanup directly is safe even if Race passes unobserved.
		if !b.WaitFor(PhaseCleanup) {
			break
		}

		p.cleanupBatch()
		b.ResetReady()
		b.Advance(PhaseProduce)
	}

	// No teardown here: a stop can land while racers are still mid
	// conversion, and the batch must not be mutated under them. The
	// strategy tears the batch down once every role has exited.
	p.log.Info("producer stopped")
}

// produceBatch creates every artifact with compact content, keeping the
// descriptors open for the racers. Per-artifact failures are logged and
// skipped: a missing artifact shrinks this cycle's batch, it never aborts
// the cycle.
func (p *producer) produceBatch() {
	created := 0
	for i := range p.ctx.Artifacts {
		if !p.ctx.Running() {
			return
		}
		a := &p.ctx.Artifacts[i]

		f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
		if err != nil {
			p.log.Warn("artifact create failed", "path", a.Path, "error", err.Error())
			a.File = nil
			continue
		}
		if _, err := f.Write(p.ctx.Compact); err != nil {
			p.log.Warn("artifact write failed", "path", a.Path, "error", err.Error())
		}
		a.File = f
		created++
	}
	p.log.Debug("batch produced", "created", created, "requested", len(p.ctx.Artifacts))
}

// cleanupBatch closes and removes the whole batch. It is idempotent: a
// second pass over an already-removed batch does nothing and reports no
// error.
func (p *producer) cleanupBatch() {
	for i := range p.ctx.Artifacts {
		a := &p.ctx.Artifacts[i]
		if a.File != nil {
			_ = a.File.Close()
			a.File = nil
		}
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			p.log.Debug("artifact remove failed", "path", a.Path, "error", err.Error())
		}
	}
}
