package burst

import (
	"runtime"

	"github.com/fsrace/writeburst/internal/logging"
)

// coordinator drives the phase cycle. It owns the Produce→Trigger and
// Trigger→Race boundaries and, critically, issues the non-blocking flush
// hint between them: the hint must go out while the batch is still compact
// and must return before any racer mutates, so the mutation runs
// concurrently with the in-flight writeback instead of after it.
type coordinator struct {
	ctx *Context
	log *logging.Logger
}

func newCoordinator(ctx *Context) *coordinator {
	return &coordinator{ctx: ctx, log: ctx.Log.WithRole("coordinator")}
}

func (c *coordinator) run() {
	runtime.LockOSThread()
	if err := c.ctx.Caps.PinThread(cpuCoordinator); err != nil {
		c.log.Debug("thread pin failed", "cpu", cpuCoordinator, "error", err.Error())
	}

	b := c.ctx.Barrier
	c.log.Info("coordinator started",
		"racers", c.ctx.Cfg.RacerCount,
		"artifacts", len(c.ctx.Artifacts))

	for c.ctx.Running() {
		// Wait for the producer to finish accumulating the batch.
		if !b.AwaitReady(PhaseProduce, 1) {
			break
		}
		b.ResetReady()
		b.Advance(PhaseTrigger)

		// Start writeback on the whole batch. Hint errors are ignored on
		// the hot path: a file that will not flush simply does not
		// contribute to this cycle's race probability.
		for i := range c.ctx.Artifacts {
			if f := c.ctx.Artifacts[i].File; f != nil {
				_ = c.ctx.Caps.FlushHint(f)
			}
		}

		// Release the racers immediately. This boundary is the entire
		// point of the tool: conversion now overlaps the flush.
		b.Advance(PhaseRace)

		if !b.WaitWhile(PhaseRace) {
			break
		}

		cycles := b.CompleteCycle()
		if cycles%100 == 0 {
			c.log.Debug("cycle complete", "cycles", cycles, "operations", c.ctx.Operations())
		}
	}

	c.log.Info("coordinator stopped", "cycles", b.Cycles())
}
