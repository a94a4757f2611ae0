package burst

import (
	"io"
	"runtime"

	"github.com/fsrace/writeburst/internal/logging"
)

// racer expands its partition of the batch during the race window. The
// truncate + rewrite sequence forces the compact-to-expanded layout
// conversion that is meant to collide with the in-flight flush.
type racer struct {
	ctx    *Context
	id     int
	assign Assignment
	log    *logging.Logger
}

func newRacer(ctx *Context, id int) *racer {
	return &racer{
		ctx:    ctx,
		id:     id,
		assign: AssignmentFor(id, len(ctx.Artifacts), ctx.Cfg.RacerCount),
		log:    ctx.Log.WithRole("racer").With("racer_id", id),
	}
}

func (r *racer) run() {
	runtime.LockOSThread()
	cpu := cpuRacerBase + r.id
	if err := r.ctx.Caps.PinThread(cpu); err != nil {
		r.log.Debug("thread pin failed", "cpu", cpu, "error", err.Error())
	}

	b := r.ctx.Barrier
	racers := uint32(r.ctx.Cfg.RacerCount)
	r.log.Info("racer started", "start", r.assign.Start, "end", r.assign.End, "cpu", cpu)

	for r.ctx.Running() {
		if !b.WaitFor(PhaseRace) {
			break
		}

		failures := r.convertAssignment()
		r.ctx.AddOperations(uint64(r.assign.Len()))
		if failures > 0 {
			r.log.Debug("mutation failures", "count", failures)
		}

		// The last racer to finish performs the Race→Cleanup transition.
		b.SignalAndWait(PhaseCleanup, racers)

		if !b.WaitWhile(PhaseCleanup) {
			break
		}
	}

	r.log.Info("racer stopped")
}

// convertAssignment truncates and rewrites every open artifact in range.
// Failures are counted and skipped; stalling the partition is worse than
// losing one artifact's contribution.
func (r *racer) convertAssignment() int {
	failures := 0
	for i := r.assign.Start; i < r.assign.End; i++ {
		f := r.ctx.Artifacts[i].File
		if f == nil {
			continue
		}
		if err := f.Truncate(0); err != nil {
			failures++
			continue
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			failures++
			continue
		}
		if _, err := f.Write(r.ctx.Expanded); err != nil {
			failures++
		}
	}
	return failures
}
