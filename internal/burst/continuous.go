package burst

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/fsrace/writeburst/internal/config"
	"github.com/fsrace/writeburst/internal/logging"
)

// ContinuousContention trades the barrier's precision for self-sustaining
// pressure: independent churn workers cycle artifacts through the
// compact→expanded transition with no coordination at all, while a syncer
// periodically forces a blocking whole-filesystem flush. Overlap comes from
// volume and thread count rather than rendezvous.
type ContinuousContention struct{}

// Name implements Strategy.
func (*ContinuousContention) Name() string { return config.StrategyContinuous }

// Run spawns the syncer and the configured churn workers, then joins them.
func (*ContinuousContention) Run(ctx *Context) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		newSyncer(ctx).run()
	}()

	for id := 0; id < ctx.Cfg.ChurnWorkers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			newChurnWorker(ctx, id).run()
		}(id)
	}

	wg.Wait()
}

// churnErrorBackoff throttles a churn worker whose iterations keep failing.
const churnErrorBackoff = 100 * time.Millisecond

// churnWorker is the uncoordinated producer variant: create, mutate, delete,
// forever. Each worker owns one path, so workers never contend on the same
// inode. The contention they generate is against the writeback machinery,
// not each other.
type churnWorker struct {
	ctx  *Context
	id   int
	path string
	log  *logging.Logger
}

func newChurnWorker(ctx *Context, id int) *churnWorker {
	return &churnWorker{
		ctx:  ctx,
		id:   id,
		path: filepath.Join(ctx.Cfg.TargetDir, fmt.Sprintf("wb-churn%d", id)),
		log:  ctx.Log.WithRole("churn").With("worker_id", id),
	}
}

func (w *churnWorker) run() {
	runtime.LockOSThread()
	// Syncer takes CPU 0; churn workers fill in behind it.
	if err := w.ctx.Caps.PinThread(1 + w.id); err != nil {
		w.log.Debug("thread pin failed", "error", err.Error())
	}

	w.log.Info("churn worker started", "path", w.path)

	for w.ctx.Running() {
		if err := w.churnOnce(); err != nil {
			// Same taxonomy as the producer: log, skip, keep going. The
			// backoff keeps a persistent failure (target directory gone)
			// from spinning a pinned core on log spam.
			w.log.Warn("churn iteration failed", "error", err.Error())
			if !w.ctx.sleep(churnErrorBackoff) {
				break
			}
			continue
		}
		w.ctx.AddOperations(1)
	}

	_ = os.Remove(w.path)
	w.log.Info("churn worker stopped")
}

// churnOnce runs one full artifact lifecycle: create compact, reopen,
// expand, delete. The reopen matters: it forces a fresh descriptor the
// way the conversion path sees one, instead of reusing write state.
func (w *churnWorker) churnOnce() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if _, err := f.Write(w.ctx.Compact); err != nil {
		f.Close()
		return fmt.Errorf("compact write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	f, err = os.OpenFile(w.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("reopen: %w", err)
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := f.Write(w.ctx.Expanded); err != nil {
		f.Close()
		return fmt.Errorf("expanded write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close expanded: %w", err)
	}

	if err := os.Remove(w.path); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// syncer issues a blocking whole-filesystem flush at a fixed interval.
// Unlike the coordinator's per-file hint this waits for completion; the
// continuous strategy accepts the coarser timing in exchange for not
// needing a rendezvous.
type syncer struct {
	ctx      *Context
	interval time.Duration
	log      *logging.Logger
}

func newSyncer(ctx *Context) *syncer {
	return &syncer{
		ctx:      ctx,
		interval: ctx.Cfg.SyncInterval(),
		log:      ctx.Log.WithRole("syncer"),
	}
}

func (s *syncer) run() {
	runtime.LockOSThread()
	if err := s.ctx.Caps.PinThread(0); err != nil {
		s.log.Debug("thread pin failed", "error", err.Error())
	}

	dir, err := os.Open(s.ctx.Cfg.TargetDir)
	if err != nil {
		// Without a directory handle there is nothing to flush against;
		// the churn workers still run, so degrade rather than abort.
		s.log.Error("open target dir failed, syncer idle", "error", err.Error())
		for s.ctx.Running() {
			s.ctx.sleep(s.interval)
		}
		return
	}
	defer dir.Close()

	s.log.Info("syncer started", "interval", s.interval.String())

	for s.ctx.sleep(s.interval) {
		if err := s.ctx.Caps.SyncFilesystem(dir); err != nil {
			s.log.Debug("filesystem sync failed", "error", err.Error())
			continue
		}
		// Each completed flush round counts as one cycle for reporting.
		s.ctx.Barrier.CompleteCycle()
	}

	s.log.Info("syncer stopped")
}
