package burst

import (
	"fmt"
	"sync"

	"github.com/fsrace/writeburst/internal/config"
)

// Strategy is one interchangeable way of provoking the flush/conversion
// overlap. Run starts the strategy's worker roles and blocks until the
// context is stopped and every role has exited.
type Strategy interface {
	Name() string
	Run(ctx *Context)
}

// ForName returns the strategy registered under the given name.
func ForName(name string) (Strategy, error) {
	switch name {
	case config.StrategyBarrier:
		return &BarrierSynchronized{}, nil
	case config.StrategyContinuous:
		return &ContinuousContention{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// BarrierSynchronized rendezvouses all roles at each phase boundary,
// maximizing overlap precision between the flush hint and the conversions.
type BarrierSynchronized struct{}

// Name implements Strategy.
func (*BarrierSynchronized) Name() string { return config.StrategyBarrier }

// Run spawns the coordinator, the producer and the configured racers, then
// joins them. Goroutine creation cannot fail, so every configured role
// starts; degradation only happens per file, inside the roles.
func (*BarrierSynchronized) Run(ctx *Context) {
	var wg sync.WaitGroup
	p := newProducer(ctx)

	wg.Add(2)
	go func() {
		defer wg.Done()
		newCoordinator(ctx).run()
	}()
	go func() {
		defer wg.Done()
		p.run()
	}()

	for id := 0; id < ctx.Cfg.RacerCount; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			newRacer(ctx, id).run()
		}(id)
	}

	wg.Wait()

	// Only after every racer has exited is the artifact table safe to
	// mutate again. Leave nothing open or on disk behind a stopped run.
	p.cleanupBatch()
}
