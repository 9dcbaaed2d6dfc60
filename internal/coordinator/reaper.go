package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Reaper periodically expires stale presence entries.
// It is only useful when the coordinator has a PresenceTTL; without one every
// sweep is a no-op.
type Reaper struct {
	ctx      context.Context    // Internal cancellation
	cancel   context.CancelFunc // Cancels ctx on Stop
	sweep    func() int         // Removes stale entries, returns count
	log      *slog.Logger
	done     chan struct{}  // Closed when the sweep loop exits
	wg       sync.WaitGroup // Tracks the sweep loop
	interval time.Duration  // Time between sweeps
}

// NewReaper creates a reaper that calls c.ExpireStale every interval.
//
// Example:
//
//	reaper := NewReaper(c, 30*time.Second, log)
//	reaper.Start(ctx)
//	defer reaper.Stop()
func NewReaper(c *Coordinator, interval time.Duration, log *slog.Logger) *Reaper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reaper{
		ctx:      ctx,
		cancel:   cancel,
		sweep:    c.ExpireStale,
		log:      log,
		done:     make(chan struct{}),
		interval: interval,
	}
}

// Start launches the sweep loop, which runs on every tick until ctx or the
// reaper itself is canceled. Call it at most once.
func (r *Reaper) Start(ctx context.Context) {
	if ctx == nil {
		ctx = r.ctx
	}
	r.wg.Add(1)
	go r.run(ctx)
}

func (r *Reaper) run(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("presence reaper started", "interval", r.interval)

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-ctx.Done():
			r.log.Info("presence reaper stopping", "reason", "context canceled")
			return
		case <-r.ctx.Done():
			r.log.Info("presence reaper stopping", "reason", "stopped")
			return
		}
	}
}

// Done is closed once the sweep loop has exited.
func (r *Reaper) Done() <-chan struct{} {
	return r.done
}

// Sweep runs one expiry pass immediately and returns how many entries it
// removed.
func (r *Reaper) Sweep() int {
	removed := r.sweep()
	if removed > 0 {
		r.log.Info("expired stale presence entries", "removed", removed)
	}
	return removed
}

// Stop cancels the reaper and waits for Start to return.
func (r *Reaper) Stop() {
	r.cancel()
	r.wg.Wait()
}
