package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/logger"
	redisstore "github.com/MrSnakeDoc/jobboard/internal/store/redis"
)

// Repairer is implemented by stores that keep a secondary index next to their documents.
type Repairer interface {
	Repair(ctx context.Context) (redisstore.RepairReport, error)
}

// IndexRepairer periodically reconciles the Redis updated_at index with the stored documents.
type IndexRepairer struct {
	store    Repairer
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewIndexRepairer(store Repairer, log logger.Logger, interval time.Duration) *IndexRepairer {
	return &IndexRepairer{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval until Stop or ctx is done.
func (r *IndexRepairer) Start(ctx context.Context) error {
	if err := r.Run(ctx); err != nil {
		r.logger.Warn("initial index repair failed", logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer close(r.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Run(ctx); err != nil {
					r.logger.Error("index repair failed", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop ends the loop and waits for a pass in progress to finish.
func (r *IndexRepairer) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}

// Run performs a single repair pass.
func (r *IndexRepairer) Run(ctx context.Context) error {
	rep, err := r.store.Repair(ctx)
	if err != nil {
		return err
	}
	if rep.Total() > 0 {
		r.logger.Info("index repaired",
			logger.Int("dangling_removed", rep.Dangling),
			logger.Int("orphans_indexed", rep.Orphans))
	} else {
		r.logger.Debug("index consistent, nothing to repair")
	}
	return nil
}
