package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/store"
	redisstore "github.com/MrSnakeDoc/jobboard/internal/store/redis"
)

type countingRepairer struct {
	calls atomic.Int32
	err   error
}

func (c *countingRepairer) Repair(context.Context) (redisstore.RepairReport, error) {
	c.calls.Add(1)
	return redisstore.RepairReport{}, c.err
}

func TestIndexRepairerRunsPeriodically(t *testing.T) {
	rep := &countingRepairer{}
	r := NewIndexRepairer(rep, logger.NewNop(), 10*time.Millisecond)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for rep.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()
	r.Stop()

	if n := rep.calls.Load(); n < 3 {
		t.Errorf("Repair called %d times, want at least 3", n)
	}
	after := rep.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if rep.calls.Load() != after {
		t.Error("repairer kept running after Stop")
	}
}

func TestIndexRepairerSurvivesFailures(t *testing.T) {
	rep := &countingRepairer{err: errors.New("redis down")}
	r := NewIndexRepairer(rep, logger.NewNop(), time.Hour)

	if err := r.Run(context.Background()); err == nil {
		t.Error("Run() should surface the repair error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() should not fail on a failed first pass: %v", err)
	}
	cancel()
	r.Stop()
}

func TestIndexRepairerAgainstRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2, DisableIdentity: true})
	s := redisstore.NewStore(client, store.Options{})
	defer func() { _ = s.Close() }()

	if _, err := mr.ZAdd(redisstore.KeyByUpdated, 1, "ghost"); err != nil {
		t.Fatalf("ZAdd() error: %v", err)
	}

	if err := NewIndexRepairer(s, logger.NewNop(), time.Hour).Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if n, _ := s.Count(context.Background()); n != 0 {
		t.Errorf("Count() = %d after repair, want 0", n)
	}
}
