package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/jobboard/internal/config"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/scheduler"
)

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name       string
		cfg        config.Config
		repairable bool
	}{
		{
			name: "sqlite",
			cfg:  config.Config{Store: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "sub", "jobs.db")},
		},
		{
			name: "redis",
			cfg: config.Config{
				Store:               config.StoreRedis,
				RedisAddr:           mr.Addr(),
				RedisDT:             time.Second,
				RedisRT:             time.Second,
				RedisWT:             time.Second,
				RedisPoolSize:       2,
				RedisConnectTimeout: time.Second,
				RedisRetryInterval:  10 * time.Millisecond,
				RedisMaxWait:        50 * time.Millisecond,
				RedisPingTimeout:    time.Second,
				RedisWarnThreshold:  1,
			},
			repairable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := openStore(context.Background(), &tt.cfg, logger.NewNop())
			if err != nil {
				t.Fatalf("openStore() error: %v", err)
			}
			defer func() { _ = st.Close() }()

			if err := st.Ping(context.Background()); err != nil {
				t.Errorf("Ping() error: %v", err)
			}
			if _, ok := st.(scheduler.Repairer); ok != tt.repairable {
				t.Errorf("store repairable = %v, want %v", ok, tt.repairable)
			}
		})
	}
}

func TestOpenStoreRedisUnreachable(t *testing.T) {
	cfg := config.Config{
		Store:               config.StoreRedis,
		RedisAddr:           "127.0.0.1:1",
		RedisDT:             50 * time.Millisecond,
		RedisRT:             50 * time.Millisecond,
		RedisWT:             50 * time.Millisecond,
		RedisPoolSize:       1,
		RedisConnectTimeout: 200 * time.Millisecond,
		RedisRetryInterval:  20 * time.Millisecond,
		RedisMaxWait:        50 * time.Millisecond,
		RedisPingTimeout:    50 * time.Millisecond,
		RedisWarnThreshold:  1,
	}
	if _, err := openStore(context.Background(), &cfg, logger.NewNop()); err == nil {
		t.Error("openStore() should fail when redis never answers")
	}
}
