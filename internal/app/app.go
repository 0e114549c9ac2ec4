package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/config"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/mw"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/redis"
	"github.com/MrSnakeDoc/jobboard/internal/scheduler"
	"github.com/MrSnakeDoc/jobboard/internal/seed"
	"github.com/MrSnakeDoc/jobboard/internal/store"
	redisstore "github.com/MrSnakeDoc/jobboard/internal/store/redis"
	"github.com/MrSnakeDoc/jobboard/internal/store/sqlite"
	"github.com/MrSnakeDoc/jobboard/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    store.Store
	repairer *scheduler.IndexRepairer // redis only
}

// New loads the configuration, opens the store and builds the HTTP server.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	st, err := openStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	if n, err := seed.FromFile(ctx, cfg.SeedFile, st, loggerClient); err != nil {
		loggerClient.Warn("seed import incomplete",
			logger.String("file", cfg.SeedFile),
			logger.Int("created", n),
			logger.Error(err))
	}

	d := deps.Deps{
		Logger:         loggerClient,
		Store:          st,
		StoreKind:      cfg.Store,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		RequestTimeout: cfg.RequestTimeout,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		CORSOrigins:    cfg.CORSOrigins,
	}
	if cfg.RateLimitBurst > 0 {
		d.WriteLimiter = mw.NewLimiter(mw.RateLimitConfig{
			Burst:             cfg.RateLimitBurst,
			RefillPerIPPerMin: cfg.RateLimitPerMin,
			MaxEntries:        10_000,
			SweepInterval:     time.Minute,
			IdleTTL:           15 * time.Minute,
			TrustProxy:        cfg.TrustProxy,
		})
	}

	a := &App{
		cfg:    cfg,
		logger: loggerClient,
		server: httpserver.New(cfg, loggerClient, d),
		store:  st,
	}
	if rs, ok := st.(scheduler.Repairer); ok && cfg.RedisRepairInterval > 0 {
		a.repairer = scheduler.NewIndexRepairer(rs, loggerClient, cfg.RedisRepairInterval)
	}
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		// fail fast if redis never comes up
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Dial(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		return redisstore.NewStore(client, store.Options{}), nil

	default:
		st, err := sqlite.Open(cfg.SQLitePath, store.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("SQLite store opened", logger.String("path", cfg.SQLitePath))
		return st, nil
	}
}

// Run serves until SIGINT/SIGTERM, then shuts down and closes the store.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting jobboard %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("jobboard %s", version.Info())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.repairer != nil {
		if err := a.repairer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start index repairer: %w", err)
		}
		a.logger.Info("index repairer started",
			logger.Duration("interval", a.cfg.RedisRepairInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if a.repairer != nil {
		a.repairer.Stop()
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close %s store: %v", a.cfg.Store, err)
	} else {
		a.logger.Infof("✅ %s store closed cleanly", a.cfg.Store)
	}

	if runErr == nil {
		a.logger.Info("✅ jobboard stopped cleanly")
	}
	_ = a.logger.Sync()
	return runErr
}
