package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	revenuepool "bazaar/contexts/finance-core/revenue-share-pool"
	poolpostgres "bazaar/contexts/finance-core/revenue-share-pool/adapters/postgres"
	poolworkers "bazaar/contexts/finance-core/revenue-share-pool/application/workers"
	settlementengine "bazaar/contexts/finance-core/settlement-engine"
	componentregistry "bazaar/contexts/marketplace-core/component-registry"
	registrypostgres "bazaar/contexts/marketplace-core/component-registry/adapters/postgres"
	registryworkers "bazaar/contexts/marketplace-core/component-registry/application/workers"
	marketplaceconfig "bazaar/contexts/marketplace-core/marketplace-config"
	configpostgres "bazaar/contexts/marketplace-core/marketplace-config/adapters/postgres"
	auctionhouse "bazaar/contexts/marketplace-core/nft-auction-house"
	auctionmemory "bazaar/contexts/marketplace-core/nft-auction-house/adapters/memory"
	auctionpostgres "bazaar/contexts/marketplace-core/nft-auction-house/adapters/postgres"
	redisadapter "bazaar/contexts/marketplace-core/nft-auction-house/adapters/redis"
	auctionworkers "bazaar/contexts/marketplace-core/nft-auction-house/application/workers"
	auctionports "bazaar/contexts/marketplace-core/nft-auction-house/ports"
	"bazaar/internal/platform/cache"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/db"
	"bazaar/internal/platform/httpserver"
	"bazaar/internal/platform/messaging"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *cache.Redis
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	redis    *cache.Redis

	registryRelay registryworkers.OutboxRelay
	auctionRelay  auctionworkers.OutboxRelay
	poolRelay     poolworkers.OutboxRelay
	sweeper       auctionworkers.AuctionSweeper

	pollInterval  time.Duration
	sweepInterval time.Duration
	relayEnabled  bool
	sweepEnabled  bool
	logger        *slog.Logger
}

type modules struct {
	marketplace marketplaceconfig.Module
	registry    componentregistry.Module
	auctions    auctionhouse.Module
	revenue     revenuepool.Module

	registryRepo *registrypostgres.Repository
	auctionRepo  *auctionpostgres.Repository
	poolRepo     *poolpostgres.Repository
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	pg, redis, err := connectInfra(cfg)
	if err != nil {
		return nil, err
	}

	mods := buildModules(pg, redis, logger)
	server := httpserver.New(
		mods.marketplace,
		mods.registry,
		mods.auctions,
		mods.revenue,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    redis,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	pg, redis, err := connectInfra(cfg)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	mods := buildModules(pg, redis, logger)
	return &WorkerApp{
		postgres: pg,
		redis:    redis,
		registryRelay: registryworkers.OutboxRelay{
			Outbox:    mods.registryRepo,
			Publisher: kafka,
			Clock:     registrypostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		auctionRelay: auctionworkers.OutboxRelay{
			Outbox:    mods.auctionRepo,
			Publisher: kafka,
			Clock:     auctionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		poolRelay: poolworkers.OutboxRelay{
			Outbox:    mods.poolRepo,
			Publisher: kafka,
			Clock:     poolpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		sweeper: auctionworkers.AuctionSweeper{
			Listings: mods.auctionRepo,
			Auctions: mods.auctions.Auctions,
			Clock:    auctionpostgres.SystemClock{},
			Logger:   logger,
		},
		pollInterval:  cfg.OutboxPollInterval,
		sweepInterval: cfg.SweepInterval,
		relayEnabled:  cfg.EnableOutboxRelay,
		sweepEnabled:  cfg.EnableAuctionSweeper,
		logger:        logger,
	}, nil
}

func connectInfra(cfg config.Config) (*db.Postgres, *cache.Redis, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	// Redis backs the cross-process listing lock. Without it the auction
	// house falls back to in-process serialization.
	var redis *cache.Redis
	if cfg.RedisAddr != "" {
		redis, err = cache.Connect(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
	}
	return pg, redis, nil
}

func buildModules(pg *db.Postgres, redis *cache.Redis, logger *slog.Logger) modules {
	configRepo := configpostgres.NewRepository(pg.DB, logger)
	marketplace := marketplaceconfig.NewModule(marketplaceconfig.Dependencies{
		Repository: configRepo,
		Clock:      configpostgres.SystemClock{},
		Logger:     logger,
	})

	// The external token and asset ledger services are not wired yet; the
	// in-process ledgers stand in until they are, the same stance the
	// messaging adapter takes for brokers.
	settlement := settlementengine.NewInMemoryModule(nil, logger)
	assets := auctionmemory.NewAssetLedger(nil)

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registry := componentregistry.NewModule(componentregistry.Dependencies{
		Components: registryRepo,
		Config:     registryRepo,
		Settlement: settlement.Executor,
		Clock:      registrypostgres.SystemClock{},
		IDGen:      registrypostgres.UUIDGenerator{},
		Logger:     logger,
	})

	var locker auctionports.ListingLocker = auctionmemory.NewLocker()
	if redis != nil {
		locker = redisadapter.NewLocker(redis.Client, 0)
	}

	auctionRepo := auctionpostgres.NewRepository(pg.DB, logger)
	auctions := auctionhouse.NewModule(auctionhouse.Dependencies{
		Listings:   auctionRepo,
		Config:     auctionRepo,
		Settlement: settlement.Executor,
		Funds:      settlement.Ledger,
		Assets:     assets,
		Locker:     locker,
		Clock:      auctionpostgres.SystemClock{},
		IDGen:      auctionpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	poolRepo := poolpostgres.NewRepository(pg.DB, logger)
	revenue := revenuepool.NewModule(revenuepool.Dependencies{
		Repo:   poolRepo,
		Ledger: settlement.Ledger,
		Clock:  poolpostgres.SystemClock{},
		IDGen:  poolpostgres.UUIDGenerator{},
		Logger: logger,
	})

	return modules{
		marketplace:  marketplace,
		registry:     registry,
		auctions:     auctions,
		revenue:      revenue,
		registryRepo: registryRepo,
		auctionRepo:  auctionRepo,
		poolRepo:     poolRepo,
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"sweep_interval", w.sweepInterval.String(),
	)

	group, ctx := errgroup.WithContext(ctx)
	if w.relayEnabled {
		group.Go(func() error {
			return w.runEvery(ctx, w.pollInterval, func(ctx context.Context) error {
				if err := w.registryRelay.RunOnce(ctx); err != nil {
					return err
				}
				if err := w.auctionRelay.RunOnce(ctx); err != nil {
					return err
				}
				return w.poolRelay.RunOnce(ctx)
			})
		})
	}
	if w.sweepEnabled {
		group.Go(func() error {
			return w.runEvery(ctx, w.sweepInterval, w.sweeper.RunOnce)
		})
	}
	return group.Wait()
}

func (w *WorkerApp) runEvery(ctx context.Context, interval time.Duration, job func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := job(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.redis != nil {
		_ = w.redis.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
