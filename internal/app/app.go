package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/config"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/settlement"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/infrastructure/identity"
	"github.com/cards10e/laquiniela247-sub000/internal/infrastructure/jobqueue"
	repocache "github.com/cards10e/laquiniela247-sub000/internal/infrastructure/repository/cache"
	"github.com/cards10e/laquiniela247-sub000/internal/infrastructure/repository/memory"
	"github.com/cards10e/laquiniela247-sub000/internal/infrastructure/repository/postgres"
	"github.com/cards10e/laquiniela247-sub000/internal/interfaces/httpapi"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/cache"
	idgen "github.com/cards10e/laquiniela247-sub000/internal/platform/id"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/resilience"
	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

type repositories struct {
	weeks        week.Repository
	games        game.Repository
	bets         bet.Repository
	transactions ledger.Repository
	performances performance.Repository
	users        user.Repository
	store        settlement.Store
	mirror       httpapi.AccountMirror
	close        func() error
}

// NewHTTPServer assembles the whole service: storage, use cases, identity
// verification and the HTTP router. The returned cleanup releases storage
// resources and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var boards *cache.Store
	if cfg.CacheEnabled {
		boards = cache.NewStore(cfg.CacheTTL)
		repos.weeks = repocache.NewWeekRepository(repos.weeks, boards)
		repos.games = repocache.NewGameRepository(repos.games, boards)
	}

	weekSvc := usecase.NewWeekService(repos.weeks, idgen.NewPrefixedGenerator("week"))
	gameSvc := usecase.NewGameService(repos.games, repos.weeks, idgen.NewPrefixedGenerator("game"))
	settlementSvc := usecase.NewSettlementService(
		repos.bets,
		repos.games,
		repos.weeks,
		repos.performances,
		repos.store,
		boards,
		logger,
	)
	gameSvc.SetSettler(settlementSvc)
	bettingSvc := usecase.NewBettingService(
		repos.bets,
		repos.games,
		repos.weeks,
		repos.transactions,
		idgen.NewPrefixedGenerator("bet"),
		idgen.NewPrefixedGenerator("txn"),
		cfg.BetMinAmount,
		cfg.BetMaxAmount,
	)
	leaderboardSvc := usecase.NewLeaderboardService(
		repos.weeks,
		repos.performances,
		repos.users,
		boards,
		cfg.LeaderboardSettledTTL,
	)
	sweepSvc := usecase.NewSweepService(repos.weeks, repos.games, repos.bets, settlementSvc, logger)

	identityClient := identity.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		cfg.IdentityBaseURL,
		cfg.IdentityVerifyPath,
		cfg.IdentityCacheTTL,
		cfg.IdentityCacheMaxEntries,
		resilience.NewCircuitBreakerFromConfig(cfg.IdentityCircuit),
		logger,
	)

	handler := httpapi.NewHandler(weekSvc, gameSvc, bettingSvc, settlementSvc, leaderboardSvc, sweepSvc, logger)
	router := httpapi.NewRouter(
		handler,
		identityClient,
		repos.mirror,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = repos.close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos.close, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.StorageBackend == config.StoragePostgres {
		db, err := openPostgres(cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("storage backend ready", "backend", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL))

		users := postgres.NewUserRepository(db)
		return repositories{
			weeks:        postgres.NewWeekRepository(db),
			games:        postgres.NewGameRepository(db),
			bets:         postgres.NewBetRepository(db),
			transactions: postgres.NewLedgerRepository(db),
			performances: postgres.NewPerformanceRepository(db),
			users:        users,
			store:        postgres.NewSettlementStore(db),
			mirror:       users,
			close:        db.Close,
		}, nil
	}

	now := time.Now()
	transactions := memory.NewLedgerRepository()
	bets := memory.NewBetRepository(transactions)
	performances := memory.NewPerformanceRepository()
	users := memory.NewUserRepository(memory.SeedUsers(now))
	logger.Info("storage backend ready", "backend", config.StorageMemory)

	return repositories{
		weeks:        memory.NewWeekRepository(memory.SeedWeeks(now)),
		games:        memory.NewGameRepository(memory.SeedGames(now)),
		bets:         bets,
		transactions: transactions,
		performances: performances,
		users:        users,
		store:        memory.NewSettlementStore(bets, performances),
		mirror:       users,
		close:        func() error { return nil },
	}, nil
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// StartSweepScheduler enqueues the lifecycle sweep job through QStash on a
// fixed interval so game statuses keep moving without operator action. The
// deduplication id collapses retried ticks of the same interval slot.
func StartSweepScheduler(ctx context.Context, cfg config.Config, logger *logging.Logger) func() {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.QStashEnabled {
		logger.Info("sweep scheduler disabled", "reason", "QSTASH_ENABLED=false")
		return func() {}
	}

	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
	}, logger)

	schedulerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		logger.Info("sweep scheduler starting", "interval", cfg.SweepInterval.String())
		for {
			select {
			case <-schedulerCtx.Done():
				return
			case tick := <-ticker.C:
				slot := tick.Unix() / int64(cfg.SweepInterval.Seconds())
				err := publisher.Enqueue(
					schedulerCtx,
					"/v1/internal/jobs/lifecycle-sweep",
					map[string]int{"max_workers": cfg.SweepMaxWorkers},
					0,
					fmt.Sprintf("lifecycle-sweep-%d", slot),
				)
				if err != nil {
					logger.WarnContext(schedulerCtx, "enqueue lifecycle sweep failed", "error", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
