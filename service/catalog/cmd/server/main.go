package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/pkg/grpcx"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/config"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/db"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/health"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/httpapi"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/lock"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/logging"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/session"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Bootstrap di logging e config.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	config.LoadDotenv(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config non valida", "error", err)
		os.Exit(1)
	}
	logger = logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := run(logger, cfg); err != nil {
		logger.Error("catalog-svc terminato con errore", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	registry := httpapi.NewRegistry()
	var checks []health.Check

	// 1) Store delle carte: memoria con seed oppure Postgres dietro breaker.
	store, closeStore, err := openStore(ctx, logger, cfg, registry, &checks)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2) Lock per le scritture: Redis se configurato, altrimenti in-process.
	locker, closeLocker := openLocker(logger, cfg, clock, &checks)
	defer closeLocker()

	// 3) Servizi di dominio.
	cards := card.NewService(logger, store, locker)
	sessions := session.NewService(logger, newProvider(cfg), !cfg.IsProduction())
	healthSvc := health.NewService(logger, clock, checks...)
	demoSvc := demo.NewService(logger, cards)

	// 4) Trasporti HTTP e gRPC.
	httpServer := httpapi.NewServer(logger, httpapi.Options{
		DemoRatePerSecond: cfg.DemoRatePerSecond,
		DemoBurst:         cfg.DemoBurst,
	}, httpapi.Deps{
		Cards:    cards,
		Sessions: sessions,
		Health:   healthSvc,
		Demo:     demoSvc,
		Registry: registry,
	})
	grpcServer := grpcx.NewServer(logger, healthSvc.GRPC())

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	healthSvc.MarkServing("tarot.catalog")

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpServer.Start(cfg.HTTPAddr)
	})
	group.Go(func() error {
		logger.Info("catalog grpc in ascolto", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown in corso")
		healthSvc.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpErr := httpServer.Shutdown(shutdownCtx)
		if forced := grpcx.GracefulStop(shutdownCtx, grpcServer); forced {
			logger.Warn("grpc fermato forzatamente", "timeout", shutdownTimeout)
		}
		return httpErr
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("catalog-svc fermato")
	return nil
}

func openStore(ctx context.Context, logger *slog.Logger, cfg config.Config, reg prometheus.Registerer, checks *[]health.Check) (card.Store, func(), error) {
	if cfg.CardStore == config.StoreMemory {
		seed, err := card.LoadSeed(cfg.CardSeedFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store in memoria", "cards", len(seed))
		return card.NewMemoryStore(seed), func() {}, nil
	}

	database, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db connection failed: %w", err)
	}
	pg := card.NewPostgresStore(database, logger)
	breaker := card.NewBreakerStore(pg, logger, card.BreakerSettings{})
	httpapi.RegisterBreakerState(reg, breaker.State)
	*checks = append(*checks, health.Check{Name: "postgres", Check: pg.Ping})

	logger.Info("store postgres")
	return breaker, func() { closeDB(logger, database) }, nil
}

func openLocker(logger *slog.Logger, cfg config.Config, clock clockwork.Clock, checks *[]health.Check) (lock.Manager, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("lock in-process (REDIS_ADDR non impostato)")
		return lock.NewLocalLock(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	locker := lock.NewRedisLock(client, clock, cfg.LockTTL, cfg.LockRetries, cfg.LockBackoff)
	*checks = append(*checks, health.Check{Name: "redis", Check: locker.Ping})

	logger.Info("lock redis", "addr", cfg.RedisAddr)
	return locker, func() {
		if err := client.Close(); err != nil {
			logger.Warn("chiusura redis fallita", "error", err)
		}
	}
}

func newProvider(cfg config.Config) session.Provider {
	if cfg.AuthProvider == config.AuthCookie {
		return session.NewCookieProvider([]byte(cfg.SessionSecret), cfg.SessionMaxAge, cfg.IsProduction())
	}
	return session.NewMockProvider(session.User{ID: cfg.MockUserID, Name: cfg.MockUserName})
}

func closeDB(logger *slog.Logger, database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.Warn("chiusura db fallita", "error", err)
	}
}
