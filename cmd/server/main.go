package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/database"
	"github.com/stemsi/guesswise-backend/internal/handler"
	"github.com/stemsi/guesswise-backend/internal/logger"
	"github.com/stemsi/guesswise-backend/internal/metrics"
	"github.com/stemsi/guesswise-backend/internal/repository"
	"github.com/stemsi/guesswise-backend/internal/router"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/stemsi/guesswise-backend/internal/validator"
	"github.com/stemsi/guesswise-backend/internal/worker"
)

const leaderboardCacheTTL = 30 * time.Second

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("store_driver", cfg.StoreDriver).
		Msg("Starting GuessWise Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Metrics ───────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// ─── Connect to PostgreSQL (optional) ──────────────────────────────
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.UsesRedis() {
		var err error
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	}

	// ─── Initialize Stores ─────────────────────────────────────────────
	var (
		rounds      service.RoundStore
		stats       service.StatsStore
		sheets      service.SheetStore
		locker      service.Locker
		feed        service.RoundFeed
		history     service.HistoryQueue
		leaderboard service.LeaderboardSource = repository.NewStaticLeaderboard()
	)

	if cfg.UsesRedis() {
		rounds = repository.NewRoundStore(rdb, cfg.RoundTTL)
		stats = repository.NewStatsStore(rdb)
		sheets = repository.NewSheetStore(rdb, cfg.SheetTTL)
		locker = repository.NewRedisLocker(rdb, cfg.LockTTL)
		feed = repository.NewRedisRoundFeed(rdb, log)
	} else {
		rounds = repository.NewMemoryRoundStore(cfg.RoundTTL)
		stats = repository.NewMemoryStatsStore()
		sheets = repository.NewMemorySheetStore(cfg.SheetTTL)
		locker = repository.NewMemoryLocker()
		feed = repository.NewMemoryRoundFeed()
	}

	if pool != nil {
		source := repository.NewLeaderboardRepository(pool)
		if rdb != nil {
			leaderboard = repository.NewCachedLeaderboard(rdb, source, leaderboardCacheTTL, log)
			history = repository.NewHistoryQueue(rdb)
		} else {
			leaderboard = source
			log.Warn().Msg("Round history needs the redis store driver; finished rounds will not be recorded")
		}
	}

	// ─── Initialize Services ──────────────────────────────────────────
	gameService := service.NewGameService(service.GameDeps{
		Rounds:      rounds,
		Stats:       stats,
		Locker:      locker,
		Leaderboard: leaderboard,
		Feed:        feed,
		History:     history,
		Metrics:     m,
	}, log)
	gradeService := service.NewGradeService(sheets, locker, m, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Game:   handler.NewGameHandler(gameService, log),
		Grade:  handler.NewGradeHandler(gradeService, log),
		Feed:   handler.NewFeedHandler(gameService, log),
		WS:     handler.NewWSHandler(gameService, log, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(rdb, pool, cfg.StoreDriver),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if history != nil {
		historyWorker := worker.NewHistoryWorker(rdb, repository.NewHistoryRepository(pool), m, log)
		workers.Go(func() { historyWorker.Start(workerCtx) })
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, registry)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the last batch to flush.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
