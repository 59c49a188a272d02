package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/globequiz/internal/config"
	"github.com/playperu/globequiz/internal/database"
	"github.com/playperu/globequiz/internal/dataset"
	"github.com/playperu/globequiz/internal/globequiz"
	"github.com/playperu/globequiz/internal/handler/health"
	"github.com/playperu/globequiz/internal/migrations"
	"github.com/playperu/globequiz/internal/server"
	"github.com/playperu/globequiz/internal/telemetry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	// A missing .env is fine; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Tracing ---
	if cfg.TracingEnabled {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer shutdown(context.Background())
		logger.Info("tracing enabled")
	}

	// --- Session store ---
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Game ---
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	catalog := dataset.NewCatalog()
	broker := server.NewBroker()
	palette := globequiz.Palette{
		Base:     cfg.BaseColor,
		Accent:   cfg.AccentColor,
		Revealed: cfg.RevealedColor,
		Neutral:  cfg.NeutralColor,
	}
	sessions := server.NewSessions(store, catalog, broker, rand.New(rand.NewSource(seed)), palette, logger)

	loader := &dataset.Loader{
		Source:  cfg.CountriesSource,
		Timeout: cfg.CountriesTimeout,
		Client:  &http.Client{},
		Logger:  logger,
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions: sessions,
		Broker:   broker,
		Checks: map[string]health.Checker{
			cfg.SessionStore: store,
			"countries":      catalog,
		},
		SPADir: cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		loader.Run(gctx, catalog)
		return nil
	})

	return g.Wait()
}

// sessionStore is a server.Store that can also report its health.
type sessionStore interface {
	server.Store
	health.Checker
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sessionStore, func(), error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis", "ttl", cfg.SessionTTL)
		return server.NewRedisStore(rdb, cfg.SessionTTL), func() { rdb.Close() }, nil
	default:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		applied, err := migrations.Run(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", applied)
		return server.NewSQLiteStore(db), func() { db.Close() }, nil
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
