package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bridgetime/bridgetime/internal/config"
	"github.com/bridgetime/bridgetime/internal/database"
	"github.com/bridgetime/bridgetime/internal/game"
	"github.com/bridgetime/bridgetime/internal/migrations"
	"github.com/bridgetime/bridgetime/internal/question"
	"github.com/bridgetime/bridgetime/internal/scan"
	"github.com/bridgetime/bridgetime/internal/server"
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
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	if err := server.SeedAdmin(ctx, logger, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	// --- Questions ---
	bank := question.NewBank(db, logger)
	var lookup question.Lookup = bank

	// --- Redis (optional question cache) ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		lookup = question.NewCachedLookup(bank, rdb, logger)
		logger.Info("connected to redis, question cache enabled")
	}

	// --- Game ---
	sess := game.NewSession(nil)
	sess.UpdateSettings(game.SettingsPatch{BridgeLength: &cfg.BridgeLength})
	gate := scan.NewGate(nil)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:    logger,
		Session:   sess,
		Gate:      gate,
		Questions: lookup,
		Bank:      bank,
		DB:        db,
		Redis:     rdb,
		SPADir:    cfg.SPADir,
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

	return g.Wait()
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
