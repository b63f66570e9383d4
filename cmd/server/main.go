package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"anoa.com/ideaboard/internal/bootstrap"
	"anoa.com/ideaboard/internal/config"
	searchService "anoa.com/ideaboard/internal/modules/search/service"
	"anoa.com/ideaboard/internal/observ"
	"anoa.com/ideaboard/internal/server"
	"anoa.com/ideaboard/pkg/database"
	"anoa.com/ideaboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ideaboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observ.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := bootstrap.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedCategories(db, logger); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Warn("REDIS_URL not set, rate limiting and idempotency keys are disabled")
	} else {
		defer func() { _ = redisClient.Close() }()
	}

	var ideaIndex searchService.IdeaIndex
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		ideaIndex = searchService.NewMeiliSearchService(meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey)), logger)
	} else {
		logger.Warn("MEILISEARCH_HOST not set, idea search uses the database")
	}

	srv := server.NewServer(server.Deps{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Search: ideaIndex,
		Logger: logger,
	})

	return srv.Run(ctx, ":"+cfg.Port)
}
