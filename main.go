package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shortly/internal/api"
	"shortly/internal/cache"
	"shortly/internal/config"
	"shortly/internal/db"
	"shortly/internal/logger"
	"shortly/internal/meta"
	"shortly/internal/registry"
	"shortly/internal/repo"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogFile)
	defer log.Sync()

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	linkRepo := repo.NewLinkRepository(database)
	reg := registry.New(linkRepo, registry.DefaultCodeFunc(cfg.CodeLength))

	// The redirect cache is optional; without REDIS_ADDR every resolve
	// goes straight to the store.
	var redirectCache *cache.RedirectCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		redirectCache = cache.New(rdb, reg, cfg.CacheTTL, log)
		log.Info("redirect cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	router := api.NewRouter(reg, api.Options{
		Logger:            log,
		Cache:             redirectCache,
		Meta:              meta.NewFetcher(log),
		PublicDir:         cfg.PublicDir,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("shortly listening", zap.String("addr", addr), zap.String("base_url", cfg.BaseURL))
	if err := router.Run(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
