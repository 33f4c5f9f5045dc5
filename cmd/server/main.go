package main

import (
	"context"

	"github.com/emberly-app/emberly-backend/internal/app"
	"github.com/emberly-app/emberly-backend/internal/cache"
	"github.com/emberly-app/emberly-backend/internal/config"
	"github.com/emberly-app/emberly-backend/internal/db"
	"github.com/emberly-app/emberly-backend/internal/logger"
	"github.com/emberly-app/emberly-backend/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	router := server.NewRouter(appCtx, cfg)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := router.Run(addr); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
