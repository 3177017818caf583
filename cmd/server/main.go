package main

import (
	"context"

	"github.com/oggyb/penzi-exercise/internal/app"
	"github.com/oggyb/penzi-exercise/internal/cache"
	"github.com/oggyb/penzi-exercise/internal/config"
	"github.com/oggyb/penzi-exercise/internal/db"
	"github.com/oggyb/penzi-exercise/internal/logger"
	"github.com/oggyb/penzi-exercise/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

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

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting SMS webhook server", "addr", addr, "shortcode", cfg.App.Shortcode)

	if err := server.StartHTTPServer(cfg, appCtx); err != nil {
		log.Error("failed to start http server", "err", err)
	}
}
