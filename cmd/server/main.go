package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/config"
	"github.com/iliyamo/escape-room-reservation/internal/database"
	"github.com/iliyamo/escape-room-reservation/internal/engine"
	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/middleware"
	"github.com/iliyamo/escape-room-reservation/internal/queue"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
	"github.com/iliyamo/escape-room-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	members := repository.NewMemberRepo(db)
	tokens := repository.NewTokenRepo(db)
	themes := repository.NewThemeRepo(db)
	schedules := repository.NewScheduleRepo(db)
	reservations := repository.NewReservationRepo(db)
	waitings := repository.NewWaitingRepo(db)

	resEngine, waitEngine := engine.New(reservations, waitings, schedules)

	authH := handler.NewAuthHandler(cfg, members, tokens)
	resH := handler.NewReservationHandler(resEngine)
	waitH := handler.NewWaitingHandler(waitEngine)
	themeH := handler.NewThemeHandler(themes)
	schedH := handler.NewScheduleHandler(schedules, themes)

	e := echo.New()

	// Redis backs the response cache and the rate limiter. A nil client
	// disables both and the server still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	var cacheMW echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, themeH, schedH, resH, cacheMW)
	router.RegisterMember(e, resH, waitH, cfg.JWTSecret)
	router.RegisterAdmin(e, themeH, schedH, resH, cfg.JWTSecret)

	// Promotion log consumer; reconnects on its own.
	go func() {
		if err := queue.StartPromotionConsumer(); err != nil {
			log.Printf("promotion consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
