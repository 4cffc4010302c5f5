package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/config"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/database"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/handler"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/metrics"
	appmw "github.com/FedericoRamirez28/TurnWeb3-sub001/internal/middleware"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/queue"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/repository"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/router"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}
	cancel()

	metrics.Register()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable; rate limiting and response cache disabled")
	}

	publisher := queue.NewPublisher(cfg.RabbitURL, logger)
	if cfg.RabbitURL != "" {
		go queue.StartAuditConsumer(cfg.RabbitURL, logger)
	}

	affiliates := repository.NewAffiliateRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	prices := repository.NewPriceRepo(db)
	closings := repository.NewCashRepo(db)

	apptSvc := service.NewAppointmentService(appointments, affiliates, publisher, logger)
	priceSvc := service.NewPriceService(prices, publisher, logger)
	cashSvc := service.NewCashService(appointments, closings, time.Now, publisher, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAppointments(e, handler.NewAppointmentHandler(apptSvc))
	router.RegisterPrices(e, handler.NewPriceHandler(priceSvc),
		appmw.NewResponseCache(config.LoadCacheConfig(), rdb))
	router.RegisterCash(e, handler.NewCashHandler(cashSvc))

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
