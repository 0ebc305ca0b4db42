// Package main is the entry point for the Lucky Dice bot.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/api"
	"lucky-dice-bot/internal/bot"
	"lucky-dice-bot/internal/config"
	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/pkg/clock"
	"lucky-dice-bot/internal/pkg/lock"
	"lucky-dice-bot/internal/repository"
	"lucky-dice-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("storage", cfg.Storage.Driver).Str("timezone", cfg.Game.Timezone).Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer closeStore()

	// Validate already resolved the zone once
	loc, _ := cfg.Game.Location()
	clk := clock.NewSystem(loc)

	l := ledger.New(store, lock.NewProfileLock(), clk)
	l.SetLockTimeout(cfg.Game.LockTimeout)

	// Initialize services
	accountService := service.NewAccountService(l)
	challengeService := service.NewChallengeService(l)
	shopService := service.NewShopService(l)
	adventureService := service.NewAdventureService(l)

	// HTTP API
	apiServer := api.NewServer(accountService, challengeService, shopService, adventureService, clk)
	if cfg.HTTP.Metrics {
		apiServer.EnableMetrics()
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Initialize bot
	telegramBot, err := bot.New(&bot.Dependencies{
		Config:           cfg,
		AccountService:   accountService,
		ChallengeService: challengeService,
		ShopService:      shopService,
		AdventureService: adventureService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("Bot stopped gracefully")
}
