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

	"github.com/va6996/routebot/bootstrap"
	"github.com/va6996/routebot/bot"
	"github.com/va6996/routebot/config"
	"github.com/va6996/routebot/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 0. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}

	// Initialize logging
	log.Init(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		log.Fatalf(context.Background(), "%v", err)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Init App Components using Bootstrap
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(ctx, "Setup failed: %v", err)
	}

	var wg sync.WaitGroup

	// 2. Start Telegram polling
	if cfg.Telegram.Token != "" {
		api, err := bot.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Fatalf(ctx, "%v", err)
		}
		b := bot.NewBot(api, app.NewBotHandler(api), cfg.Telegram.PollTimeout)
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Run(ctx)
		}()
	} else {
		log.Warnf(ctx, "TELEGRAM_BOT_API not set, running HTTP API only")
	}

	// 3. Start API Server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: app.NewServer().Handler(),
	}

	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf(shutdownCtx, "Server shutdown failed: %v", err)
		}
	}()

	log.Infof(ctx, "Starting server on port %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf(ctx, "Server failed: %v", err)
		stop()
		wg.Wait()
		os.Exit(1)
	}

	wg.Wait()
	log.Info(context.Background(), "Exited")
}
