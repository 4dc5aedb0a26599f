package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/clipfetch/clipfetch/internal/bot"
	"github.com/clipfetch/clipfetch/internal/config"
	"github.com/clipfetch/clipfetch/internal/db"
	"github.com/clipfetch/clipfetch/internal/fetch"
	"github.com/clipfetch/clipfetch/internal/logger"
	"github.com/clipfetch/clipfetch/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNoToken) {
			fmt.Fprintln(os.Stderr, "Error: BOT_TOKEN environment variable not set")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Debug)

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer store.Close() //nolint:errcheck
	log.Info().Str("path", cfg.DBPath).Msg("database ready (sqlite)")

	fetcher, err := fetch.NewYTDLP(cfg.Download.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("download dir")
	}

	client := bot.NewClient(cfg.Telegram.BotToken)
	disp := bot.NewDispatcher(client, store, fetcher, cfg.Telegram.AdminID, cfg.Download.Timeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Telegram.UseWebhook {
		poller := bot.NewPoller(client, disp)
		go poller.Run(ctx)
		log.Info().Msg("bot is running (long polling)")
	} else {
		log.Info().Msg("bot is running (webhook)")
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: web.Router(disp, client, cfg.Telegram.UseWebhook, cfg.Telegram.WebhookSecret),
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().Str("addr", cfg.Addr).Msg("http server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
}
