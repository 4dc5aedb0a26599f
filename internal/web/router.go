package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clipfetch/clipfetch/internal/bot"
	"github.com/clipfetch/clipfetch/internal/handlers"
)

// Router wires the HTTP surface: health, the share-link QR, and — only when
// webhook transport is enabled — the Telegram webhook. In polling mode the
// route does not exist at all, so update ingestion stays off the HTTP
// surface entirely.
func Router(d *bot.Dispatcher, api bot.API, webhookEnabled bool, webhookSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)
	r.Get("/qr/bot.png", handlers.BotQR(api))
	if webhookEnabled {
		r.Post("/tg/webhook", handlers.TelegramWebhook(d, webhookSecret))
	}

	return r
}
