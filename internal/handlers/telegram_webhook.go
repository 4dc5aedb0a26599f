package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/clipfetch/clipfetch/internal/bot"
)

// TelegramWebhook accepts updates pushed by Telegram when webhook transport
// is enabled. Simple secret check: /tg/webhook?secret=...
// An empty secret never matches; otherwise any unauthenticated POST could
// forge updates from arbitrary sender ids, the admin's included.
func TelegramWebhook(d *bot.Dispatcher, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret == "" || r.URL.Query().Get("secret") != secret {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		defer r.Body.Close()
		b, _ := io.ReadAll(r.Body)

		var up bot.Update
		if err := json.Unmarshal(b, &up); err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		d.Handle(&up)
		w.WriteHeader(200)
		w.Write([]byte("ok")) //nolint:errcheck
	}
}
