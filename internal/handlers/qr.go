package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/clipfetch/clipfetch/internal/bot"
)

// BotQR serves a QR code of the bot's t.me deep link, so the bot can be
// shared by scanning.
func BotQR(api bot.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, err := api.Me()
		if err != nil || me.Username == "" {
			http.Error(w, "bot identity unavailable", http.StatusServiceUnavailable)
			return
		}

		png, err := qrcode.Encode("https://t.me/"+me.Username, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to generate qr", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
