package bot

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// handleDownload runs the full download flow for one plain-text message: the
// text is handed to the fetcher as-is, URL validation is the fetcher's
// problem. The transient file is removed before returning, whether or not
// delivery succeeded.
func (d *Dispatcher) handleDownload(ev Event) error {
	blocked, err := d.store.IsBlocked(ev.From.ID)
	if err != nil {
		return fmt.Errorf("%w: is_blocked: %v", ErrStore, err)
	}
	if blocked {
		log.Info().Int64("from", ev.From.ID).Msg("blocked user rejected")
		return d.reply(ev.Chat, msgBlocked)
	}

	// Acknowledge before the slow part. If the ack itself fails we still
	// try the download; the user may just miss the notice.
	_ = d.reply(ev.Chat, msgInProgress)

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	path, err := d.fetcher.Fetch(ctx, ev.Text)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrFetch, ev.Text, err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("remove transient file failed")
		}
	}()

	if err := d.api.SendVideo(ev.Chat, path); err != nil {
		// Nothing user-visible left to do; the file still gets cleaned up.
		log.Error().Err(err).Int64("chat", ev.Chat).Str("path", path).
			Msg("send video failed")
		return nil
	}

	log.Info().Int64("from", ev.From.ID).Str("url", ev.Text).Msg("video delivered")
	return nil
}
