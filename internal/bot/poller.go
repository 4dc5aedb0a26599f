package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const pollTimeoutSec = 30

// Poller drives the dispatcher from the getUpdates long-poll API. Each
// update is handled in its own goroutine; ordering between users is not
// guaranteed and not needed.
type Poller struct {
	client *Client
	disp   *Dispatcher
}

func NewPoller(client *Client, disp *Dispatcher) *Poller {
	return &Poller{client: client, disp: disp}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := p.client.GetUpdates(offset, pollTimeoutSec)
		if err != nil {
			log.Error().Err(err).Msg("getUpdates failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for i := range updates {
			u := updates[i]
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			go p.disp.Handle(&u)
		}
	}
}
