package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clipfetch/clipfetch/internal/db"
	"github.com/clipfetch/clipfetch/internal/fetch"
)

const (
	msgWelcome      = "Send me a video link from TikTok, Twitter, Snapchat, Facebook, and I'll download it for you!"
	msgInProgress   = "Downloading your video... Please wait."
	msgFetchFailed  = "Sorry, I couldn't download the video. Please check the link and try again."
	msgBlocked      = "You are blocked from using this bot."
	msgUnauthorized = "Unauthorized."
	msgBadID        = "That doesn't look like a user id. Usage: /block <id> or /unblock <id>."
	msgStoreDown    = "Something went wrong. Please try again later."
)

// Dispatcher routes inbound updates to handlers. All collaborators are
// injected; it holds no global state.
type Dispatcher struct {
	api     API
	store   *db.Store
	fetcher fetch.Fetcher
	adminID int64
	timeout time.Duration
}

func NewDispatcher(api API, store *db.Store, fetcher fetch.Fetcher, adminID int64, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		api:     api,
		store:   store,
		fetcher: fetcher,
		adminID: adminID,
		timeout: timeout,
	}
}

// Handle processes one update start to finish. Handler errors are mapped to
// a single user-facing reply here; nothing propagates to the caller, so one
// bad request never takes out the poller.
func (d *Dispatcher) Handle(u *Update) {
	ev := ClassifyUpdate(u)
	if ev.Kind == EventOther {
		return
	}

	// Every interaction upserts the sender. Existing rows, including their
	// blocked flag, are left untouched.
	if err := d.store.Register(ev.From.ID, ev.From.Username); err != nil {
		d.fail(ev, fmt.Errorf("%w: register: %v", ErrStore, err))
		return
	}

	var err error
	switch ev.Kind {
	case EventCommand:
		switch ev.Command {
		case "start":
			err = d.handleStart(ev)
		case "users":
			err = d.handleUsers(ev)
		case "block":
			err = d.handleSetBlocked(ev, true)
		case "unblock":
			err = d.handleSetBlocked(ev, false)
		case "stats":
			err = d.handleStats(ev)
		case "admincheck":
			err = d.handleAdminCheck(ev)
		case "botinfo":
			err = d.handleBotInfo(ev)
		default:
			log.Debug().Str("command", ev.Command).Int64("from", ev.From.ID).
				Msg("unknown command ignored")
		}
	case EventText:
		err = d.handleDownload(ev)
	}

	if err != nil {
		d.fail(ev, err)
	}
}

// fail logs a handler error and sends the matching user-facing reply.
func (d *Dispatcher) fail(ev Event, err error) {
	log.Error().Err(err).Int64("from", ev.From.ID).Str("command", ev.Command).
		Msg("handler failed")
	if reply := replyFor(err); reply != "" {
		if serr := d.api.SendMessage(ev.Chat, reply); serr != nil {
			log.Error().Err(serr).Int64("chat", ev.Chat).Msg("send reply failed")
		}
	}
}

func replyFor(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, ErrBadArgument):
		return msgBadID
	case errors.Is(err, ErrFetch):
		return msgFetchFailed
	case errors.Is(err, ErrStore), errors.Is(err, ErrTelegram):
		return msgStoreDown
	}
	return ""
}

// requireAdmin rejects everyone but the configured admin. With no admin
// configured every moderation command is rejected.
func (d *Dispatcher) requireAdmin(ev Event) error {
	if d.adminID == 0 || ev.From.ID != d.adminID {
		return fmt.Errorf("%w: user %d", ErrUnauthorized, ev.From.ID)
	}
	return nil
}

func (d *Dispatcher) handleStart(ev Event) error {
	return d.reply(ev.Chat, msgWelcome)
}

func (d *Dispatcher) handleUsers(ev Event) error {
	if err := d.requireAdmin(ev); err != nil {
		return err
	}
	users, err := d.store.ListAll()
	if err != nil {
		return fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	if len(users) == 0 {
		return d.reply(ev.Chat, "No users yet.")
	}

	var b strings.Builder
	b.WriteString("Known users:\n")
	for _, u := range users {
		name := "(no username)"
		if u.Username != "" {
			name = "@" + u.Username
		}
		status := "active"
		if u.Blocked {
			status = "blocked"
		}
		fmt.Fprintf(&b, "<code>%d</code> %s — %s\n", u.TelegramID, name, status)
	}
	return d.reply(ev.Chat, b.String())
}

func (d *Dispatcher) handleSetBlocked(ev Event, blocked bool) error {
	if err := d.requireAdmin(ev); err != nil {
		return err
	}
	if len(ev.Args) != 1 {
		return fmt.Errorf("%w: want exactly one id, got %d args", ErrBadArgument, len(ev.Args))
	}
	id, err := strconv.ParseInt(ev.Args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a user id", ErrBadArgument, ev.Args[0])
	}
	if err := d.store.SetBlocked(id, blocked); err != nil {
		return fmt.Errorf("%w: set_blocked: %v", ErrStore, err)
	}
	if blocked {
		return d.reply(ev.Chat, fmt.Sprintf("Blocked user %d.", id))
	}
	return d.reply(ev.Chat, fmt.Sprintf("Unblocked user %d.", id))
}

func (d *Dispatcher) handleStats(ev Event) error {
	if err := d.requireAdmin(ev); err != nil {
		return err
	}
	c, err := d.store.CountUsers()
	if err != nil {
		return fmt.Errorf("%w: counts: %v", ErrStore, err)
	}
	return d.reply(ev.Chat, fmt.Sprintf("Users: %d total, %d active, %d blocked.", c.Total, c.Active, c.Blocked))
}

func (d *Dispatcher) handleAdminCheck(ev Event) error {
	if err := d.requireAdmin(ev); err != nil {
		return err
	}
	return d.reply(ev.Chat, "You are the admin of this bot.")
}

func (d *Dispatcher) handleBotInfo(ev Event) error {
	me, err := d.api.Me()
	if err != nil {
		return fmt.Errorf("%w: getMe: %v", ErrTelegram, err)
	}
	return d.reply(ev.Chat, fmt.Sprintf("I am @%s (id %d).", me.Username, me.ID))
}

// reply sends a text message and logs a failed delivery instead of surfacing
// it: once sending fails there is nothing further to tell the user.
func (d *Dispatcher) reply(chatID int64, text string) error {
	if err := d.api.SendMessage(chatID, text); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("send message failed")
	}
	return nil
}
