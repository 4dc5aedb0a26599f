package bot

import "strings"

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// EventKind tags what an inbound update is, so routing is a plain switch
// instead of a pile of text predicates.
type EventKind int

const (
	// EventOther covers anything the bot does not act on: edits, stickers,
	// joins, empty messages.
	EventOther EventKind = iota
	EventCommand
	EventText
)

// Event is the normalized form of one inbound update.
type Event struct {
	Kind    EventKind
	From    *User
	Chat    int64
	Command string
	Args    []string
	Text    string
}

// ClassifyUpdate turns a raw Telegram update into an Event. A leading "/"
// marks a command; the "@botname" suffix Telegram appends in group chats is
// stripped from the command token.
func ClassifyUpdate(u *Update) Event {
	if u == nil || u.Message == nil || u.Message.From == nil || u.Message.Chat == nil {
		return Event{Kind: EventOther}
	}
	m := u.Message
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return Event{Kind: EventOther, From: m.From, Chat: m.Chat.ID}
	}

	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		cmd := strings.TrimPrefix(fields[0], "/")
		if at := strings.IndexByte(cmd, '@'); at >= 0 {
			cmd = cmd[:at]
		}
		return Event{
			Kind:    EventCommand,
			From:    m.From,
			Chat:    m.Chat.ID,
			Command: strings.ToLower(cmd),
			Args:    fields[1:],
		}
	}

	return Event{Kind: EventText, From: m.From, Chat: m.Chat.ID, Text: text}
}
