package models

import "time"

// User is one Telegram account known to the bot. A row is created the first
// time we see the account and is never deleted; moderation only flips Blocked.
type User struct {
	ID         uint  `gorm:"primarykey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	Blocked    bool `gorm:"default:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
