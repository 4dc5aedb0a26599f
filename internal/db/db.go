package db

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipfetch/clipfetch/internal/models"
)

// Store is the durable user registry. One handle is opened at process start
// and shared by every handler; there is no package-level connection.
type Store struct {
	conn *gorm.DB
}

// Counts is the breakdown reported by /stats. Active is always Total-Blocked.
type Counts struct {
	Total   int64
	Blocked int64
	Active  int64
}

// Open opens (creating if needed) the sqlite database at path and migrates
// the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	// This also serializes concurrent register/block on the same row.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Register inserts the user if it is not already known. Re-registration is a
// no-op: the existing row, including its Blocked flag, is left untouched.
func (s *Store) Register(telegramID int64, username string) error {
	var u models.User
	return s.conn.Where("telegram_id = ?", telegramID).
		FirstOrCreate(&u, models.User{
			TelegramID: telegramID,
			Username:   username,
		}).Error
}

// IsBlocked reports whether the user is blocked. Unknown users are not
// blocked.
func (s *Store) IsBlocked(telegramID int64) (bool, error) {
	var u models.User
	err := s.conn.Where("telegram_id = ?", telegramID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Blocked, nil
}

// SetBlocked flips the blocked flag. Updating an id with no row is a silent
// success: zero rows match, nothing changes, no error.
func (s *Store) SetBlocked(telegramID int64, blocked bool) error {
	return s.conn.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("blocked", blocked).Error
}

// ListAll returns every known user in insertion order.
func (s *Store) ListAll() ([]models.User, error) {
	var users []models.User
	err := s.conn.Order("id").Find(&users).Error
	return users, err
}

// CountUsers returns the total/blocked/active breakdown.
func (s *Store) CountUsers() (Counts, error) {
	var c Counts
	if err := s.conn.Model(&models.User{}).Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := s.conn.Model(&models.User{}).Where("blocked = ?", true).Count(&c.Blocked).Error; err != nil {
		return c, err
	}
	c.Active = c.Total - c.Blocked
	return c, nil
}
