package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipfetch/clipfetch/internal/db"
)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	s, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s
}

// Registering the same user twice must not create a second row and must not
// reset a Blocked flag set in between.
func TestRegisterIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Register(42, "alice"))
	require.NoError(t, s.SetBlocked(42, true))
	require.NoError(t, s.Register(42, "alice"))

	blocked, err := s.IsBlocked(42)
	require.NoError(t, err)
	require.True(t, blocked, "re-registration must not clear the blocked flag")

	users, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, int64(42), users[0].TelegramID)
}

func TestBlockUnblockRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Register(7, "bob"))

	require.NoError(t, s.SetBlocked(7, true))
	blocked, err := s.IsBlocked(7)
	require.NoError(t, err)
	require.True(t, blocked)

	require.NoError(t, s.SetBlocked(7, false))
	blocked, err = s.IsBlocked(7)
	require.NoError(t, err)
	require.False(t, blocked)
}

// An unknown user is simply not blocked.
func TestIsBlockedUnknownUser(t *testing.T) {
	s := openTestStore(t)
	blocked, err := s.IsBlocked(999)
	require.NoError(t, err)
	require.False(t, blocked)
}

// SetBlocked on an id with no row matches zero rows and succeeds silently.
func TestSetBlockedUnknownUserIsNoop(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetBlocked(123, true))

	c, err := s.CountUsers()
	require.NoError(t, err)
	require.Zero(t, c.Total, "no row should have been created")
}

func TestCountsInvariant(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Register(1, "a"))
	require.NoError(t, s.Register(2, "b"))
	require.NoError(t, s.Register(3, ""))
	require.NoError(t, s.SetBlocked(2, true))

	c, err := s.CountUsers()
	require.NoError(t, err)
	require.Equal(t, int64(3), c.Total)
	require.Equal(t, int64(1), c.Blocked)
	require.Equal(t, c.Total, c.Active+c.Blocked)
}

func TestListAllInsertionOrder(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []int64{30, 10, 20} {
		require.NoError(t, s.Register(id, ""))
	}

	users, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, users, 3)

	var got []int64
	for _, u := range users {
		got = append(got, u.TelegramID)
	}
	require.Equal(t, []int64{30, 10, 20}, got, "listing must follow insertion order")
}

// TestWALMode verifies that the DSN parameters in db.go enable WAL journal
// mode. WAL is the key sqlite setting for concurrent reads + single-writer
// throughput.
func TestWALMode(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "wal.db") +
		"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var mode string
	gdb.Raw("PRAGMA journal_mode").Scan(&mode)
	require.Equal(t, "wal", mode)
}
