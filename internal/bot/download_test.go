package bot_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockedUserGetsOnlyNoticeAndNoFetch(t *testing.T) {
	d, api, fx, store := newTestBot(t)

	d.Handle(update(42, "alice", "/start"))
	require.NoError(t, store.SetBlocked(42, true))
	api.messages = nil

	d.Handle(update(42, "alice", "https://example.com/video"))

	require.Equal(t, []string{"You are blocked from using this bot."}, api.messages)
	require.Empty(t, api.videos)
	require.Zero(t, fx.calls, "fetcher must never run for a blocked user")
}

func TestDownloadSuccess(t *testing.T) {
	d, api, fx, _ := newTestBot(t)
	fx.path = writeTempVideo(t)

	d.Handle(update(42, "alice", "https://example.com/video"))

	require.Equal(t, 1, fx.calls)
	require.Len(t, api.messages, 1)
	require.Contains(t, api.messages[0], "Downloading your video")
	require.Len(t, api.videos, 1)
	require.Equal(t, fx.path, api.videos[0].Path)
	require.Equal(t, int64(42), api.videos[0].ChatID)

	_, err := os.Stat(fx.path)
	require.True(t, os.IsNotExist(err), "transient file must be removed after delivery")
}

func TestDownloadFailure(t *testing.T) {
	d, api, fx, _ := newTestBot(t)
	fx.err = errors.New("no extractable media")

	d.Handle(update(42, "alice", "https://example.com/broken"))

	require.Equal(t, 1, fx.calls)
	require.Empty(t, api.videos)
	require.Len(t, api.messages, 2)
	require.Contains(t, api.messages[0], "Downloading your video")
	require.Contains(t, api.messages[1], "couldn't download the video")
}

func TestDeliveryFailureStillCleansUp(t *testing.T) {
	d, api, fx, _ := newTestBot(t)
	fx.path = writeTempVideo(t)
	api.videoErr = errors.New("network fault")

	d.Handle(update(42, "alice", "https://example.com/video"))

	// One in-progress notice, one failed video attempt, no extra replies.
	require.Len(t, api.messages, 1)
	require.Len(t, api.videos, 1)

	_, err := os.Stat(fx.path)
	require.True(t, os.IsNotExist(err), "transient file must be removed even when delivery fails")
}

// An unregistered, non-blocked sender goes straight through the download
// flow; no prior /start is required.
func TestUnregisteredUserCanDownload(t *testing.T) {
	d, api, fx, store := newTestBot(t)
	fx.path = writeTempVideo(t)

	d.Handle(update(77, "carol", "https://example.com/video"))

	require.Equal(t, 1, fx.calls)
	require.Len(t, api.videos, 1)

	users, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, users, 1, "sender is registered on first contact")
}
