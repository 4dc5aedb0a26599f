package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	ytdlp "github.com/ytget/ytdlp/v2"
)

// Fetcher resolves a URL into a locally downloaded media file and returns
// its path. The caller owns the file and removes it when done.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// YTDLP downloads media with the ytdlp library into Dir. Each request gets a
// uuid-named output file, so two users fetching the same video at the same
// time never collide.
type YTDLP struct {
	Dir string
}

func NewYTDLP(dir string) (*YTDLP, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &YTDLP{Dir: dir}, nil
}

func (y *YTDLP) Fetch(ctx context.Context, url string) (string, error) {
	out := filepath.Join(y.Dir, uuid.NewString()+".mp4")

	dl := ytdlp.New().
		WithFormat("best", "mp4").
		WithOutputPath(out)

	info, err := dl.Download(ctx, url)
	if err != nil {
		// A failed download can still leave a partial file behind.
		if _, statErr := os.Stat(out); statErr == nil {
			_ = os.Remove(out)
		}
		return "", err
	}

	log.Debug().Str("url", url).Str("title", info.Title).Str("path", out).
		Msg("download complete")
	return out, nil
}
