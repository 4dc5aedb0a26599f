package bot

import "errors"

var (
	// ErrUnauthorized indicates a non-admin tried a moderation command.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadArgument indicates a malformed or missing command argument.
	ErrBadArgument = errors.New("bad argument")
	// ErrFetch indicates the extraction layer could not produce a media file.
	ErrFetch = errors.New("fetch failed")
	// ErrStore indicates the user registry was unavailable for this request.
	ErrStore = errors.New("store unavailable")
	// ErrTelegram indicates a Telegram API call failed.
	ErrTelegram = errors.New("telegram api error")
)
