package engine

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable means no yt-dlp executable could be found or installed.
var ErrUnavailable = errors.New("yt-dlp is not installed")

// Operations reported in Error.Op.
const (
	OpExtract  = "extract"
	OpDownload = "download"
)

// Error is a failure reported by the engine itself (yt-dlp exited non-zero).
// Anything else returned by an Engine is an unexpected failure.
type Error struct {
	Op  string
	URL string
	// Message is the engine's own one-line explanation, e.g. yt-dlp's
	// "ERROR: ..." line. It may be empty.
	Message string
	Err     error
}

// Error returns Message when the engine gave one, so it can be shown to the
// user as a single line.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Engine resolves metadata and downloads media.
type Engine interface {
	// ExtractInfo fetches metadata for url without downloading anything.
	ExtractInfo(ctx context.Context, url string) (*Info, error)
	// Download fetches and writes every url using the engine's options.
	Download(ctx context.Context, urls []string) error
	// Close releases the engine. It is safe to call more than once.
	Close() error
}

// Opener constructs an Engine configured with opts.
type Opener func(ctx context.Context, opts Options) (Engine, error)

// IsEngineError reports whether err was reported by the engine for op.
func IsEngineError(err error, op string) bool {
	var engErr *Error
	return errors.As(err, &engErr) && engErr.Op == op
}
