package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/guiyumin/vdl/internal/core/engine"
	"github.com/guiyumin/vdl/internal/core/report"
	"go.uber.org/zap"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitMissingEngine  = 1
	ExitFailure        = 1
	ExitFetchFailed    = 2
	ExitDownloadFailed = 3
	ExitEmptyPlaylist  = 4
)

var errColor = color.New(color.FgRed)

// FetchFunc runs fetch and returns its result. It lets callers decorate the
// metadata request, e.g. with a spinner.
type FetchFunc func(ctx context.Context, url string, fetch func() (*engine.Info, error)) (*engine.Info, error)

// Runner sequences one invocation: availability check, metadata fetch and
// either a report or a download.
type Runner struct {
	// Check reports whether the engine can be used. Nil skips the check.
	Check func(ctx context.Context) error
	// Open builds the engine. Required.
	Open engine.Opener
	// Fetch decorates the metadata request. Nil calls it directly.
	Fetch FetchFunc

	// Reporters; nil selects report.Formats and report.Metadata.
	PrintFormats  func(io.Writer, *engine.Info)
	PrintMetadata func(io.Writer, *engine.Info)

	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

func (r *Runner) defaults() {
	if r.Fetch == nil {
		r.Fetch = func(_ context.Context, _ string, fetch func() (*engine.Info, error)) (*engine.Info, error) {
			return fetch()
		}
	}
	if r.PrintFormats == nil {
		r.PrintFormats = report.Formats
	}
	if r.PrintMetadata == nil {
		r.PrintMetadata = report.Metadata
	}
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
}

// Run executes cfg and returns the process exit code. A non-nil error means
// an unexpected failure that is not one of the reported exit conditions; the
// code is then ExitFailure.
func (r *Runner) Run(ctx context.Context, cfg Config) (int, error) {
	r.defaults()
	log := r.Log.With(zap.String("url", cfg.URL))

	if r.Check != nil {
		if err := r.Check(ctx); err != nil {
			if errors.Is(err, engine.ErrUnavailable) {
				errColor.Fprintf(r.Stderr, "Error: yt-dlp is not installed. Install it (https://github.com/yt-dlp/yt-dlp) or set auto_install: true in the config file.\n")
				log.Debug("engine unavailable", zap.Error(err))
				return ExitMissingEngine, nil
			}
			return ExitFailure, err
		}
	}

	opts := MakeOptions(cfg)
	log.Debug("engine options", zap.Any("options", opts))

	eng, err := r.Open(ctx, opts)
	if err != nil {
		return ExitFailure, fmt.Errorf("failed to start engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			log.Debug("engine close failed", zap.Error(err))
		}
	}()

	info, err := r.Fetch(ctx, cfg.URL, func() (*engine.Info, error) {
		return eng.ExtractInfo(ctx, cfg.URL)
	})
	if err != nil {
		if engine.IsEngineError(err, engine.OpExtract) {
			errColor.Fprintf(r.Stderr, "Failed to retrieve info: %v\n", err)
			return ExitFetchFailed, nil
		}
		return ExitFailure, err
	}

	display, err := engine.FirstEntry(info)
	if err != nil {
		errColor.Fprintf(r.Stderr, "Playlist has no downloadable entries.\n")
		return ExitEmptyPlaylist, nil
	}

	if cfg.ListFormats {
		r.PrintFormats(r.Stdout, display)
		return ExitOK, nil
	}

	if cfg.MetadataOnly {
		r.PrintMetadata(r.Stdout, display)
		return ExitOK, nil
	}

	log.Debug("starting download", zap.String("format", cfg.Format))
	if err := eng.Download(ctx, []string{cfg.URL}); err != nil {
		if engine.IsEngineError(err, engine.OpDownload) {
			errColor.Fprintf(r.Stderr, "Download failed: %v\n", err)
			return ExitDownloadFailed, nil
		}
		return ExitFailure, err
	}

	return ExitOK, nil
}
