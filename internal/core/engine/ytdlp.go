package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

var errClosed = errors.New("engine is closed")

// Resolve locates the yt-dlp executable. Any installed version is accepted.
// When autoInstall is set and none is found, go-ytdlp downloads a pinned
// release into its cache directory.
func Resolve(ctx context.Context, autoInstall bool) (string, error) {
	resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{
		DisableDownload:      !autoInstall,
		AllowVersionMismatch: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resolved.Executable, nil
}

// YtdlpOpener returns an Opener backed by the yt-dlp executable at exe.
// Download progress from yt-dlp is streamed to stdout and stderr.
func YtdlpOpener(exe string, stdout, stderr io.Writer, log *zap.Logger) Opener {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, opts Options) (Engine, error) {
		return &ytdlpEngine{
			exe:    exe,
			opts:   opts,
			stdout: stdout,
			stderr: stderr,
			log:    log,
		}, nil
	}
}

type ytdlpEngine struct {
	exe    string
	opts   Options
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
	closed bool
}

// command builds a fresh yt-dlp invocation carrying the engine options.
func (e *ytdlpEngine) command() *ytdlp.Command {
	o := e.opts
	cmd := ytdlp.New().
		SetExecutable(e.exe).
		Output(o.OutTmpl).
		Format(o.Format).
		Retries(strconv.Itoa(o.Retries))

	if o.Quiet {
		cmd = cmd.Quiet()
	}
	if o.NoPlaylist {
		cmd = cmd.NoPlaylist()
	} else {
		cmd = cmd.YesPlaylist()
	}
	if o.IgnoreErrors {
		cmd = cmd.IgnoreErrors()
	} else {
		cmd = cmd.AbortOnError()
	}
	if o.Proxy != "" {
		cmd = cmd.Proxy(o.Proxy)
	}
	if pp, ok := o.ExtractAudio(); ok {
		cmd = cmd.ExtractAudio()
		if pp.PreferredCodec != "" {
			cmd = cmd.AudioFormat(pp.PreferredCodec)
		}
	}
	if o.KeepVideo != nil {
		if *o.KeepVideo {
			cmd = cmd.KeepVideo()
		} else {
			cmd = cmd.NoKeepVideo()
		}
	}
	return cmd
}

func (e *ytdlpEngine) ExtractInfo(ctx context.Context, url string) (*Info, error) {
	if e.closed {
		return nil, errClosed
	}

	e.log.Debug("extracting info", zap.String("url", url), zap.String("executable", e.exe))

	var stdout, stderr bytes.Buffer
	cmd := e.command().SkipDownload().DumpSingleJSON().BuildCommand(ctx, url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := e.run(cmd, OpExtract, url, &stderr); err != nil {
		return nil, err
	}
	return ParseInfo(stdout.Bytes())
}

func (e *ytdlpEngine) Download(ctx context.Context, urls []string) error {
	if e.closed {
		return errClosed
	}

	e.log.Debug("downloading", zap.Strings("urls", urls))

	// stderr is shown to the user as it arrives and kept for the error message
	var stderr bytes.Buffer
	cmd := e.command().BuildCommand(ctx, urls...)
	cmd.Stdout = e.stdout
	cmd.Stderr = io.MultiWriter(e.stderr, &stderr)

	return e.run(cmd, OpDownload, strings.Join(urls, " "), &stderr)
}

// run executes cmd. A non-zero exit becomes an *Error carrying yt-dlp's last
// stderr line; failing to start yt-dlp at all is returned as is.
func (e *ytdlpEngine) run(cmd *exec.Cmd, op, url string, stderr *bytes.Buffer) error {
	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to run yt-dlp: %w", err)
	}

	e.log.Debug("yt-dlp failed", zap.String("op", op), zap.Int("exit_code", exitErr.ExitCode()))
	return &Error{
		Op:      op,
		URL:     url,
		Message: lastLine(stderr.String()),
		Err:     err,
	}
}

// lastLine returns the last non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func (e *ytdlpEngine) Close() error {
	e.closed = true
	return nil
}
