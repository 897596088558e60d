package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/guiyumin/vdl/internal/core/config"
	"github.com/guiyumin/vdl/internal/core/download"
	"github.com/guiyumin/vdl/internal/core/engine"
	"github.com/guiyumin/vdl/internal/core/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// ExitUsage is returned for invalid command-line arguments.
const ExitUsage = 2

// App carries the process-wide collaborators of the CLI. Zero values select
// the real implementations.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// ConfigPath overrides the config file location.
	ConfigPath string
	// Check replaces the yt-dlp availability check.
	Check func(ctx context.Context) error
	// Open replaces the yt-dlp engine.
	Open engine.Opener

	exitCode int
}

// runError marks failures that happen after argument parsing.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

var (
	rootFlags   = download.DefaultFlags()
	verbose     bool
	dumpOptions bool
)

// app is the App of the running invocation.
var app = &App{}

const rootLong = `Download a single video (or optionally a playlist) using yt-dlp.

vdl reads defaults from the config file (see 'vdl config path'); flags always win.
Audio conversion with --audio-only requires ffmpeg.`

const rootExample = `  vdl https://www.youtube.com/watch?v=dQw4w9WgXcQ
  vdl --audio-only --audio-format mp3 https://www.youtube.com/watch?v=dQw4w9WgXcQ
  vdl --list-formats https://www.youtube.com/watch?v=dQw4w9WgXcQ
  vdl --info https://www.youtube.com/watch?v=dQw4w9WgXcQ
  vdl -f 137+140 --output-dir ~/Videos https://www.youtube.com/watch?v=dQw4w9WgXcQ
  vdl --playlist -o "%(playlist_index)s - %(title)s.%(ext)s" https://www.youtube.com/playlist?list=PL...`

var rootCmd = &cobra.Command{
	Use:           "vdl [flags] URL",
	Short:         "Download videos and audio with yt-dlp",
	Long:          rootLong,
	Example:       rootExample,
	Version:       version.Version,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootFlags.URL = args[0]
		return app.runDownload(cmd)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&rootFlags.Output, "output", "o", config.DefaultOutput, "output filename template")
	f.StringVar(&rootFlags.OutputDir, "output-dir", config.DefaultOutputDir, "directory to write the downloaded file into")
	f.StringVarP(&rootFlags.Format, "format", "f", "", "explicit yt-dlp format selector")
	f.BoolVar(&rootFlags.AudioOnly, "audio-only", false, "download audio only (best quality, needs ffmpeg)")
	f.StringVar(&rootFlags.AudioFormat, "audio-format", config.DefaultAudioFormat, "audio format used with --audio-only")
	f.BoolVar(&rootFlags.KeepVideo, "keep-video", false, "keep the original video after extracting audio")
	f.BoolVar(&rootFlags.Playlist, "playlist", false, "allow playlist downloads (default: first video only)")
	f.BoolVar(&rootFlags.ListFormats, "list-formats", false, "list the available formats and exit")
	f.BoolVar(&rootFlags.Info, "info", false, "show metadata and exit without downloading")
	f.StringVar(&rootFlags.Proxy, "proxy", "", "HTTP/HTTPS/SOCKS proxy passed to yt-dlp")
	f.BoolVar(&rootFlags.Quiet, "quiet", false, "reduce yt-dlp output to warnings and errors")
	f.IntVar(&rootFlags.Retries, "retries", config.DefaultRetries, "number of download retries")
	f.BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	f.BoolVar(&dumpOptions, "dump-options", false, "print the yt-dlp options as YAML and exit")

	rootCmd.MarkFlagsMutuallyExclusive("audio-only", "format")
}

// Execute runs vdl with os.Args and returns the process exit code.
func Execute() int {
	a := &App{Stdout: os.Stdout, Stderr: os.Stderr}
	return a.Execute(os.Args[1:])
}

// Execute runs the command tree with args and returns the exit code.
func (a *App) Execute(args []string) int {
	app = a
	a.exitCode = download.ExitOK

	resetFlags(rootCmd)
	rootCmd.SetOut(a.stdout())
	rootCmd.SetErr(a.stderr())
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var re *runError
		if errors.As(err, &re) {
			fmt.Fprintf(a.stderr(), "Error: %v\n", err)
			return download.ExitFailure
		}
		fmt.Fprintf(a.stderr(), "Error: %v\nRun '%s --help' for usage.\n", err, rootCmd.Name())
		return ExitUsage
	}
	return a.exitCode
}

// resetFlags restores every flag in the tree to its default, so the command
// tree can be executed more than once in a process.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue) //nolint:errcheck
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func (a *App) runDownload(cmd *cobra.Command) error {
	log := newLogger(verbose, a.stderr())
	defer log.Sync() //nolint:errcheck

	fileCfg := a.loadConfig()
	flags := mergeConfig(cmd, rootFlags, fileCfg)

	cfg, err := download.BuildConfig(flags)
	if err != nil {
		if errors.Is(err, download.ErrAudioWithFormat) {
			return err
		}
		return &runError{err}
	}
	log.Debug("config built", zap.String("url", cfg.URL), zap.String("outtmpl", cfg.OutTmpl), zap.String("format", cfg.Format))

	if dumpOptions {
		data, err := yaml.Marshal(download.MakeOptions(cfg))
		if err != nil {
			return &runError{err}
		}
		_, err = a.stdout().Write(data)
		if err != nil {
			return &runError{err}
		}
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runner := &download.Runner{
		Stdout: a.stdout(),
		Stderr: a.stderr(),
		Log:    log,
	}

	if a.Open != nil {
		runner.Check = a.Check
		runner.Open = a.Open
	} else {
		var exe string
		runner.Check = func(ctx context.Context) error {
			var err error
			exe, err = engine.Resolve(ctx, fileCfg.AutoInstall)
			return err
		}
		runner.Open = func(ctx context.Context, o engine.Options) (engine.Engine, error) {
			return engine.YtdlpOpener(exe, a.stdout(), a.stderr(), log)(ctx, o)
		}
	}

	if !cfg.Quiet && !verbose && isTerminal(a.stderr()) {
		runner.Fetch = spinnerFetch(a.stderr(), cancel)
	}

	code, err := runner.Run(ctx, cfg)
	log.Debug("run finished", zap.Int("exit_code", code))
	if err != nil {
		return &runError{err}
	}
	a.exitCode = code
	return nil
}

// mergeConfig fills every flag the user did not set explicitly from the config file.
func mergeConfig(cmd *cobra.Command, f download.Flags, c *config.Config) download.Flags {
	set := cmd.Flags().Changed

	if !set("output") && c.Output != "" {
		f.Output = c.Output
	}
	if !set("output-dir") && c.OutputDir != "" {
		f.OutputDir = c.OutputDir
	}
	if !set("format") && !f.AudioOnly && c.Format != "" {
		f.Format = c.Format
	}
	if !set("audio-format") && c.AudioFormat != "" {
		f.AudioFormat = c.AudioFormat
	}
	if !set("retries") {
		f.Retries = c.RetryCount()
	}
	if !set("proxy") && c.Proxy != "" {
		f.Proxy = c.Proxy
	}
	if !set("quiet") && c.Quiet {
		f.Quiet = true
	}
	return f
}

func (a *App) configPath() (string, error) {
	if a.ConfigPath != "" {
		return a.ConfigPath, nil
	}
	return config.ConfigPath()
}

// loadConfig returns the user defaults merged with the proxy environment.
func (a *App) loadConfig() *config.Config {
	if a.ConfigPath != "" {
		return config.LoadFileOrDefault(a.ConfigPath)
	}
	return config.LoadOrDefault()
}

func (a *App) stdout() io.Writer {
	if a.Stdout == nil {
		return os.Stdout
	}
	return a.Stdout
}

func (a *App) stderr() io.Writer {
	if a.Stderr == nil {
		return os.Stderr
	}
	return a.Stderr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
