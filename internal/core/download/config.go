package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guiyumin/vdl/internal/core/config"
)

// Format selectors handed to yt-dlp.
const (
	FormatBestAudio = "bestaudio/best"
	FormatDefault   = "bestvideo*+bestaudio/best"
)

// ErrAudioWithFormat rejects an explicit format combined with audio-only mode.
var ErrAudioWithFormat = errors.New("--audio-only cannot be combined with --format")

// Flags are the parsed command-line values before validation.
type Flags struct {
	URL         string
	Output      string
	OutputDir   string
	Format      string
	AudioOnly   bool
	AudioFormat string
	KeepVideo   bool
	Playlist    bool
	ListFormats bool
	Info        bool
	Proxy       string
	Quiet       bool
	Retries     int
}

// DefaultFlags returns flags carrying the built-in defaults.
func DefaultFlags() Flags {
	return Flags{
		Output:      config.DefaultOutput,
		OutputDir:   config.DefaultOutputDir,
		AudioFormat: config.DefaultAudioFormat,
		Retries:     config.DefaultRetries,
	}
}

// Config is the validated, immutable description of one invocation.
// It is passed by value; nothing mutates it after BuildConfig.
type Config struct {
	URL          string
	OutTmpl      string
	Format       string
	Quiet        bool
	AudioOnly    bool
	AudioFormat  string
	KeepVideo    bool
	Playlist     bool
	Proxy        string
	Retries      int
	MetadataOnly bool
	ListFormats  bool
}

// BuildConfig validates f, makes sure the output directory exists and
// resolves the effective format selector.
func BuildConfig(f Flags) (Config, error) {
	if f.AudioOnly && f.Format != "" {
		return Config{}, ErrAudioWithFormat
	}

	outputDir := config.ExpandPath(f.OutputDir)
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}
	if err := ensureOutputDir(outputDir); err != nil {
		return Config{}, err
	}

	output := f.Output
	if output == "" {
		output = config.DefaultOutput
	}

	outTmpl := output
	if !filepath.IsAbs(output) {
		outTmpl = filepath.Join(outputDir, output)
	}

	format := FormatDefault
	switch {
	case f.AudioOnly:
		format = FormatBestAudio
	case f.Format != "":
		format = f.Format
	}

	audioFormat := f.AudioFormat
	if audioFormat == "" {
		audioFormat = config.DefaultAudioFormat
	}

	return Config{
		URL:          f.URL,
		OutTmpl:      outTmpl,
		Format:       format,
		Quiet:        f.Quiet,
		AudioOnly:    f.AudioOnly,
		AudioFormat:  audioFormat,
		KeepVideo:    f.KeepVideo,
		Playlist:     f.Playlist,
		Proxy:        f.Proxy,
		Retries:      max(f.Retries, 0),
		MetadataOnly: f.Info,
		ListFormats:  f.ListFormats,
	}, nil
}

func ensureOutputDir(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", path, err)
	}
	return nil
}
