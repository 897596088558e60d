package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "vdl"
)

// Built-in defaults, used when neither a flag nor the config file sets a value.
const (
	DefaultOutput      = "%(title)s.%(ext)s"
	DefaultOutputDir   = "."
	DefaultAudioFormat = "mp3"
	DefaultRetries     = 3
)

// ConfigDir returns the standard config directory for vdl.
// Windows: %APPDATA%\vdl\
// macOS/Linux: ~/.config/vdl/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/vdl/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Config holds user defaults. Command-line flags always win over these.
type Config struct {
	// Default output directory
	OutputDir string `yaml:"output_dir,omitempty"`

	// Output filename template (yt-dlp syntax)
	Output string `yaml:"output,omitempty"`

	// Explicit yt-dlp format selector. Ignored in audio-only mode.
	Format string `yaml:"format,omitempty"`

	// Target codec for audio-only downloads (e.g., "mp3", "m4a", "opus")
	AudioFormat string `yaml:"audio_format,omitempty"`

	// Number of retries handed to yt-dlp
	Retries *int `yaml:"retries,omitempty"`

	// HTTP/HTTPS/SOCKS proxy handed to yt-dlp
	Proxy string `yaml:"proxy,omitempty"`

	// Reduce yt-dlp output to warnings and errors
	Quiet bool `yaml:"quiet,omitempty"`

	// Let vdl download yt-dlp into its cache when it is not installed
	AutoInstall bool `yaml:"auto_install,omitempty"`
}

// RetryCount returns the configured retry count, or the default when unset.
func (c *Config) RetryCount() int {
	if c.Retries == nil {
		return DefaultRetries
	}
	return *c.Retries
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	retries := DefaultRetries
	return &Config{
		OutputDir:   DefaultOutputDir,
		Output:      DefaultOutput,
		AudioFormat: DefaultAudioFormat,
		Retries:     &retries,
	}
}

// ReadFile parses the config at path exactly as written. Unset keys keep
// their defaults. Use it when the config is edited and saved back.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile reads the config at path for use: "~" in output_dir is expanded
// and negative retries become 0.
func LoadFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	if cfg.Retries != nil && *cfg.Retries < 0 {
		zero := 0
		cfg.Retries = &zero
	}

	return cfg, nil
}

// ExpandPath expands the tilde (~) in the path to the user's home directory.
// It handles both forward and backward slashes to ensure cross-platform compatibility
// for configuration files.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// proxyEnvVars lists the proxy variables consulted, in order of precedence.
var proxyEnvVars = []string{
	"HTTPS_PROXY", "https_proxy",
	"HTTP_PROXY", "http_proxy",
	"ALL_PROXY", "all_proxy",
}

// loadEnvProxy fills cfg.Proxy from the environment when the file left it empty.
// The value is passed to yt-dlp untouched.
func loadEnvProxy(cfg *Config) {
	if cfg.Proxy != "" {
		return
	}
	for _, key := range proxyEnvVars {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			cfg.Proxy = v
			return
		}
	}
}

// SaveFile writes cfg to path, creating parent directories as needed.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# vdl configuration file\n# Run 'vdl config init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(path, []byte(content), 0644)
}

// InitFile writes a config with default values to path. It refuses to
// overwrite an existing file.
func InitFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return SaveFile(path, DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults.
// In both cases the proxy falls back to the environment.
func LoadOrDefault() *Config {
	path, err := ConfigPath()
	if err != nil {
		cfg := DefaultConfig()
		loadEnvProxy(cfg)
		return cfg
	}
	return LoadFileOrDefault(path)
}

// LoadFileOrDefault is LoadOrDefault for an explicit path.
func LoadFileOrDefault(path string) *Config {
	cfg, err := LoadFile(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	loadEnvProxy(cfg)
	return cfg
}
