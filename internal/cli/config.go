package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/guiyumin/vdl/internal/core/config"
	"github.com/spf13/cobra"
)

const configKeysHelp = `Supported keys:
  output_dir     Default download directory
  output         Output filename template
  format         Default yt-dlp format selector
  audio_format   Audio format for --audio-only (mp3, m4a, opus, ...)
  retries        Number of download retries
  proxy          Proxy passed to yt-dlp
  quiet          Reduce yt-dlp output (true/false)
  auto_install   Download yt-dlp when it is missing (true/false)`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vdl configuration",
	Long:  "View and modify the defaults vdl uses when a flag is not given.",
}

// vdl config show - show current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := app.configPath()
		if err != nil {
			return &runError{err}
		}
		cfg := app.loadConfig()
		w := cmd.OutOrStdout()

		fmt.Fprintln(w, "Current configuration:")
		fmt.Fprintf(w, "  OutputDir:   %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "  Output:      %s\n", cfg.Output)
		fmt.Fprintf(w, "  Format:      %s\n", cfg.Format)
		fmt.Fprintf(w, "  AudioFormat: %s\n", cfg.AudioFormat)
		fmt.Fprintf(w, "  Retries:     %d\n", cfg.RetryCount())
		fmt.Fprintf(w, "  Proxy:       %s\n", cfg.Proxy)
		fmt.Fprintf(w, "  Quiet:       %t\n", cfg.Quiet)
		fmt.Fprintf(w, "  AutoInstall: %t\n", cfg.AutoInstall)
		fmt.Fprintf(w, "  Config:      %s\n", path)
		return nil
	},
}

// vdl config path - show config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := app.configPath()
		if err != nil {
			return &runError{err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// vdl config init - write defaults
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := app.configPath()
		if err != nil {
			return &runError{err}
		}
		if err := config.InitFile(path); err != nil {
			return &runError{err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}

// vdl config set KEY VALUE
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value in config.yml.\n\n" + configKeysHelp + `

Examples:
  vdl config set output_dir ~/Videos
  vdl config set audio_format opus
  vdl config set retries 10`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.editConfig(func(cfg *config.Config) error {
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		})
	},
}

// vdl config get KEY
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  "Get a configuration value from config.yml.\n\n" + configKeysHelp,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := getConfigValue(app.loadConfig(), args[0])
		if err != nil {
			return &runError{err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

// vdl config unset KEY
var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Long:  "Unset (reset to default) a configuration value in config.yml.\n\n" + configKeysHelp,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.editConfig(func(cfg *config.Config) error {
			if err := unsetConfigValue(cfg, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			return nil
		})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

// editConfig reads the config file as written (no path expansion, no
// environment fallbacks), applies edit and saves it back.
func (a *App) editConfig(edit func(*config.Config) error) error {
	path, err := a.configPath()
	if err != nil {
		return &runError{err}
	}

	cfg, err := config.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return &runError{err}
		}
		cfg = config.DefaultConfig()
	}

	if err := edit(cfg); err != nil {
		return &runError{err}
	}

	if err := config.SaveFile(path, cfg); err != nil {
		return &runError{fmt.Errorf("failed to save config: %w", err)}
	}
	return nil
}

// setConfigValue sets a config value by key
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "output_dir":
		cfg.OutputDir = value
	case "output":
		cfg.Output = value
	case "format":
		cfg.Format = value
	case "audio_format":
		cfg.AudioFormat = value
	case "retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number: %s", value)
		}
		n = max(n, 0)
		cfg.Retries = &n
	case "proxy":
		cfg.Proxy = value
	case "quiet":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Quiet = b
	case "auto_install":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.AutoInstall = b
	default:
		return fmt.Errorf("unknown config key: %s\nRun 'vdl config set --help' to see supported keys", key)
	}
	return nil
}

// getConfigValue gets a config value by key
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "output_dir":
		return cfg.OutputDir, nil
	case "output":
		return cfg.Output, nil
	case "format":
		return cfg.Format, nil
	case "audio_format":
		return cfg.AudioFormat, nil
	case "retries":
		return strconv.Itoa(cfg.RetryCount()), nil
	case "proxy":
		return cfg.Proxy, nil
	case "quiet":
		return strconv.FormatBool(cfg.Quiet), nil
	case "auto_install":
		return strconv.FormatBool(cfg.AutoInstall), nil
	default:
		return "", fmt.Errorf("unknown config key: %s\nRun 'vdl config get --help' to see supported keys", key)
	}
}

// unsetConfigValue resets a config value to its default
func unsetConfigValue(cfg *config.Config, key string) error {
	def := config.DefaultConfig()
	switch strings.TrimSpace(key) {
	case "output_dir":
		cfg.OutputDir = def.OutputDir
	case "output":
		cfg.Output = def.Output
	case "format":
		cfg.Format = ""
	case "audio_format":
		cfg.AudioFormat = def.AudioFormat
	case "retries":
		cfg.Retries = def.Retries
	case "proxy":
		cfg.Proxy = ""
	case "quiet":
		cfg.Quiet = false
	case "auto_install":
		cfg.AutoInstall = false
	default:
		return fmt.Errorf("unknown config key: %s\nRun 'vdl config unset --help' to see supported keys", key)
	}
	return nil
}
