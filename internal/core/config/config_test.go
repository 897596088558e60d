package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty path",
			input:    "",
			expected: "",
		},
		{
			name:     "Absolute path",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "Relative path",
			input:    "relative/path",
			expected: "relative/path",
		},
		{
			name:     "Home directory only",
			input:    "~",
			expected: home,
		},
		{
			name:     "Home directory with forward slash",
			input:    "~/Downloads",
			expected: filepath.Join(home, "Downloads"),
		},
		{
			name:     "Home directory with backslash (simulated)",
			input:    `~\Downloads`,
			expected: filepath.Join(home, "Downloads"),
		},
		{
			name:     "Invalid tilde use (middle)",
			input:    "/path/~/test",
			expected: "/path/~/test",
		},
		{
			name:     "Invalid tilde use (no separator)",
			input:    "~user",
			expected: "~user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandPath(tt.input)
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadFile_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("audio_format: opus\nquiet: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.AudioFormat != "opus" {
		t.Errorf("AudioFormat = %q, want opus", cfg.AudioFormat)
	}
	if !cfg.Quiet {
		t.Error("Quiet = false, want true")
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.RetryCount() != DefaultRetries {
		t.Errorf("RetryCount() = %d, want %d", cfg.RetryCount(), DefaultRetries)
	}
}

func TestLoadFile_ClampsNegativeRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("retries: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.RetryCount() != 0 {
		t.Errorf("RetryCount() = %d, want 0", cfg.RetryCount())
	}
}

func TestLoadFile_ExplicitZeroRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("retries: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.RetryCount() != 0 {
		t.Errorf("RetryCount() = %d, want 0", cfg.RetryCount())
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("retries: [oops\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	cfg := DefaultConfig()
	cfg.Proxy = "socks5://127.0.0.1:1080"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Proxy != cfg.Proxy {
		t.Errorf("Proxy = %q, want %q", got.Proxy, cfg.Proxy)
	}
}

func TestLoadEnvProxy(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		initial  string
		expected string
	}{
		{
			name:     "HTTPS_PROXY wins over others",
			env:      map[string]string{"HTTPS_PROXY": "https://secure:8443", "HTTP_PROXY": "http://other:8080", "ALL_PROXY": "socks5://fallback:1080"},
			expected: "https://secure:8443",
		},
		{
			name:     "lowercase http_proxy",
			env:      map[string]string{"http_proxy": "http://lower:8080"},
			expected: "http://lower:8080",
		},
		{
			name:     "ALL_PROXY fallback",
			env:      map[string]string{"ALL_PROXY": "socks5://fallback:1080"},
			expected: "socks5://fallback:1080",
		},
		{
			name:     "config value is not overridden",
			env:      map[string]string{"HTTPS_PROXY": "https://secure:8443"},
			initial:  "http://from-config:3128",
			expected: "http://from-config:3128",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range proxyEnvVars {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			cfg.Proxy = tt.initial
			loadEnvProxy(cfg)

			if cfg.Proxy != tt.expected {
				t.Errorf("Proxy = %q, want %q", cfg.Proxy, tt.expected)
			}
		})
	}
}

func TestLoadFileOrDefault_MissingFile(t *testing.T) {
	for _, key := range proxyEnvVars {
		t.Setenv(key, "")
	}
	t.Setenv("ALL_PROXY", "socks5://env:1080")

	cfg := LoadFileOrDefault(filepath.Join(t.TempDir(), "missing.yml"))

	if cfg.Output != DefaultOutput || cfg.AudioFormat != DefaultAudioFormat {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Proxy != "socks5://env:1080" {
		t.Errorf("Proxy = %q, want env fallback", cfg.Proxy)
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	if err := InitFile(path); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.AudioFormat != DefaultAudioFormat {
		t.Errorf("AudioFormat = %q, want %q", cfg.AudioFormat, DefaultAudioFormat)
	}

	if err := InitFile(path); err == nil {
		t.Error("InitFile() on existing file should fail")
	}
}

func TestReadFile_KeepsValuesAsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("output_dir: ~/Videos\nretries: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	raw, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if raw.OutputDir != "~/Videos" {
		t.Errorf("OutputDir = %q, want ~/Videos", raw.OutputDir)
	}
	if raw.RetryCount() != -1 {
		t.Errorf("RetryCount() = %d, want -1", raw.RetryCount())
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.OutputDir == "~/Videos" {
		t.Error("LoadFile() should expand ~ in output_dir")
	}
}
