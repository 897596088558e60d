package download

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	f := DefaultFlags()
	f.URL = "https://example.com/v"
	f.OutputDir = dir

	cfg, err := BuildConfig(f)
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}

	if cfg.OutTmpl != filepath.Join(dir, "%(title)s.%(ext)s") {
		t.Errorf("OutTmpl = %q", cfg.OutTmpl)
	}
	if cfg.Format != FormatDefault {
		t.Errorf("Format = %q, want %q", cfg.Format, FormatDefault)
	}
	if cfg.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.Retries)
	}
	if cfg.AudioFormat != "mp3" {
		t.Errorf("AudioFormat = %q, want mp3", cfg.AudioFormat)
	}
}

func TestBuildConfig_FormatSelection(t *testing.T) {
	tests := []struct {
		name      string
		audioOnly bool
		format    string
		want      string
	}{
		{name: "default", want: FormatDefault},
		{name: "explicit format", format: "137+140", want: "137+140"},
		{name: "audio only", audioOnly: true, want: FormatBestAudio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFlags()
			f.OutputDir = t.TempDir()
			f.AudioOnly = tt.audioOnly
			f.Format = tt.format

			cfg, err := BuildConfig(f)
			if err != nil {
				t.Fatalf("BuildConfig: %v", err)
			}
			if cfg.Format != tt.want {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.want)
			}
		})
	}
}

func TestBuildConfig_RejectsAudioWithFormat(t *testing.T) {
	f := DefaultFlags()
	f.OutputDir = filepath.Join(t.TempDir(), "never-created")
	f.AudioOnly = true
	f.Format = "best"

	_, err := BuildConfig(f)
	if !errors.Is(err, ErrAudioWithFormat) {
		t.Fatalf("err = %v, want ErrAudioWithFormat", err)
	}
	if _, statErr := os.Stat(f.OutputDir); !os.IsNotExist(statErr) {
		t.Error("output directory should not be created for invalid flags")
	}
}

func TestBuildConfig_ClampsRetries(t *testing.T) {
	f := DefaultFlags()
	f.OutputDir = t.TempDir()
	f.Retries = -7

	cfg, err := BuildConfig(f)
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}
	if cfg.Retries != 0 {
		t.Errorf("Retries = %d, want 0", cfg.Retries)
	}
}

func TestBuildConfig_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	f := DefaultFlags()
	f.OutputDir = dir

	if _, err := BuildConfig(f); err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("output path is not a directory")
	}
}

func TestBuildConfig_OutputDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	f := DefaultFlags()
	f.OutputDir = filepath.Join(file, "sub")

	if _, err := BuildConfig(f); err == nil {
		t.Fatal("expected error when output dir cannot be created")
	}
}

func TestBuildConfig_ModeFlags(t *testing.T) {
	f := DefaultFlags()
	f.OutputDir = t.TempDir()
	f.Info = true
	f.ListFormats = true
	f.Playlist = true
	f.Proxy = "http://proxy:3128"
	f.KeepVideo = true

	cfg, err := BuildConfig(f)
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}
	if !cfg.MetadataOnly || !cfg.ListFormats || !cfg.Playlist || !cfg.KeepVideo {
		t.Errorf("mode flags not carried over: %+v", cfg)
	}
	if cfg.Proxy != "http://proxy:3128" {
		t.Errorf("Proxy = %q", cfg.Proxy)
	}
}
