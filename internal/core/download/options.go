package download

import (
	"github.com/guiyumin/vdl/internal/core/engine"
)

// MakeOptions translates cfg into engine options. It has no side effects.
func MakeOptions(cfg Config) engine.Options {
	opts := engine.Options{
		OutTmpl:      cfg.OutTmpl,
		Format:       cfg.Format,
		Quiet:        cfg.Quiet,
		NoPlaylist:   !cfg.Playlist,
		IgnoreErrors: false,
		Retries:      cfg.Retries,
	}

	if cfg.Proxy != "" {
		opts.Proxy = cfg.Proxy
	}

	if cfg.AudioOnly {
		opts.PostProcessors = []engine.PostProcessor{{
			Key:            engine.PostProcessorExtractAudio,
			PreferredCodec: cfg.AudioFormat,
		}}
		keep := cfg.KeepVideo
		opts.KeepVideo = &keep
	}

	return opts
}
