package engine

// PostProcessorExtractAudio converts the downloaded file to an audio-only file with ffmpeg.
const PostProcessorExtractAudio = "FFmpegExtractAudio"

// PostProcessor is a yt-dlp post-processing directive.
type PostProcessor struct {
	Key            string `yaml:"key"`
	PreferredCodec string `yaml:"preferredcodec,omitempty"`
}

// Options is the key/value set handed to the engine. The YAML keys match
// yt-dlp's embedding option names so a dump can be compared with yt-dlp docs.
type Options struct {
	OutTmpl        string          `yaml:"outtmpl"`
	Format         string          `yaml:"format"`
	Quiet          bool            `yaml:"quiet"`
	NoPlaylist     bool            `yaml:"noplaylist"`
	IgnoreErrors   bool            `yaml:"ignoreerrors"`
	Retries        int             `yaml:"retries"`
	Proxy          string          `yaml:"proxy,omitempty"`
	PostProcessors []PostProcessor `yaml:"postprocessors,omitempty"`

	// KeepVideo is only set alongside an audio extraction post-processor.
	KeepVideo *bool `yaml:"keepvideo,omitempty"`
}

// ExtractAudio returns the audio extraction directive, if any.
func (o Options) ExtractAudio() (PostProcessor, bool) {
	for _, pp := range o.PostProcessors {
		if pp.Key == PostProcessorExtractAudio {
			return pp, true
		}
	}
	return PostProcessor{}, false
}
