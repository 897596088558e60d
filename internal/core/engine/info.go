package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TypePlaylist is the "_type" marker yt-dlp sets on playlist containers.
const TypePlaylist = "playlist"

// ErrEmptyPlaylist is returned by FirstEntry when every playlist entry is null.
var ErrEmptyPlaylist = errors.New("playlist has no downloadable entries")

// Info is the subset of yt-dlp's info dictionary vdl reads.
// Pointer fields distinguish "absent" from the zero value.
type Info struct {
	Type       string    `json:"_type,omitempty"`
	ID         string    `json:"id,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Uploader   *string   `json:"uploader,omitempty"`
	Channel    *string   `json:"channel,omitempty"`
	Duration   *float64  `json:"duration,omitempty"`
	ViewCount  *int64    `json:"view_count,omitempty"`
	WebpageURL *string   `json:"webpage_url,omitempty"`
	Formats    []*Format `json:"formats,omitempty"`

	// Entries holds playlist items. yt-dlp emits null for entries it skipped.
	Entries []*Info `json:"entries,omitempty"`
}

// Format describes one downloadable stream.
type Format struct {
	FormatID       string   `json:"format_id,omitempty"`
	Ext            string   `json:"ext,omitempty"`
	Resolution     *string  `json:"resolution,omitempty"`
	Height         *int     `json:"height,omitempty"`
	FPS            *float64 `json:"fps,omitempty"`
	VCodec         *string  `json:"vcodec,omitempty"`
	ACodec         *string  `json:"acodec,omitempty"`
	FileSize       *float64 `json:"filesize,omitempty"`
	FileSizeApprox *float64 `json:"filesize_approx,omitempty"`
}

// IsPlaylist reports whether info is a playlist container.
func (i *Info) IsPlaylist() bool {
	return i.Type == TypePlaylist
}

// ParseInfo decodes the JSON document printed by --dump-single-json.
func ParseInfo(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp info: %w", err)
	}
	return &info, nil
}

// FirstEntry resolves the item to display. Single items are returned as is;
// playlists yield their first non-null entry.
func FirstEntry(info *Info) (*Info, error) {
	if !info.IsPlaylist() {
		return info, nil
	}
	for _, entry := range info.Entries {
		if entry != nil {
			return entry, nil
		}
	}
	return nil, ErrEmptyPlaylist
}
