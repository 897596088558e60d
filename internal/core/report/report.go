// Package report renders yt-dlp metadata for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guiyumin/vdl/internal/core/engine"
	"github.com/mattn/go-runewidth"
)

const bytesPerMB = 1024 * 1024

// column widths of the format table
var formatColumns = []int{6, 5, 7, 4, 10, 10, 10}

// Formats prints one row per available format of info.
func Formats(w io.Writer, info *engine.Info) {
	if len(info.Formats) == 0 {
		fmt.Fprintln(w, "No formats available.")
		return
	}

	header := row("itag", "ext", "res", "fps", "vcodec", "acodec", "filesize")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(header)))

	for _, f := range info.Formats {
		if f == nil {
			continue
		}
		fmt.Fprintln(w, row(
			orDefault(f.FormatID, "n/a"),
			orDefault(f.Ext, "n/a"),
			resolution(f),
			fps(f),
			deref(f.VCodec),
			deref(f.ACodec),
			fileSize(f),
		))
	}
}

// Metadata prints a short summary of info. Absent fields are left out.
func Metadata(w io.Writer, info *engine.Info) {
	title := "Unknown Title"
	if info.Title != nil {
		title = *info.Title
	}
	fmt.Fprintf(w, "Title     : %s\n", title)

	uploader := deref(info.Uploader)
	if uploader == "" {
		uploader = deref(info.Channel)
	}
	if uploader != "" {
		fmt.Fprintf(w, "Uploader  : %s\n", uploader)
	}

	if info.Duration != nil && *info.Duration > 0 {
		total := int64(*info.Duration)
		fmt.Fprintf(w, "Duration  : %dm%02ds\n", total/60, total%60)
	}

	if info.ViewCount != nil {
		fmt.Fprintf(w, "Views     : %d\n", *info.ViewCount)
	}

	if url := deref(info.WebpageURL); url != "" {
		fmt.Fprintf(w, "URL       : %s\n", url)
	}
}

func row(cells ...string) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = runewidth.FillLeft(c, formatColumns[i])
	}
	return strings.Join(padded, "  ")
}

func resolution(f *engine.Format) string {
	if r := deref(f.Resolution); r != "" {
		return r
	}
	if f.Height != nil && *f.Height > 0 {
		return strconv.Itoa(*f.Height) + "p"
	}
	return "audio"
}

func fps(f *engine.Format) string {
	if f.FPS == nil || *f.FPS == 0 {
		return ""
	}
	return strconv.FormatFloat(*f.FPS, 'f', -1, 64)
}

func fileSize(f *engine.Format) string {
	var size float64
	switch {
	case f.FileSize != nil && *f.FileSize > 0:
		size = *f.FileSize
	case f.FileSizeApprox != nil && *f.FileSizeApprox > 0:
		size = *f.FileSizeApprox
	}
	if size == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%7.2fMB", size/bytesPerMB)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
