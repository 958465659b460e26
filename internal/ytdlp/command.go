package ytdlp

import (
	"os"
	"path/filepath"
	"strings"
)

// Form labels accepted by the web UI. Unknown labels fall back to
// defaults rather than failing, so a stale or tampered form never
// produces an error.
const (
	FormatVideo = "MP4 - Video"
	FormatAudio = "MP3 - Audio"

	defaultHeight = "480"
)

var qualityMap = map[string]string{
	"144p (Low)":        "144",
	"240p":              "240",
	"360p":              "360",
	"480p":              "480",
	"720p":              "720",
	"1080p":             "1080",
	"1440p":             "1440",
	"2160p (4K - High)": "2160",
}

var qualityOrder = []string{
	"144p (Low)", "240p", "360p", "480p", "720p", "1080p", "1440p", "2160p (4K - High)",
}

type speedProfile struct {
	Concurrent string
	Chunk      string
}

var speedMap = map[string]speedProfile{
	"Slow":      {Concurrent: "1", Chunk: "1M"},
	"Mid":       {Concurrent: "10", Chunk: "1M"},
	"High":      {Concurrent: "20", Chunk: "5M"},
	"Turbo":     {Concurrent: "40", Chunk: "10M"},
	"Superfast": {Concurrent: "80", Chunk: "20M"},
}

var speedOrder = []string{"Slow", "Mid", "High", "Turbo", "Superfast"}

// DefaultSpeed is applied when the speed label is unknown.
const DefaultSpeed = "Turbo"

// CookieSources lists the selectable cookie options. "cookies.txt" is
// only honored when the file actually exists on disk.
var CookieSources = []string{"none", "cookies.txt"}

// QualityLabels returns the quality options in display order.
func QualityLabels() []string { return qualityOrder }

// SpeedLabels returns the speed profiles in display order.
func SpeedLabels() []string { return speedOrder }

// FormatLabels returns the format options in display order.
func FormatLabels() []string { return []string{FormatVideo, FormatAudio} }

// Options are the user-supplied download options from the form.
type Options struct {
	URL     string
	Quality string
	Format  string
	Cookies string
	Speed   string
}

// Command is a fully resolved yt-dlp invocation.
type Command struct {
	Bin       string
	Args      []string
	OutputDir string
}

// Builder maps form options to yt-dlp invocations. It is configured once
// at startup and never mutated afterwards.
type Builder struct {
	Binary     string
	OutputDir  string
	CookieFile string
}

// Build derives a deterministic argument list from the options. Unknown
// quality and speed labels silently fall back to 480p and the Turbo
// profile. The only filesystem access is the cookie file existence check.
func (b Builder) Build(opts Options) Command {
	height, ok := qualityMap[opts.Quality]
	if !ok {
		height = defaultHeight
	}
	speed, ok := speedMap[opts.Speed]
	if !ok {
		speed = speedMap[DefaultSpeed]
	}

	var args []string
	if opts.Format == FormatVideo {
		args = append(args, "-f", "best[height<="+height+"][ext=mp4]")
	} else {
		args = append(args, "-f", "bestaudio[ext=m4a]")
	}

	if opts.Cookies == "cookies.txt" {
		if _, err := os.Stat(b.CookieFile); err == nil {
			args = append(args, "--cookies", b.CookieFile)
		}
	}

	args = append(args,
		"--no-playlist",
		"--concurrent-fragments", speed.Concurrent,
		"--http-chunk-size", speed.Chunk,
		"--retries", "3",
		"--fragment-retries", "3",
		"--newline",
		"-o", filepath.Join(b.OutputDir, "%(title)s.%(ext)s"),
		strings.TrimSpace(opts.URL),
	)

	return Command{
		Bin:       b.Binary,
		Args:      args,
		OutputDir: b.OutputDir,
	}
}
