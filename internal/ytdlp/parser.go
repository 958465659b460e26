package ytdlp

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// yt-dlp progress lines look like:
//   [download]  12.3% of 10.00MiB at 1.23MiB/s ETA 00:12
// A second, reduced form appears near the end of a fragment when yt-dlp
// no longer reports an ETA.
var (
	progressFullRe    = regexp.MustCompile(`(\d{1,3}\.\d+|\d{1,3})%.*?at\s+([\d\.]+[KMG]?iB/s).*?ETA\s+(\d{2}:\d{2})`)
	progressReducedRe = regexp.MustCompile(`(\d{1,3}\.\d+|\d{1,3})%.*?at\s+([\d\.]+[KMG]?iB/s)`)
	destinationRe     = regexp.MustCompile(`Destination:\s(.+)`)
)

// statusTextLimit bounds the free-text status stored per job.
const statusTextLimit = 160

// Progress is one structured progress report parsed from a single line.
type Progress struct {
	Pct    float64
	Rate   string
	ETA    string
	HasETA bool
}

// ParseProgress extracts a progress report from one line of yt-dlp output.
// The bool result is false when the line carries no structured progress;
// such lines are still useful as free-text status.
func ParseProgress(line string) (Progress, bool) {
	if m := progressFullRe.FindStringSubmatch(line); m != nil {
		return Progress{
			Pct:    parsePct(m[1]),
			Rate:   m[2],
			ETA:    m[3],
			HasETA: true,
		}, true
	}
	if m := progressReducedRe.FindStringSubmatch(line); m != nil {
		return Progress{
			Pct:  parsePct(m[1]),
			Rate: m[2],
		}, true
	}
	return Progress{}, false
}

// ParseDestination extracts the base filename from a destination
// announcement line ("... Destination: /path/to/file.mp4").
func ParseDestination(line string) (string, bool) {
	m := destinationRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return filepath.Base(m[1]), true
}

// TruncateStatus bounds a raw output line for display. Truncation is
// rune-aware so multi-byte titles are never cut mid-character.
func TruncateStatus(line string) string {
	runes := []rune(line)
	if len(runes) <= statusTextLimit {
		return line
	}
	return string(runes[:statusTextLimit])
}

func parsePct(s string) float64 {
	// The regex guarantees a parseable decimal number.
	pct, _ := strconv.ParseFloat(s, 64)
	return pct
}
