package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// InfoJSON is the parsed output of yt-dlp --dump-json
type InfoJSON struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Extractor      string  `json:"extractor"`
	WebpageURL     string  `json:"webpage_url"`
	Duration       float64 `json:"duration"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	Format         string  `json:"format"`
	Thumbnail      string  `json:"thumbnail"`
	Description    string  `json:"description"`
}

// ExtractInfo runs yt-dlp --dump-json to get metadata without downloading.
func ExtractInfo(ctx context.Context, binary, url string) (*InfoJSON, error) {
	cmd := exec.CommandContext(ctx, binary, "--dump-json", "--no-warnings", "--no-playlist", "--no-download", url)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp info: %w", err)
	}

	var info InfoJSON
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("parse info: %w", err)
	}
	return &info, nil
}
