package ytdlp

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// HealthStatus reports whether the yt-dlp binary is usable.
type HealthStatus struct {
	OK      bool
	Message string
	Latency time.Duration
}

// Health runs the binary with --version and reports the result.
func Health(ctx context.Context, binary string) HealthStatus {
	start := time.Now()
	cmd := exec.CommandContext(ctx, binary, "--version")
	out, err := cmd.Output()
	latency := time.Since(start)
	if err != nil {
		return HealthStatus{OK: false, Message: err.Error(), Latency: latency}
	}
	return HealthStatus{
		OK:      true,
		Message: "yt-dlp " + strings.TrimSpace(string(out)),
		Latency: latency,
	}
}

// LookPath verifies the binary can be resolved at startup.
func LookPath(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("yt-dlp binary not found: %w", err)
	}
	return nil
}
