package job

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/ytdlp"
	"github.com/rs/zerolog/log"
)

// run supervises one yt-dlp process from spawn to exit. It is the only
// goroutine that mutates its job record. The context is deliberately
// detached from the submitting HTTP request so the download survives
// after the response is sent.
func (r *Registry) run(id string, cmd ytdlp.Command) {
	if err := r.sem.Acquire(context.Background(), 1); err != nil {
		r.fail(id, fmt.Sprintf("acquire slot: %v", err))
		return
	}
	defer r.sem.Release(1)

	proc := exec.Command(cmd.Bin, cmd.Args...)
	stdout, err := proc.StdoutPipe()
	if err != nil {
		r.fail(id, fmt.Sprintf("pipe: %v", err))
		return
	}
	proc.Stderr = proc.Stdout

	if err := proc.Start(); err != nil {
		r.fail(id, fmt.Sprintf("start: %v", err))
		return
	}
	r.setRunning(id)
	log.Info().Str("job", id).Str("bin", cmd.Bin).Msg("download started")

	var lastError string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		log.Debug().Str("job", id).Str("ytdlp", line).Msg("yt-dlp output")
		r.observeLine(id, line)
		if strings.HasPrefix(line, "ERROR:") {
			lastError = strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}

	if err := proc.Wait(); err != nil {
		msg := exitMessage(err)
		if lastError != "" {
			msg += ": " + lastError
		}
		r.fail(id, msg)
		log.Warn().Str("job", id).Err(err).Msg("download failed")
		return
	}

	// Fallback: pick the newest file in the output directory when no
	// destination announcement was parsed. Racy when concurrent jobs
	// share one directory; correct for a single in-flight job.
	var fallback string
	if !r.hasFilename(id) {
		fallback = newestFile(cmd.OutputDir)
	}
	r.complete(id, fallback)
	log.Info().Str("job", id).Msg("download complete")
}

func exitMessage(err error) string {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return fmt.Sprintf("yt-dlp exited %d", ee.ExitCode())
	}
	return fmt.Sprintf("yt-dlp: %v", err)
}

// newestFile returns the name of the most recently modified regular file
// in dir, or "" when the directory is empty or unreadable.
func newestFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}
	return newest
}
