package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/config"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/fileserver"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/job"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/server/web"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/ytdlp"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultGrace = 10 * time.Second

// Run wires the registry, builder and file server together and serves
// HTTP until interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Debug().Str("level", cfg.Logging.Level).Msg("log level configured")

	downloadDir, err := filepath.Abs(cfg.Downloader.Dir)
	if err != nil {
		return fmt.Errorf("resolve download dir: %w", err)
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	if err := ytdlp.LookPath(cfg.Downloader.Binary); err != nil {
		log.Warn().Err(err).Msg("downloads will fail until the binary is installed")
	}

	grace, err := time.ParseDuration(cfg.Cleanup.Grace)
	if err != nil {
		grace = defaultGrace
	}

	registry := job.NewRegistry(cfg.Downloader.MaxConcurrent)
	builder := ytdlp.Builder{
		Binary:     cfg.Downloader.Binary,
		OutputDir:  downloadDir,
		CookieFile: cfg.Downloader.CookieFile,
	}
	files := fileserver.NewServer(downloadDir, grace)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	NewHandler(registry, builder, files).RegisterRoutes(e)
	web.NewHandler().RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()
	log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).
		Str("dir", downloadDir).Msg("web downloader started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	return nil
}
