package cmd

import (
	"context"
	"fmt"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/config"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/server"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web downloader HTTP server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if v := cmd.Int("port"); v != 0 {
				cfg.Server.Port = int(v)
			}
			if v := cmd.String("log-level"); v != "" {
				cfg.Logging.Level = v
			}

			return server.Run(ctx, cfg)
		},
	}
}
