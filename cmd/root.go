package cmd

import (
	"github.com/urfave/cli/v3"
)

var version = "dev"

func App() *cli.Command {
	return &cli.Command{
		Name:    "ytweb",
		Version: version,
		Usage:   "Web front end for yt-dlp — submit a URL, watch progress, fetch the file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML config file",
				Sources: cli.EnvVars("YTWEB_CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("YTWEB_LOGGING_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
		},
	}
}
