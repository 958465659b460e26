package config

import (
	"github.com/knadh/koanf/v2"
)

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"server.host": "0.0.0.0",
		"server.port": 5000,

		"downloader.binary":         "yt-dlp",
		"downloader.dir":            "web_downloader",
		"downloader.cookie_file":    "cookies.txt",
		"downloader.max_concurrent": 16,

		"cleanup.grace": "10s",

		"logging.level": "info",
	}

	for key, val := range defaults {
		k.Set(key, val)
	}
	return nil
}
