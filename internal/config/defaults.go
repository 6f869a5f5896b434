package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the built-in configuration: a 30x30 board advancing
// every 100ms, white snake on black.
func Default() Config {
	return Config{
		Game: GameConfig{
			Width:          30,
			Height:         30,
			TickIntervalMS: 100,
		},
		Theme: ThemeConfig{
			BoardColor: "black",
			SnakeColor: "white",
		},
		Storage: StorageConfig{
			DBPath: "~/.snake/scores.db",
		},
		Log: LogConfig{
			File:       "~/.snake/snake.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			SSHAddress:  ":23234",
			IdleTimeout: 30 * time.Minute,
			WebAddress:  ":8080",
		},
	}
}
