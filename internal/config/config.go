// Package config provides YAML-based configuration for the snake game:
// board size and speed, colors, storage, logging and server settings.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Theme   ThemeConfig   `yaml:"theme"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// GameConfig defines the board and the tick cadence.
type GameConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	TickIntervalMS int `yaml:"tick_interval_ms"`
}

// ThemeConfig holds cosmetic settings. They only reach renderers.
type ThemeConfig struct {
	BoardColor string `yaml:"board_color"`
	SnakeColor string `yaml:"snake_color"`
}

// StorageConfig locates the score database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // Empty disables persistence
}

// LogConfig configures the application logger.
type LogConfig struct {
	File       string `yaml:"file"`  // Empty logs to stderr
	Level      string `yaml:"level"` // debug, info, warn, error
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ServerConfig configures the SSH and web front ends.
type ServerConfig struct {
	SSHAddress  string        `yaml:"ssh_address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	WebAddress  string        `yaml:"web_address"`
}

// TickInterval returns the configured tick interval as a duration.
func (g GameConfig) TickInterval() time.Duration {
	return time.Duration(g.TickIntervalMS) * time.Millisecond
}

// SessionConfig converts the game settings to the engine's configuration.
func (c Config) SessionConfig() engine.SessionConfig {
	return engine.SessionConfig{
		Width:        c.Game.Width,
		Height:       c.Game.Height,
		TickInterval: c.Game.TickInterval(),
	}
}

// Validate checks the fields the game cannot run without.
func (c Config) Validate() error {
	switch {
	case c.Game.Width <= 0:
		return fmt.Errorf("config: game.width must be positive, got %d: %w", c.Game.Width, ErrInvalid)
	case c.Game.Height <= 0:
		return fmt.Errorf("config: game.height must be positive, got %d: %w", c.Game.Height, ErrInvalid)
	case c.Game.TickIntervalMS <= 0:
		return fmt.Errorf("config: game.tick_interval_ms must be positive, got %d: %w", c.Game.TickIntervalMS, ErrInvalid)
	case c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0:
		return fmt.Errorf("config: log rotation limits must not be negative: %w", ErrInvalid)
	}
	return nil
}
