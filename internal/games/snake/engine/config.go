package engine

import (
	"fmt"
	"time"
)

// SessionConfig fixes the board size and tick cadence of a session.
// Cosmetic settings such as colors belong to renderers, not here.
type SessionConfig struct {
	Width        int           // Board columns
	Height       int           // Board rows
	TickInterval time.Duration // Time between ticks, used by drivers
}

// DefaultSessionConfig returns a 30x30 board ticking every 100ms.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Width:        30,
		Height:       30,
		TickInterval: 100 * time.Millisecond,
	}
}

// Validate checks that every field is positive.
func (c SessionConfig) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("engine: width %d must be > 0: %w", c.Width, ErrInvalidConfig)
	case c.Height <= 0:
		return fmt.Errorf("engine: height %d must be > 0: %w", c.Height, ErrInvalidConfig)
	case c.TickInterval <= 0:
		return fmt.Errorf("engine: tick interval %s must be > 0: %w", c.TickInterval, ErrInvalidConfig)
	}
	return nil
}
