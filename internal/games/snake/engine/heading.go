package engine

import (
	"fmt"
	"strings"
)

// Heading is the direction the snake moves toward.
// Opposite headings are negatives of each other.
type Heading int8

const (
	HeadingNone  Heading = 0
	HeadingDown  Heading = 1
	HeadingRight Heading = 2
	HeadingUp    Heading = -1
	HeadingLeft  Heading = -2
)

// DefaultHeading is the heading a new snake starts with.
const DefaultHeading = HeadingRight

// Valid reports whether h is one of the four compass headings.
func (h Heading) Valid() bool {
	switch h {
	case HeadingUp, HeadingDown, HeadingLeft, HeadingRight:
		return true
	default:
		return false
	}
}

// Opposite returns the reverse heading.
func (h Heading) Opposite() Heading {
	return -h
}

// IsOpposite reports whether other is the exact reverse of h.
func (h Heading) IsOpposite(other Heading) bool {
	return h.Valid() && other == h.Opposite()
}

// Delta returns the (dx, dy) offset of one step in this heading.
// Up decreases Y, Down increases Y (screen coordinates).
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	case HeadingRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	case HeadingRight:
		return "right"
	default:
		return "none"
	}
}

// ParseHeading converts "up", "down", "left" or "right" (any case) to a Heading.
func ParseHeading(s string) (Heading, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return HeadingUp, nil
	case "down":
		return HeadingDown, nil
	case "left":
		return HeadingLeft, nil
	case "right":
		return HeadingRight, nil
	}
	return HeadingNone, fmt.Errorf("engine: %q: %w", s, ErrInvalidHeading)
}
