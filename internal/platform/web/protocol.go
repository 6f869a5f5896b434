package web

import (
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

// Inbound message types sent by the browser.
const (
	MsgHeading = "heading"
	MsgStart   = "start"
	MsgRestart = "restart"
	MsgAbort   = "abort"
	MsgPause   = "pause"
	MsgFinish  = "finish"
)

// Outbound frame types.
const (
	FrameHello    = "hello"
	FrameSnapshot = "snapshot"
	FrameSaved    = "saved"
	FrameError    = "error"
)

// InputMessage is one message read from the browser.
type InputMessage struct {
	Type     string `json:"type"`
	Heading  string `json:"heading,omitempty"`
	Initials string `json:"initials,omitempty"`
}

// Point is a board cell in frame coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScoreRow is one leaderboard entry.
type ScoreRow struct {
	Initials string `json:"initials"`
	Score    int    `json:"score"`
}

// ThemeColors carries CSS colors for the board.
type ThemeColors struct {
	Board string `json:"board"`
	Snake string `json:"snake"`
}

// Frame is one message written to the browser. Which fields are set
// depends on Type.
type Frame struct {
	Type      string       `json:"type"`
	State     string       `json:"state,omitempty"`
	Tick      uint64       `json:"tick,omitempty"`
	Width     int          `json:"width,omitempty"`
	Height    int          `json:"height,omitempty"`
	Body      []Point      `json:"body,omitempty"`
	Head      *Point       `json:"head,omitempty"`
	Heading   string       `json:"heading,omitempty"`
	Alive     bool         `json:"alive"`
	Score     int          `json:"score"`
	HighScore int          `json:"high_score"`
	Qualifies bool         `json:"qualifies"`
	Paused    bool         `json:"paused"`
	TopScores []ScoreRow   `json:"top_scores,omitempty"`
	Rank      int          `json:"rank,omitempty"`
	Theme     *ThemeColors `json:"theme,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// actionFor converts a control message to a game action.
func actionFor(msg InputMessage) (core.Action, error) {
	switch msg.Type {
	case MsgHeading:
		h, err := engine.ParseHeading(msg.Heading)
		if err != nil {
			return core.ActionNone, err
		}
		return directionAction(h), nil
	case MsgStart:
		return core.ActionConfirm, nil
	case MsgRestart:
		return core.ActionRestart, nil
	case MsgAbort:
		return core.ActionBack, nil
	case MsgPause:
		return core.ActionPause, nil
	}
	return core.ActionNone, ErrUnknownMessage
}

func directionAction(h engine.Heading) core.Action {
	switch h {
	case engine.HeadingUp:
		return core.ActionUp
	case engine.HeadingDown:
		return core.ActionDown
	case engine.HeadingLeft:
		return core.ActionLeft
	case engine.HeadingRight:
		return core.ActionRight
	}
	return core.ActionNone
}

// snapshotFrame builds a snapshot frame from the game state.
func snapshotFrame(g *snake.Game) Frame {
	snap := g.Snapshot()
	head := Point{X: snap.Head.X, Y: snap.Head.Y}
	return Frame{
		Type:      FrameSnapshot,
		State:     snap.State.String(),
		Tick:      snap.Tick,
		Width:     snap.Width,
		Height:    snap.Height,
		Body:      bodyOf(snap),
		Head:      &head,
		Heading:   snap.Heading.String(),
		Alive:     snap.Alive,
		Score:     snap.Score,
		HighScore: snap.HighScore,
		Qualifies: snap.Qualifies,
		Paused:    g.Paused(),
		TopScores: scoreRows(snap.TopScores),
	}
}

// bodyOf lists the cells owned by the snapshot's snake in row-major order.
func bodyOf(snap engine.Snapshot) []Point {
	body := make([]Point, 0, snap.Length)
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			if snap.Occupied(engine.P(x, y)) {
				body = append(body, Point{X: x, Y: y})
			}
		}
	}
	return body
}

func scoreRows(entries []engine.ScoreEntry) []ScoreRow {
	rows := make([]ScoreRow, len(entries))
	for i, e := range entries {
		rows[i] = ScoreRow{Initials: e.Initials, Score: e.Score}
	}
	return rows
}

var cssColors = map[core.Color]string{
	core.ColorDefault:      "#d0d0d0",
	core.ColorBlack:        "#000000",
	core.ColorRed:          "#cd3131",
	core.ColorGreen:        "#0dbc79",
	core.ColorYellow:       "#e5e510",
	core.ColorBlue:         "#2472c8",
	core.ColorMagenta:      "#bc3fbc",
	core.ColorCyan:         "#11a8cd",
	core.ColorWhite:        "#e5e5e5",
	core.ColorBrightRed:    "#f14c4c",
	core.ColorBrightGreen:  "#23d18b",
	core.ColorBrightYellow: "#f5f543",
	core.ColorBrightWhite:  "#ffffff",
	core.ColorGray:         "#8a8a8a",
}

func themeColors(t snake.Theme) *ThemeColors {
	return &ThemeColors{Board: cssColors[t.Board], Snake: cssColors[t.Snake]}
}
