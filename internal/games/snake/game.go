// Package snake adapts the snake engine to the platform: it turns input
// frames into session operations, records finished runs and renders the
// board, HUD and overlays into a core.Screen.
package snake

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
	"github.com/vovakirdan/tui-snake/internal/logging"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// RunRecorder stores finished runs. *storage.Store implements it.
type RunRecorder interface {
	RecordRun(run storage.Run) (int64, error)
}

// Theme holds the colors used to draw the board.
type Theme struct {
	Board core.Color
	Snake core.Color
}

// DefaultTheme is a white snake on a black board.
var DefaultTheme = Theme{Board: core.ColorBlack, Snake: core.ColorWhite}

// ThemeFromConfig resolves color names. Unknown names keep the default color.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	theme := DefaultTheme
	if c, ok := core.ParseColor(cfg.BoardColor); ok {
		theme.Board = c
	}
	if c, ok := core.ParseColor(cfg.SnakeColor); ok {
		theme.Snake = c
	}
	return theme
}

// Options configures a Game.
type Options struct {
	Session engine.SessionConfig
	IDs     *engine.IDGenerator // Shared by every game in the process; nil creates one
	Store   engine.ScoreStore   // Leaderboard persistence; may be nil
	Runs    RunRecorder         // Run history; may be nil
	Theme   Theme
	Player  string
	Logger  *log.Logger
}

// Game implements the snake game on top of an engine session.
type Game struct {
	session *engine.Session
	store   engine.ScoreStore
	runs    RunRecorder
	theme   Theme
	player  string
	logger  *log.Logger

	paused   bool
	lastRank int // Rank of the committed entry for the current End state

	// Layout
	screenW   int
	screenH   int
	hudHeight int
	tooSmall  bool
}

// New creates a game in the start state and loads the leaderboard.
// A leaderboard that cannot be loaded is logged and play continues with an
// empty one.
func New(opts Options) (*Game, error) {
	session, err := engine.NewSession(opts.Session, opts.IDs, opts.Store)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	theme := opts.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme
	}

	g := &Game{
		session:   session,
		store:     opts.Store,
		runs:      opts.Runs,
		theme:     theme,
		player:    opts.Player,
		logger:    logger,
		hudHeight: 2,
	}
	g.loadScores()
	return g, nil
}

func (g *Game) loadScores() {
	if g.store == nil {
		return
	}
	if err := g.session.LoadScores(); err != nil {
		g.logger.Warn("could not load high scores", "error", err)
	}
}

// Resize adapts the layout to a screen of the given size.
func (g *Game) Resize(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	snap := g.session.Snapshot()
	g.tooSmall = g.screenW < boardScreenWidth(snap.Width) || g.screenH < g.hudHeight+snap.Height+2
}

// RequiredSize returns the smallest screen that fits the board and HUD.
func (g *Game) RequiredSize() (w, h int) {
	cfg := g.session.Config()
	return boardScreenWidth(cfg.Width), g.hudHeight + cfg.Height + 2
}

// boardScreenWidth is the framed board width: two characters per cell plus borders.
func boardScreenWidth(cells int) int {
	return cells*2 + 2
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	switch g.session.State() {
	case engine.StateStart:
		if input.Has(core.ActionConfirm) {
			g.startRun()
		}

	case engine.StatePlaying:
		g.stepPlaying(input)

	case engine.StateEnd:
		if input.Has(core.ActionRestart) || (input.Has(core.ActionConfirm) && !g.session.Qualifies()) {
			g.startRun()
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) stepPlaying(input core.InputFrame) {
	if input.Has(core.ActionRestart) {
		g.recordRun(storage.EndAborted)
		if err := g.session.Reset(); err != nil {
			g.logger.Error("reset failed", "error", err)
			return
		}
		g.paused = false
		return
	}

	if input.Has(core.ActionBack) {
		if err := g.session.Abort(); err != nil {
			g.logger.Error("abort failed", "error", err)
			return
		}
		g.paused = false
		g.recordRun(storage.EndAborted)
		return
	}

	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return
	}

	requested := g.session.Snapshot().Heading
	if h := headingFor(input.LastDirection()); h != engine.HeadingNone {
		requested = h
	}

	res, err := g.session.Tick(requested)
	if err != nil {
		g.logger.Error("tick failed", "error", err)
		return
	}
	if res.Collision {
		g.recordRun(storage.EndCollision)
	}
}

// startRun begins a new run, picking up leaderboard changes made by other
// sessions sharing the store.
func (g *Game) startRun() {
	if g.session.State() == engine.StateEnd {
		g.loadScores()
	}
	if err := g.session.Start(); err != nil {
		g.logger.Error("start failed", "error", err)
		return
	}
	g.paused = false
	g.lastRank = 0
}

func (g *Game) recordRun(reason string) {
	snap := g.session.Snapshot()
	g.logger.Info("run finished",
		"player", g.player,
		"score", snap.Score,
		"ticks", snap.Tick,
		"reason", reason,
		"qualifies", snap.Qualifies,
	)
	if g.runs == nil {
		return
	}
	if _, err := g.runs.RecordRun(storage.Run{
		Player:    g.player,
		Score:     snap.Score,
		Ticks:     snap.Tick,
		EndReason: reason,
	}); err != nil {
		g.logger.Warn("could not record run", "error", err)
	}
}

// Finish enters the finished run on the leaderboard under initials.
// Persistence failures are logged; the entry stays on the in-memory board.
func (g *Game) Finish(initials string) (engine.FinishResult, error) {
	res, err := g.session.Finish(initials)
	if err != nil {
		return res, err
	}
	g.lastRank = res.Rank
	if res.SaveErr != nil && !errors.Is(res.SaveErr, engine.ErrNoStore) {
		g.logger.Warn("could not save high scores", "error", res.SaveErr)
	}
	g.logger.Info("high score entered", "player", g.player, "rank", res.Rank)
	return res, nil
}

// Qualifies reports whether the finished run is waiting for initials.
func (g *Game) Qualifies() bool {
	return g.session.Qualifies()
}

// Snapshot returns the session snapshot.
func (g *Game) Snapshot() engine.Snapshot {
	return g.session.Snapshot()
}

// Phase returns the session lifecycle state.
func (g *Game) Phase() engine.State {
	return g.session.State()
}

// Paused reports whether the running game is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// TickInterval returns the time between steps.
func (g *Game) TickInterval() time.Duration {
	return g.session.Config().TickInterval
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	snap := g.session.Snapshot()
	return core.GameState{
		Score:     snap.Score,
		HighScore: snap.HighScore,
		GameOver:  snap.State == engine.StateEnd,
		Paused:    g.paused,
	}
}

// headingFor maps a steering action to a heading.
func headingFor(a core.Action) engine.Heading {
	switch a {
	case core.ActionUp:
		return engine.HeadingUp
	case core.ActionDown:
		return engine.HeadingDown
	case core.ActionLeft:
		return engine.HeadingLeft
	case core.ActionRight:
		return engine.HeadingRight
	default:
		return engine.HeadingNone
	}
}

// String summarizes the game for logs.
func (g *Game) String() string {
	snap := g.session.Snapshot()
	return fmt.Sprintf("snake[%s tick=%d score=%d head=%s heading=%s]",
		snap.State, snap.Tick, snap.Score, snap.Head, snap.Heading)
}
