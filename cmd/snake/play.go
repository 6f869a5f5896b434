package main

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Arrows/WASD/HJKL - Steer
  Enter            - Start
  Esc              - End the running game
  P                - Pause
  R                - Restart the run or play again
  Q/Ctrl+C         - Quit

Examples:
  snake play
  snake play --width 20 --height 20
  snake play --interval 60 --config ./snake.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	logger, closer := newLogger(cfg)
	defer closer.Close()

	screen := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		screen.ScreenW = w
		screen.ScreenH = h
	}

	store := openStore(cfg, logger)
	opts := snake.Options{
		Session: cfg.SessionConfig(),
		Theme:   snake.ThemeFromConfig(cfg.Theme),
		Player:  playerName(),
		Logger:  logger,
	}
	if store != nil {
		opts.Store = store
		opts.Runs = store
	}

	game, err := snake.New(opts)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fail("%v", err)
	}

	if reqW, reqH := game.RequiredSize(); screen.ScreenW < reqW || screen.ScreenH < reqH+1 {
		logger.Warn("terminal smaller than the board",
			"width", screen.ScreenW, "height", screen.ScreenH, "required_width", reqW, "required_height", reqH+1)
	}

	runErr := tui.Run(game, screen)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}

// playerName names local runs in the history after the OS user.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "player"
}
