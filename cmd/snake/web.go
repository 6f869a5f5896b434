package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the game to browsers",
	Long: `Start an HTTP server with a browser version of the game.

Every page load plays its own game over a WebSocket. Arrow keys steer;
on touch screens tap above or below the head to turn while moving
sideways, left or right of it while moving vertically. The leaderboard
is shared with the terminal and SSH games using the same database.

Endpoints:
  /             game page
  /ws           game connection
  /api/scores   leaderboard and statistics (JSON)
  /healthz      liveness probe

Examples:
  snake web
  snake web --addr :9000 --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (default from config: :8080)")
}

func runWeb(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	if cmd.Flags().Changed("addr") {
		cfg.Server.WebAddress = flagWebAddr
	}

	logger, closer := newLogger(cfg)
	defer closer.Close()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	server, err := web.NewServer(web.Config{
		Address: cfg.Server.WebAddress,
		Session: cfg.SessionConfig(),
		Theme:   snake.ThemeFromConfig(cfg.Theme),
	}, store, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting snake web server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
