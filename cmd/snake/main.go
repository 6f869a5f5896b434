// snake is the classic snake game for the terminal, SSH and the browser.
//
// Usage:
//
//	snake [play]             - Play in this terminal
//	snake scores             - Show the leaderboard and run statistics
//	snake serve              - Start the SSH server for remote play
//	snake web                - Start the browser front end
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.snake/config.yaml)
//	--width <cells>     - Board width
//	--height <cells>    - Board height
//	--interval <ms>     - Milliseconds between ticks
//	--db <path>         - Scores database (default: ~/.snake/scores.db)
//	--log-file <path>   - Log file; "-" logs to stderr
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/logging"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagWidth    int
	flagHeight   int
	flagInterval int
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is the classic game: steer the snake around the board, it grows
with every step, and the run ends when it hits a wall or itself.

Available commands:
  play     - Play in this terminal (default)
  scores   - View high scores and run statistics
  serve    - Start SSH server for remote play
  web      - Serve the game to browsers

Examples:
  snake
  snake play --width 20 --height 15 --interval 80
  snake scores
  snake serve --ssh :2222
  snake web --addr :8080`,
	Run: runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Board width in cells")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "Board height in cells")
	rootCmd.PersistentFlags().IntVar(&flagInterval, "interval", 0, "Milliseconds between ticks")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config: ~/.snake/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", `Path to log file ("-" for stderr)`)
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
}

// loadConfig reads the configuration and applies the global flags that were set.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Game.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Game.Height = flagHeight
	}
	if flags.Changed("interval") {
		cfg.Game.TickIntervalMS = flagInterval
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
		if flagLogFile == "-" {
			cfg.Log.File = ""
		}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	return cfg
}

// newLogger creates the application logger. The closer flushes the log file.
func newLogger(cfg config.Config) (*log.Logger, io.Closer) {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		fail("cannot set up logging: %v", err)
	}
	return logger, closer
}

// openStore opens the scores database. A database that cannot be opened is
// a warning: the game still works, nothing is persisted.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if cfg.Storage.DBPath == "" {
		return nil
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
