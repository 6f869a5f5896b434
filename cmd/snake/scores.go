package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagClear bool
	flagPlain bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 10 high scores and statistics about past runs.

In a terminal the scores open in an interactive table; use --plain for
text output.

Examples:
  snake scores
  snake scores --plain
  snake scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the leaderboard and run history")
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the scores as text")
}

func runScores(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	if cfg.Storage.DBPath == "" {
		fail("no scores database configured")
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.Clear(); err != nil {
			store.Close()
			fail("clearing scores: %v", err)
		}
		fmt.Println("Scores cleared.")
		return
	}

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		screen := core.DefaultConfig()
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			screen.ScreenW, screen.ScreenH = w, h
		}
		if err := tui.RunScoreboard(store, screen.ScreenW, screen.ScreenH); err != nil {
			store.Close()
			fail("%v", err)
		}
		return
	}

	if err := printScores(store); err != nil {
		store.Close()
		fail("%v", err)
	}
}

func printScores(store *storage.Store) error {
	scores, err := store.Load()
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores")
	fmt.Println()

	fmt.Printf("  %-4s  %-8s  %s\n", "Rank", "Initials", "Score")
	fmt.Printf("  %-4s  %-8s  %s\n", "----", "--------", "-----")
	for i := range engine.MaxTopScores {
		initials, score := "---", 0
		if i < len(scores) {
			initials, score = scores[i].Initials, scores[i].Score
		}
		fmt.Printf("  %-4d  %-8s  %d\n", i+1, initials, score)
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("retrieving run statistics: %w", err)
	}
	fmt.Println()
	if stats.Games == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}
	fmt.Println(tui.FormatStats(stats))
	return nil
}
