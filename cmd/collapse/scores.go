package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collapse/internal/registry"
	"github.com/vovakirdan/collapse/internal/storage"
)

var (
	flagScoresLimit int
	flagRunsLimit   int
	flagPlayer      string
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and recent runs",
	Long: `Display the top scores, run statistics and the most recent runs for
the given mode, or for every mode when none is given.

Examples:
  collapse scores
  collapse scores collapse --runs 10
  collapse scores collapse_endless --player alice
  collapse scores collapse --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of top scores to show")
	scoresCmd.Flags().IntVar(&flagRunsLimit, "runs", 5, "Number of recent runs to show (0 = none)")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show runs by this player")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and runs of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	games := registry.List()
	if len(args) == 1 {
		if !registry.Exists(args[0]) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'collapse list' to see available modes.")
			os.Exit(1)
		}
		for _, g := range games {
			if g.ID == args[0] {
				games = []registry.GameInfo{g}
				break
			}
		}
	} else if flagClear {
		fmt.Fprintln(os.Stderr, "Error: --clear needs a mode")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(games[0].ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		logger.Info("scores cleared", "game", games[0].ID)
		fmt.Printf("Cleared scores and runs for %s.\n", games[0].Title)
		return
	}

	for i, g := range games {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, g); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			return
		}
	}
}

func printScores(store *storage.Store, g registry.GameInfo) error {
	scores, err := store.TopScores(g.ID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", g.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Printf("Play 'collapse play %s' to set the first high score!\n", g.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, entry.Player, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(g.ID)
	if err != nil {
		return err
	}
	if stats.RunsCount > 0 {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Average: %.0f  Tiles cleared: %d  Largest group: %d\n",
			stats.RunsCount, stats.HighScore, stats.AvgScore, stats.TilesCleared, stats.LargestGroup)
	}

	if flagRunsLimit <= 0 {
		return nil
	}
	runs, err := store.RecentRuns(g.ID, flagPlayer, flagRunsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-16s  %-12s  %-7s  %-5s  %-5s  %-7s  %-8s  %s\n",
		"Date", "Player", "Score", "Moves", "Best", "Windows", "Time", "End")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-12s  %-7d  %-5d  %-5d  %-7d  %-8s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Player, r.Score, r.Moves,
			r.LargestGroup, r.Windows, r.Duration, r.EndReason)
	}
	return nil
}
