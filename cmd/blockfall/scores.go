package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/storage/redis"
)

var (
	flagLimit  int
	flagGlobal bool
	flagClear  bool
	flagPlayer string
)

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show recorded runs for a mode",
	Long: `Display the best runs for the specified mode. Sprint runs are ranked
by completion time, other modes by score.

With --global the shared Redis leaderboard given by --redis is shown
instead of the local database; --player adds that player's position.
--clear deletes the recorded runs for the mode (and the shared board
entries when --redis is set).

Examples:
  blockfall scores blocks
  blockfall scores blocks_sprint --limit 20
  blockfall scores blocks --global --redis redis://localhost:6379 --player ana
  blockfall scores blocks_dig --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagGlobal, "global", false, "Show the shared Redis leaderboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete recorded runs for the mode")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Show this player's leaderboard position (with --global)")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall rules' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	byTime := tui.RankedByTime(gameID)

	if flagClear {
		clearRuns(gameID)
		return
	}

	heading := "High Scores"
	if byTime {
		heading = "Fastest Times"
	}
	fmt.Printf("%s - %s\n", heading, game.Title())
	fmt.Println()

	if flagGlobal {
		printGlobal(gameID, byTime)
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var runs []storage.Run
	if byTime {
		runs, err = store.FastestRuns(gameID, flagLimit)
	} else {
		runs, err = store.TopRuns(gameID, flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockfall play %s' to set the first record!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %-9s  %-5s  %-3s  %-12s  %s\n", "Rank", "Score", "Time", "Lines", "Lvl", "Player", "Date")
	fmt.Printf("  %-4s  %-10s  %-9s  %-5s  %-3s  %-12s  %s\n", "----", "-----", "----", "-----", "---", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-10d  %-9s  %-5d  %-3d  %-12s  %s\n",
			i+1, r.Score, tui.FormatDuration(r.Duration), r.Lines, r.Level,
			r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if byTime {
		fmt.Printf("Best: %s\n", tui.FormatDuration(runs[0].Duration))
	} else if high, hsErr := store.HighScore(gameID); hsErr == nil {
		fmt.Printf("Best: %d\n", high)
	}
}

func printGlobal(gameID string, byTime bool) {
	if flagRedisURL == "" {
		fmt.Fprintln(os.Stderr, "Error: --global needs --redis <url>")
		os.Exit(1)
	}
	rc := redis.DefaultConfig()
	rc.URL = flagRedisURL
	board, err := redis.New(rc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer board.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var entries []redis.Entry
	if byTime {
		entries, err = board.Fastest(ctx, gameID, flagLimit)
	} else {
		entries, err = board.Top(ctx, gameID, flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving leaderboard: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("The shared leaderboard is empty.")
		return
	}

	fmt.Printf("  %-4s  %-16s  %s\n", "Rank", "Player", "Best")
	fmt.Printf("  %-4s  %-16s  %s\n", "----", "------", "----")
	for _, e := range entries {
		best := fmt.Sprint(e.Score)
		if byTime {
			best = tui.FormatDuration(e.Time)
		}
		fmt.Printf("  %-4d  %-16s  %s\n", e.Rank, e.Player, best)
	}

	if flagPlayer == "" {
		return
	}
	fmt.Println()
	entry, err := board.Rank(ctx, gameID, flagPlayer)
	switch {
	case errors.Is(err, redis.ErrNotFound):
		fmt.Printf("%s has no entry on this board.\n", flagPlayer)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error retrieving rank: %v\n", err)
	default:
		fmt.Printf("%s is ranked #%d with %d points.\n", entry.Player, entry.Rank, entry.Score)
	}
}

func clearRuns(gameID string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.ClearRuns(gameID); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cleared local runs for %s.\n", gameID)

	logger := newLogger()
	if board := openBoard(logger); board != nil {
		defer board.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := board.Reset(ctx, gameID); err != nil {
			logger.Warn("could not reset shared leaderboard", "error", err)
			return
		}
		fmt.Printf("Cleared shared leaderboard for %s.\n", gameID)
	}
}
