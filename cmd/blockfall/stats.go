package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var flagRecent int

var statsCmd = &cobra.Command{
	Use:   "stats [mode]",
	Short: "Show play statistics",
	Long: `Summarises recorded runs per mode: games played, best and average
score, total lines and best sprint time. With a mode only that mode is
shown. --recent also lists the latest runs across all modes.

Examples:
  blockfall stats
  blockfall stats blocks_sprint
  blockfall stats --recent 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagRecent, "recent", 0, "Also list this many recent runs")
}

func runStats(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var all []*storage.GameStats
	if len(args) == 1 {
		if !registry.Exists(args[0]) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
			os.Exit(1)
		}
		st, statErr := store.GetGameStats(args[0])
		if statErr != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", statErr)
			os.Exit(1)
		}
		all = append(all, st)
	} else {
		byGame, statErr := store.GetAllGamesStats()
		if statErr != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", statErr)
			os.Exit(1)
		}
		for _, st := range byGame {
			all = append(all, st)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].GameID < all[j].GameID })
	}

	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
	} else {
		fmt.Printf("  %-14s  %-6s  %-10s  %-10s  %-7s  %-9s  %s\n", "Mode", "Games", "Best", "Average", "Lines", "Best Time", "Last Played")
		for _, st := range all {
			best := "-"
			if st.BestTime > 0 {
				best = tui.FormatDuration(st.BestTime)
			}
			last := "-"
			if !st.LastPlayed.IsZero() {
				last = st.LastPlayed.Format("2006-01-02 15:04")
			}
			fmt.Printf("  %-14s  %-6d  %-10d  %-10.0f  %-7d  %-9s  %s\n",
				st.GameID, st.GamesCount, st.HighScore, st.AvgScore, st.TotalLines, best, last)
		}
	}

	if flagRecent <= 0 {
		return
	}
	runs, err := store.RecentRuns(flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving recent runs: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range runs {
		result := "topped out"
		if r.Won {
			result = "cleared"
		}
		fmt.Printf("  %s  %-14s  %-10d  %-9s  %-5s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.GameID, r.Score,
			tui.FormatDuration(r.Duration), r.Ruleset, result)
	}
}
