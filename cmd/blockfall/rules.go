package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List modes and rotation systems",
	Long:  `Shows every playable mode and the rotation systems accepted by --ruleset.`,
	Run:   runRules,
}

func runRules(_ *cobra.Command, _ []string) {
	games := registry.List()

	fmt.Println("Modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, g := range games {
		desc := g.Description
		if desc == "" {
			desc = g.Title
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, desc)
	}

	fmt.Println()
	fmt.Println("Rotation systems:")
	fmt.Println()
	for _, name := range engine.KickTableNames() {
		marker := ""
		if name == engine.DefaultKickTable {
			marker = " (default)"
		}
		fmt.Printf("  %s%s\n", name, marker)
	}

	fmt.Println()
	fmt.Println("Run 'blockfall play <id>' to play a mode.")
}
