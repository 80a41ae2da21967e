package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing. Without a mode a menu lets you pick one and browse
recorded runs.

Modes:
  blocks         - Marathon: play until you top out
  blocks_sprint  - Clear 40 lines as fast as possible
  blocks_dig     - Marathon with rising garbage

Controls:
  Left/Right, H/L   - Shift
  Down, J           - Soft drop
  Space             - Hard drop
  Up, X             - Rotate clockwise
  Z                 - Rotate counter-clockwise
  A                 - Rotate 180
  C, Shift+Tab      - Hold
  P                 - Pause
  R                 - Restart (after game over)
  Esc               - Back to menu (paused or game over)
  Q/Ctrl+C          - Quit

Examples:
  blockfall play
  blockfall play blocks_sprint
  blockfall play blocks --preset hard --ruleset SRS-X
  blockfall play blocks --config ./my-blocks.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	logger := newLogger()

	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'blockfall rules' to see available modes.")
			os.Exit(1)
		}
	}

	configureBlocks(logger)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		// Continue without storage - the game still works
		store = nil
	}
	archive := &tui.Archive{Store: store, Board: openBoard(logger), Log: logger}

	var runErr error
	if gameID == "" {
		runErr = tui.RunSession(archive, cfg, localPlayer())
	} else {
		game, createErr := registry.Create(gameID)
		if createErr != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", createErr)
			os.Exit(1)
		}
		runErr = tui.Run(game, archive, cfg, localPlayer())
	}

	// Close backends before potential exit
	if store != nil {
		store.Close()
	}
	if archive.Board != nil {
		archive.Board.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

func localPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return ""
}
