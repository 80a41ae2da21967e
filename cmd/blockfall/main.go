// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall play [mode]       - Play a mode, or pick one from the menu
//	blockfall rules             - List modes and rotation systems
//	blockfall scores <mode>     - Show recorded runs for a mode
//	blockfall serve             - Start SSH server for remote play
//	blockfall config            - Print the effective configuration
//	blockfall stats [mode]      - Summarise recorded runs
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible piece sequences
//	--db <path>         - Set database path (default: ~/.blockfall/scores.db)
//	--config <path>     - Load a custom blocks.yaml
//	--preset <name>     - Difficulty preset: easy, normal, hard, fixed
//	--ruleset <name>    - Override the rotation system
//	--level <n>         - Override the start level
//	--redis <url>       - Mirror runs to a shared Redis leaderboard
//	--debug             - Log engine events to stderr
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blocks"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
	"github.com/vovakirdan/blockfall/internal/storage/redis"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagRuleset  string
	flagLevel    int
	flagRedisURL string
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall is a terminal falling-block game with guideline rotation,
hold, lookahead, spins, combos and back-to-back bonuses.

Available commands:
  play     - Play a mode (menu when no mode is given)
  rules    - Show modes and rotation systems
  scores   - View recorded runs
  serve    - Start SSH server for remote play
  config   - Print the effective configuration
  stats    - Summarise recorded runs

Examples:
  blockfall play
  blockfall play blocks_sprint --ruleset SRS+
  blockfall play blocks --preset hard --level 5
  blockfall serve --ssh :2222 --redis redis://localhost:6379
  blockfall scores blocks_sprint`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to run database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blocks.yaml")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagRuleset, "ruleset", "", "Rotation system (see 'blockfall rules')")
	rootCmd.PersistentFlags().IntVar(&flagLevel, "level", 0, "Start level override")
	rootCmd.PersistentFlags().StringVar(&flagRedisURL, "redis", "", "Redis URL for the shared leaderboard")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log engine events to stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statsCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadSettings resolves the blocks configuration from file, preset and flags.
func loadSettings() (config.BlocksConfig, error) {
	cfg, err := config.LoadBlocks(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		preset, ok := config.ParsePreset(flagPreset)
		if !ok {
			return cfg, fmt.Errorf("unknown preset %q (want easy, normal, hard or fixed)", flagPreset)
		}
		config.ApplyBlocksPreset(&cfg, preset)
	}
	if flagRuleset != "" {
		if _, ok := engine.LookupKickTable(flagRuleset); !ok {
			return cfg, fmt.Errorf("unknown ruleset %q (see 'blockfall rules')", flagRuleset)
		}
		cfg.Rules.Ruleset = flagRuleset
	}
	if flagLevel > 0 {
		cfg.Rules.StartLevel = flagLevel
	}
	return cfg, nil
}

// configureBlocks installs the resolved settings for every game the registry
// creates, exiting on a bad config.
func configureBlocks(logger *log.Logger) {
	cfg, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	blocks.Configure(cfg)
	if flagDebug {
		blocks.SetLogger(logger.WithPrefix("engine"))
	}
}

// openBoard connects to the shared leaderboard when --redis is set.
// A failed connection is logged and play continues locally.
func openBoard(logger *log.Logger) *redis.Leaderboard {
	if flagRedisURL == "" {
		return nil
	}
	rc := redis.DefaultConfig()
	rc.URL = flagRedisURL
	board, err := redis.New(rc)
	if err != nil {
		logger.Warn("leaderboard unavailable", "error", err)
		return nil
	}
	return board
}
