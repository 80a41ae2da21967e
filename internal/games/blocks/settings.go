package blocks

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
)

// Package-level settings shared by every game the registry creates.
// The CLI sets them once before the first Reset.
var (
	settingsMu sync.RWMutex
	settings   = config.DefaultBlocksConfig()
	logger     = log.New(io.Discard)
)

// Configure replaces the configuration used by subsequent Resets.
func Configure(cfg config.BlocksConfig) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = cfg
}

// Settings returns the configuration used by subsequent Resets.
func Settings() config.BlocksConfig {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// SetLogger routes engine debug events of subsequently reset games to l.
// A nil logger discards them.
func SetLogger(l *log.Logger) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func currentLogger() *log.Logger {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return logger
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// EngineConfig converts the YAML configuration into engine settings.
// Out-of-range values are left for engine.Config.Normalize to clamp.
func EngineConfig(cfg config.BlocksConfig) engine.Config {
	return engine.Config{
		Width:        cfg.Board.Width,
		Height:       cfg.Board.Height,
		BufferHeight: cfg.Board.Buffer,
		StartLevel:   cfg.Rules.StartLevel,
		NextCount:    cfg.Rules.NextCount,
		Ruleset:      cfg.Rules.Ruleset,
		LineGoal:     cfg.Rules.LineGoal,
		Gravity: engine.GravityConfig{
			Base:        cfg.Gravity.Base,
			Decay:       cfg.Gravity.Decay,
			MinInterval: millis(cfg.Gravity.MinIntervalMS),
		},
		SoftDropFactor: cfg.Gravity.SoftDropFactor,
		LockDelay:      millis(cfg.Timing.LockDelayMS),
		MaxLockResets:  cfg.Timing.MaxLockResets,
		LineClearDelay: millis(cfg.Timing.LineClearDelayMS),
		DAS:            millis(cfg.Timing.DASMS),
		ARR:            millis(cfg.Timing.ARRMS),
		Spin: engine.SpinRules{
			DetectMini:              cfg.Spin.DetectMini,
			AllSpin:                 cfg.Spin.AllSpin,
			AllSpinRequiresGrounded: cfg.Spin.AllSpinRequiresGrounded,
			AllSpinRequiresKick:     cfg.Spin.AllSpinRequiresKick,
			TwistI:                  cfg.Spin.TwistI,
			TwistSZ:                 cfg.Spin.TwistSZ,
			TwistJL:                 cfg.Spin.TwistJL,
			TwistO:                  cfg.Spin.TwistO,
		},
	}
}
