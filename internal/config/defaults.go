package config

import (
	_ "embed"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the default block game configuration.
// It mirrors defaults/blocks.yaml and is used when the embedded file cannot be parsed.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
			Buffer: 20,
		},
		Rules: RulesConfig{
			Ruleset:    "SRS",
			StartLevel: 1,
			NextCount:  5,
			LineGoal:   0,
		},
		Gravity: GravityConfig{
			Base:           0.8,
			Decay:          0.007,
			MinIntervalMS:  1,
			SoftDropFactor: 20,
		},
		Timing: TimingConfig{
			LockDelayMS:      500,
			MaxLockResets:    15,
			LineClearDelayMS: 0,
			DASMS:            167,
			ARRMS:            33,
		},
		Spin: SpinConfig{
			DetectMini:              true,
			AllSpin:                 false,
			AllSpinRequiresGrounded: true,
			AllSpinRequiresKick:     true,
			TwistI:                  true,
			TwistSZ:                 true,
			TwistJL:                 true,
			TwistO:                  true,
		},
		Garbage: GarbageConfig{
			Enabled:     false,
			EveryPieces: 8,
			Rows:        1,
			AnimationMS: 150,
		},
	}
}
