package config

// presetTuning holds the values a difficulty preset overrides.
type presetTuning struct {
	startLevel    int
	gravityBase   float64
	lockDelayMS   int
	maxLockResets int
}

var presets = map[DifficultyPreset]presetTuning{
	DifficultyEasy:   {startLevel: 1, gravityBase: 0.9, lockDelayMS: 1000, maxLockResets: 30},
	DifficultyNormal: {startLevel: 1, gravityBase: 0.8, lockDelayMS: 500, maxLockResets: 15},
	DifficultyHard:   {startLevel: 10, gravityBase: 0.8, lockDelayMS: 300, maxLockResets: 8},
}

// ApplyBlocksPreset modifies the config based on a difficulty preset.
// The fixed preset and unknown names leave the config as loaded.
func ApplyBlocksPreset(cfg *BlocksConfig, preset DifficultyPreset) {
	t, ok := presets[preset]
	if !ok {
		return
	}
	cfg.Rules.StartLevel = t.startLevel
	cfg.Gravity.Base = t.gravityBase
	cfg.Timing.LockDelayMS = t.lockDelayMS
	cfg.Timing.MaxLockResets = t.maxLockResets
}
