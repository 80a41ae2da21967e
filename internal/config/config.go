// Package config provides YAML-based configuration loading and difficulty
// presets for the block game.
package config

// BlocksConfig contains all configuration for the falling-block game.
type BlocksConfig struct {
	Board   BoardConfig   `yaml:"board"`
	Rules   RulesConfig   `yaml:"rules"`
	Gravity GravityConfig `yaml:"gravity"`
	Timing  TimingConfig  `yaml:"timing"`
	Spin    SpinConfig    `yaml:"spin"`
	Garbage GarbageConfig `yaml:"garbage"`
}

// BoardConfig defines the playfield dimensions.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Buffer int `yaml:"buffer"` // Hidden rows above the visible area
}

// RulesConfig selects the ruleset and session goals.
type RulesConfig struct {
	Ruleset    string `yaml:"ruleset"` // Kick table name: SRS, SRS+, SRS-X, ARS, none
	StartLevel int    `yaml:"start_level"`
	NextCount  int    `yaml:"next_count"` // Lookahead queue length
	LineGoal   int    `yaml:"line_goal"`  // 0 = marathon
}

// GravityConfig defines the fall speed curve.
type GravityConfig struct {
	Base           float64 `yaml:"base"`
	Decay          float64 `yaml:"decay"`
	MinIntervalMS  int     `yaml:"min_interval_ms"`
	SoftDropFactor int     `yaml:"soft_drop_factor"`
}

// TimingConfig defines lock delay and auto-repeat timings in milliseconds.
type TimingConfig struct {
	LockDelayMS      int `yaml:"lock_delay_ms"`
	MaxLockResets    int `yaml:"max_lock_resets"`
	LineClearDelayMS int `yaml:"line_clear_delay_ms"`
	DASMS            int `yaml:"das_ms"`
	ARRMS            int `yaml:"arr_ms"`
}

// SpinConfig toggles spin detection features.
type SpinConfig struct {
	DetectMini              bool `yaml:"detect_mini"`
	AllSpin                 bool `yaml:"all_spin"`
	AllSpinRequiresGrounded bool `yaml:"all_spin_requires_grounded"`
	AllSpinRequiresKick     bool `yaml:"all_spin_requires_kick"`
	TwistI                  bool `yaml:"twist_i"`
	TwistSZ                 bool `yaml:"twist_sz"`
	TwistJL                 bool `yaml:"twist_jl"`
	TwistO                  bool `yaml:"twist_o"`
}

// GarbageConfig controls the practice garbage feed.
type GarbageConfig struct {
	Enabled     bool `yaml:"enabled"`
	EveryPieces int  `yaml:"every_pieces"` // Insert garbage after this many locks
	Rows        int  `yaml:"rows"`
	AnimationMS int  `yaml:"animation_ms"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset returns the preset for a name, or false if it is unknown.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// IsFixedPreset returns true if the preset leaves the loaded config untouched.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
