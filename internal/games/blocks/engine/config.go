package engine

import (
	"math"
	"time"
)

// GravityConfig parameterises the fall curve
// interval = (Base - (level-1)*Decay)^(level-1) seconds.
type GravityConfig struct {
	Base        float64
	Decay       float64
	MinInterval time.Duration // fastest allowed fall interval
}

// Config holds everything a session needs at construction.
// Out-of-range values are clamped by Normalize, never rejected.
type Config struct {
	Width        int
	Height       int
	BufferHeight int
	StartLevel   int
	NextCount    int
	Ruleset      string

	Gravity        GravityConfig
	SoftDropFactor int

	LockDelay      time.Duration
	MaxLockResets  int
	LineClearDelay time.Duration
	DAS            time.Duration
	ARR            time.Duration

	Spin SpinRules

	// LineGoal ends the session as a win once this many lines are cleared.
	// Zero plays until top-out.
	LineGoal int
}

// DefaultConfig returns guideline marathon settings.
func DefaultConfig() Config {
	return Config{
		Width:        10,
		Height:       20,
		BufferHeight: 20,
		StartLevel:   1,
		NextCount:    5,
		Ruleset:      DefaultKickTable,
		Gravity: GravityConfig{
			Base:        0.8,
			Decay:       0.007,
			MinInterval: time.Millisecond,
		},
		SoftDropFactor: 20,
		LockDelay:      500 * time.Millisecond,
		MaxLockResets:  15,
		DAS:            167 * time.Millisecond,
		ARR:            33 * time.Millisecond,
		Spin:           DefaultSpinRules(),
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	return max(lo, min(v, hi))
}

// Normalize returns a copy with every field forced into its safe range.
func (c Config) Normalize() Config {
	def := DefaultConfig()

	// Unset dimensions take the standard board rather than the minimum.
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.BufferHeight <= 0 {
		c.BufferHeight = def.BufferHeight
	}
	c.Width = clampInt(c.Width, 4, 40)
	c.Height = clampInt(c.Height, 4, 60)
	c.BufferHeight = clampInt(c.BufferHeight, 2, 40)
	c.StartLevel = clampInt(c.StartLevel, 1, 30)
	c.NextCount = clampInt(c.NextCount, 0, 7)
	if _, ok := LookupKickTable(c.Ruleset); !ok {
		c.Ruleset = DefaultKickTable
	}

	if !(c.Gravity.Base > 0 && c.Gravity.Base <= 1) {
		c.Gravity.Base = def.Gravity.Base
	}
	if !(c.Gravity.Decay >= 0 && c.Gravity.Decay <= 0.1) {
		c.Gravity.Decay = def.Gravity.Decay
	}
	if c.Gravity.MinInterval <= 0 {
		c.Gravity.MinInterval = def.Gravity.MinInterval
	}
	c.SoftDropFactor = clampInt(c.SoftDropFactor, 1, 100)

	c.LockDelay = clampDuration(c.LockDelay, 0, 5*time.Second)
	c.MaxLockResets = clampInt(c.MaxLockResets, 0, 100)
	c.LineClearDelay = clampDuration(c.LineClearDelay, 0, 2*time.Second)
	c.DAS = clampDuration(c.DAS, 0, time.Second)
	c.ARR = clampDuration(c.ARR, 0, 500*time.Millisecond)
	c.LineGoal = max(c.LineGoal, 0)
	return c
}

// FallInterval returns the time per gravity row at a level.
func (g GravityConfig) FallInterval(level int) time.Duration {
	level = max(level, 1)
	base := g.Base - float64(level-1)*g.Decay
	if base <= 0 {
		return g.MinInterval
	}
	secs := math.Pow(base, float64(level-1))
	d := time.Duration(secs * float64(time.Second))
	return max(d, g.MinInterval)
}
