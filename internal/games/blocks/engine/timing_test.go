package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func TestDropTimerCarriesRemainder(t *testing.T) {
	tm := NewTiming(DefaultConfig())

	assert.Equal(t, 0, tm.AdvanceDrop(70*ms, 100*ms))
	assert.Equal(t, 1, tm.AdvanceDrop(70*ms, 100*ms))
	assert.Equal(t, 1, tm.AdvanceDrop(70*ms, 100*ms))

	total := 2
	for i := 0; i < 7; i++ {
		total += tm.AdvanceDrop(70*ms, 100*ms)
	}
	assert.Equal(t, 7, total, "700ms at 100ms per row")

	assert.Equal(t, 3, tm.AdvanceDrop(300*ms, 100*ms), "one long tick drops several rows")

	tm.ResetDrop()
	assert.Equal(t, 0, tm.AdvanceDrop(99*ms, 100*ms))
}

func TestLockDelayBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockDelay = 500 * ms
	cfg.MaxLockResets = 15
	tm := NewTiming(cfg)

	assert.False(t, tm.ResetLock(), "no reset before the delay starts")

	tm.StartLock()
	lastAccepted, expiredAt := 0, 0
	for tick := 1; tick <= 1000; tick++ {
		if tm.AdvanceLock(10 * ms) {
			expiredAt = tick
			break
		}
		if tm.ResetLock() {
			lastAccepted = tick
		}
		require.LessOrEqual(t, tm.LockResets(), cfg.MaxLockResets)
	}

	require.NotZero(t, expiredAt, "lock delay never expired")
	assert.Equal(t, 15, tm.LockResets())
	assert.Equal(t, 15, lastAccepted)
	assert.Equal(t, cfg.LockDelay, time.Duration(expiredAt-lastAccepted)*10*ms)
}

func TestStopLockClearsCounter(t *testing.T) {
	tm := NewTiming(DefaultConfig())
	tm.StartLock()
	tm.AdvanceLock(100 * ms)
	require.True(t, tm.ResetLock())

	tm.StopLock()
	assert.False(t, tm.Locking())
	assert.Equal(t, 0, tm.LockResets())
	assert.Equal(t, time.Duration(0), tm.LockElapsed())
}

func TestZeroLockDelayExpiresImmediately(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockDelay = 0
	tm := NewTiming(cfg)
	tm.StartLock()
	assert.True(t, tm.LockExpired())
}

func TestTimingLineClearDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineClearDelay = 250 * ms
	tm := NewTiming(cfg)

	assert.False(t, tm.AdvanceLineClear(time.Second), "idle timer never fires")

	tm.StartLineClear()
	assert.True(t, tm.Clearing())
	assert.False(t, tm.AdvanceLineClear(100*ms))
	assert.False(t, tm.AdvanceLineClear(100*ms))
	assert.True(t, tm.AdvanceLineClear(100*ms))
	assert.False(t, tm.Clearing())
}

func TestAutoRepeat(t *testing.T) {
	a := NewAutoRepeat(100*ms, 20*ms)

	assert.Equal(t, Shift{Dir: -1, Steps: 1}, a.Update(10*ms, true, false), "initial press taps once")
	for i := 0; i < 9; i++ {
		assert.Equal(t, Shift{}, a.Update(10*ms, true, false), "charging tick %d", i)
	}
	assert.Equal(t, Shift{Dir: -1, Steps: 1}, a.Update(10*ms, true, false), "delay reached")
	assert.Equal(t, Shift{}, a.Update(10*ms, true, false))
	assert.Equal(t, Shift{Dir: -1, Steps: 1}, a.Update(10*ms, true, false), "repeat")
	assert.Equal(t, Shift{Dir: -1, Steps: 3}, a.Update(60*ms, true, false), "several repeats in one tick")

	assert.Equal(t, Shift{}, a.Update(10*ms, false, false))
	assert.Equal(t, 0, a.Charging())
}

func TestAutoRepeatOpposingDirection(t *testing.T) {
	a := NewAutoRepeat(100*ms, 20*ms)

	a.Update(10*ms, true, false)
	a.Update(50*ms, true, false)
	assert.Equal(t, Shift{Dir: 1, Steps: 1}, a.Update(10*ms, true, true), "newer press wins")
	assert.Equal(t, 1, a.Charging())

	// Releasing right while left is still down hands control back to left
	// without an extra tap, and left charges from zero.
	assert.Equal(t, Shift{}, a.Update(10*ms, true, false))
	assert.Equal(t, -1, a.Charging())
	assert.Equal(t, Shift{}, a.Update(90*ms, true, false))
	assert.Equal(t, Shift{Dir: -1, Steps: 1}, a.Update(10*ms, true, false))
}

func TestAutoRepeatAfterSimultaneousPress(t *testing.T) {
	a := NewAutoRepeat(100*ms, 20*ms)

	assert.Equal(t, Shift{}, a.Update(10*ms, true, true), "both at once cancel")
	assert.Equal(t, 0, a.Charging())
	assert.Equal(t, Shift{}, a.Update(10*ms, true, true), "still cancelled while both are down")

	// Letting go of left leaves right in charge, charging from zero.
	assert.Equal(t, Shift{}, a.Update(10*ms, false, true))
	assert.Equal(t, 1, a.Charging())
	assert.Equal(t, Shift{}, a.Update(90*ms, false, true))
	assert.Equal(t, Shift{Dir: 1, Steps: 1}, a.Update(10*ms, false, true))
}

func TestAutoRepeatInstantRate(t *testing.T) {
	a := NewAutoRepeat(50*ms, 0)
	a.Update(10*ms, false, true)
	assert.Equal(t, Shift{}, a.Update(40*ms, false, true))
	assert.Equal(t, Shift{Dir: 1, Steps: 1, ToWall: true}, a.Update(10*ms, false, true))
}
