package engine

import "time"

// Timing owns the per-session accumulators: gravity, lock delay and the
// line-clear pause. All of them advance by caller-supplied elapsed time, so
// behaviour does not depend on the tick rate.
type Timing struct {
	lockDelay      time.Duration
	maxLockResets  int
	lineClearDelay time.Duration

	drop time.Duration

	locking    bool
	lock       time.Duration
	lockResets int

	clearing  bool
	lineClear time.Duration
}

// NewTiming builds timers from a normalized config.
func NewTiming(cfg Config) *Timing {
	return &Timing{
		lockDelay:      cfg.LockDelay,
		maxLockResets:  cfg.MaxLockResets,
		lineClearDelay: cfg.LineClearDelay,
	}
}

// AdvanceDrop accumulates dt and returns how many gravity rows are due at the
// given interval. The remainder carries into the next tick.
func (t *Timing) AdvanceDrop(dt, interval time.Duration) int {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	t.drop += dt
	rows := int(t.drop / interval)
	t.drop -= time.Duration(rows) * interval
	return rows
}

// ResetDrop discards accumulated gravity time.
func (t *Timing) ResetDrop() {
	t.drop = 0
}

// Locking reports whether the lock-delay timer is running.
func (t *Timing) Locking() bool {
	return t.locking
}

// StartLock begins the lock delay if it is not already running.
func (t *Timing) StartLock() {
	if t.locking {
		return
	}
	t.locking = true
	t.lock = 0
}

// AdvanceLock adds dt to a running lock delay and reports whether it expired.
func (t *Timing) AdvanceLock(dt time.Duration) bool {
	if !t.locking {
		return false
	}
	t.lock += dt
	return t.LockExpired()
}

// LockExpired reports whether a running lock delay has reached its duration.
func (t *Timing) LockExpired() bool {
	return t.locking && t.lock >= t.lockDelay
}

// ResetLock restarts a running lock delay after a successful move or
// rotation. Once the reset budget is spent further calls are ignored and
// report false.
func (t *Timing) ResetLock() bool {
	if !t.locking || t.lockResets >= t.maxLockResets {
		return false
	}
	t.lock = 0
	t.lockResets++
	return true
}

// StopLock clears the lock delay and its reset counter. It runs when the
// piece can fall again and when a new piece spawns.
func (t *Timing) StopLock() {
	t.locking = false
	t.lock = 0
	t.lockResets = 0
}

// LockResets returns how many resets the current piece has used.
func (t *Timing) LockResets() int {
	return t.lockResets
}

// LockElapsed returns time since the lock delay started or was last reset.
func (t *Timing) LockElapsed() time.Duration {
	return t.lock
}

// StartLineClear begins the line-clear pause.
func (t *Timing) StartLineClear() {
	t.clearing = true
	t.lineClear = 0
}

// Clearing reports whether a line-clear pause is in progress.
func (t *Timing) Clearing() bool {
	return t.clearing
}

// AdvanceLineClear adds dt and reports whether the pause is over. The pause
// ends itself once it reports true.
func (t *Timing) AdvanceLineClear(dt time.Duration) bool {
	if !t.clearing {
		return false
	}
	t.lineClear += dt
	if t.lineClear < t.lineClearDelay {
		return false
	}
	t.clearing = false
	t.lineClear = 0
	return true
}

// Shift is the horizontal movement produced by one auto-repeat update.
type Shift struct {
	Dir    int  // -1 left, +1 right, 0 none
	Steps  int  // cells to move this tick
	ToWall bool // move as far as possible (zero repeat rate)
}

// AutoRepeat implements DAS/ARR for the two horizontal directions. Presses
// are detected as edges against the previous update's held state, since
// callers report what is held rather than what changed.
type AutoRepeat struct {
	das time.Duration
	arr time.Duration

	dir     int
	charge  time.Duration
	charged bool

	prevLeft  bool
	prevRight bool
}

// NewAutoRepeat returns a repeater with the given delay and rate.
func NewAutoRepeat(das, arr time.Duration) *AutoRepeat {
	return &AutoRepeat{das: das, arr: arr}
}

// Update consumes one tick of held state.
func (a *AutoRepeat) Update(dt time.Duration, left, right bool) Shift {
	pressLeft := left && !a.prevLeft
	pressRight := right && !a.prevRight
	a.prevLeft, a.prevRight = left, right

	switch {
	case pressLeft && pressRight:
		a.stop()
		return Shift{}
	case pressLeft:
		a.begin(-1)
		return Shift{Dir: -1, Steps: 1}
	case pressRight:
		a.begin(1)
		return Shift{Dir: 1, Steps: 1}
	}

	if !a.held(a.dir, left, right) {
		// The active key went up, or a simultaneous press cancelled both.
		// Fall back to whichever single key is still down, without an
		// extra tap.
		switch {
		case right && !left:
			a.begin(1)
		case left && !right:
			a.begin(-1)
		default:
			a.stop()
		}
		return Shift{}
	}
	return a.repeat(dt)
}

func (a *AutoRepeat) held(dir int, left, right bool) bool {
	return (dir == -1 && left) || (dir == 1 && right)
}

func (a *AutoRepeat) begin(dir int) {
	a.dir = dir
	a.charge = 0
	a.charged = false
}

func (a *AutoRepeat) stop() {
	a.begin(0)
}

func (a *AutoRepeat) repeat(dt time.Duration) Shift {
	a.charge += dt
	s := Shift{Dir: a.dir}
	if !a.charged {
		if a.charge < a.das {
			return Shift{}
		}
		a.charged = true
		a.charge -= a.das
		s.Steps = 1
	}
	if a.arr <= 0 {
		s.ToWall = true
		a.charge = 0
		return s
	}
	n := int(a.charge / a.arr)
	a.charge -= time.Duration(n) * a.arr
	s.Steps += n
	if s.Steps == 0 {
		return Shift{}
	}
	return s
}

// Reset forgets all charge and held state.
func (a *AutoRepeat) Reset() {
	a.stop()
	a.prevLeft, a.prevRight = false, false
}

// Charging reports the active direction, or 0.
func (a *AutoRepeat) Charging() int {
	return a.dir
}
