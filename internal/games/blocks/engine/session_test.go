package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 16 * time.Millisecond

func TestSessionDeterminism(t *testing.T) {
	script := []Intent{
		0, IntentMoveLeft, IntentMoveLeft, 0, IntentRotateCW, 0, IntentHardDrop, 0,
		IntentMoveRight, IntentMoveRight, IntentMoveRight, 0, IntentHold, 0, IntentSoftDrop,
		IntentSoftDrop, IntentSoftDrop, 0, IntentRotateCCW, IntentHardDrop,
	}

	run := func() Snapshot {
		s := NewSession(DefaultConfig(), 2024)
		for i := 0; i < 400; i++ {
			s.Update(tick, script[i%len(script)])
		}
		return s.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestSessionStartsFalling(t *testing.T) {
	s := NewSession(DefaultConfig(), 1)
	snap := s.Snapshot()

	require.NotNil(t, snap.Active)
	assert.Equal(t, StateFalling, snap.State)
	assert.Len(t, snap.Next, 5)
	assert.Equal(t, FamilyNone, snap.Held)
	assert.True(t, snap.CanHold)
	assert.Equal(t, -2, snap.Active.Pos.Y)
	assert.Equal(t, 1, snap.Level)
}

func TestWithGridPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { WithGrid(nil) })
}

func TestHoldLockOut(t *testing.T) {
	s := NewSession(DefaultConfig(), 3)
	first := s.Active().Family
	queued := s.Next()[0]

	require.True(t, s.Hold())
	assert.Equal(t, first, s.Held())
	assert.Equal(t, queued, s.Active().Family)
	assert.False(t, s.CanHold())

	active := s.Active()
	held := s.Held()
	assert.False(t, s.Hold(), "second hold before a lock is refused")
	assert.Equal(t, active, s.Active())
	assert.Equal(t, held, s.Held())

	res := s.Update(tick, IntentHardDrop)
	require.True(t, res.Locked)
	assert.True(t, s.CanHold())

	next := s.Active().Family
	require.True(t, s.Hold())
	assert.Equal(t, first, s.Active().Family, "swap brings the held piece back")
	assert.Equal(t, next, s.Held())
}

func TestHoldResetsPieceState(t *testing.T) {
	s := NewSession(DefaultConfig(), 3)
	s.Update(tick, IntentMoveLeft)
	s.Update(tick, IntentRotateCW)
	s.Update(tick, 0)
	first := s.Active().Family

	require.True(t, s.Hold())
	s.Update(tick, IntentHardDrop)
	require.True(t, s.Hold())

	p := s.Active()
	require.Equal(t, first, p.Family)
	assert.Equal(t, Rotation0, p.Rotation)
	assert.Equal(t, s.spawnPoint(first), p.Pos)
	assert.False(t, p.LastRotated)
}

func TestSpawnGameOver(t *testing.T) {
	s := NewSession(DefaultConfig(), 5)
	g := s.Grid()
	for y := -2; y <= -1; y++ {
		for x := 3; x <= 6; x++ {
			g.SetCell(x, y, uint8(FamilyZ))
		}
	}
	s.active.Pos = Point{0, 10}

	res := s.Update(tick, IntentHardDrop)
	assert.True(t, res.Locked)
	assert.False(t, res.Spawned)
	assert.True(t, res.GameOver)
	assert.Equal(t, StateGameOver, s.State())
	assert.Nil(t, s.Active())

	res = s.Update(tick, IntentMoveLeft)
	assert.True(t, res.GameOver, "terminal state ignores further ticks")
}

func TestTSpinDoubleThroughSession(t *testing.T) {
	s := NewSession(DefaultConfig(), 9, WithGrid(tSpinDoubleGrid(t)))
	s.active = &Piece{Family: FamilyT, Rotation: RotationR, Pos: Point{2, 16}}

	res := s.Update(tick, IntentRotateCW)
	require.False(t, res.Locked)
	assert.Equal(t, StateLocking, s.State())

	res = s.Update(tick, IntentHardDrop)
	require.True(t, res.Locked)
	assert.Equal(t, TSpinDouble, res.Spin.Variant)
	assert.False(t, res.Spin.Mini)
	assert.Equal(t, 2, res.LinesCleared)
	assert.Equal(t, 1200, res.Points)
	assert.True(t, res.Spawned)

	assert.Equal(t, 2, s.Lines())
	assert.Equal(t, 1200, s.Score())
	assert.Equal(t, TSpinDouble, s.LastSpin().Variant)
	assert.Equal(t, 1, s.Stats().Spins[SpinT])
	assert.Equal(t, 1, s.Stats().TotalSpins())
}

func TestGravityMovesPiece(t *testing.T) {
	s := NewSession(DefaultConfig(), 11)
	startY := s.Active().Pos.Y

	for i := 0; i < 63; i++ {
		s.Update(tick, 0)
	}
	assert.Equal(t, startY+1, s.Active().Pos.Y, "level 1 falls one row per second")
	assert.False(t, s.Active().LastRotated)
}

func TestSoftDropScoresPerRow(t *testing.T) {
	s := NewSession(DefaultConfig(), 11)
	startY := s.Active().Pos.Y

	// 20x gravity at level 1 is 50ms per row.
	s.Update(50*time.Millisecond, IntentSoftDrop)
	s.Update(100*time.Millisecond, IntentSoftDrop)
	assert.Equal(t, startY+3, s.Active().Pos.Y)
	assert.Equal(t, 3, s.Score())
	assert.Equal(t, 3, s.Stats().SoftDropRows)
}

func TestHardDropScoresPerRow(t *testing.T) {
	s := NewSession(DefaultConfig(), 11)
	rows := s.active.DropDistance(s.grid)

	res := s.Update(tick, IntentHardDrop)
	require.True(t, res.Locked)
	assert.Equal(t, 2*rows, s.Score())
	assert.Equal(t, 1, s.Stats().Pieces)
}

func TestLockDelayInSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockDelay = 500 * time.Millisecond
	s := NewSession(cfg, 13)
	s.active = NewPiece(FamilyO, Point{4, 18})

	locked := 0
	for i := 1; i <= 10; i++ {
		if s.Update(100*time.Millisecond, 0).Locked {
			locked = i
			break
		}
	}
	// The first grounded tick starts the timer; five more reach 500ms.
	assert.Equal(t, 6, locked)
}

func TestLockResetsAreBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockDelay = 200 * time.Millisecond
	cfg.MaxLockResets = 3
	s := NewSession(cfg, 13)
	s.active = NewPiece(FamilyO, Point{4, 18})

	locked := false
	for i := 0; i < 100 && !locked; i++ {
		var in Intent
		if i%2 == 1 {
			in = IntentRotateCW // the O rotates in place, which still counts
		}
		locked = s.Update(50*time.Millisecond, in).Locked
		if !locked {
			require.LessOrEqual(t, s.Snapshot().LockResets, cfg.MaxLockResets)
		}
	}
	assert.True(t, locked, "endless rotation must not stall the lock")
}

func TestRegainingMobilityStopsLockDelay(t *testing.T) {
	s := NewSession(DefaultConfig(), 13)
	g := s.Grid()
	g.SetCell(4, 10, 1)
	s.active = NewPiece(FamilyO, Point{4, 8}) // resting on the single cell

	s.Update(tick, 0)
	require.Equal(t, StateLocking, s.State())

	// Slide off the ledge: the piece can fall again.
	s.Update(tick, IntentMoveRight)
	assert.Equal(t, StateFalling, s.State())
	assert.Equal(t, 0, s.Snapshot().LockResets)
}

func TestLineClearDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineClearDelay = 200 * time.Millisecond
	s := NewSession(cfg, 17)
	fillRow(s.Grid(), 19, uint8(FamilyJ), 0, 1, 2, 3)
	s.active = NewPiece(FamilyI, Point{0, 18})

	res := s.Update(tick, IntentHardDrop)
	require.True(t, res.Locked)
	assert.Equal(t, 0, res.LinesCleared)
	assert.True(t, res.PerfectClear)
	assert.Equal(t, 100+800, res.Points)
	assert.Equal(t, StateLineClearPending, s.State())
	assert.Equal(t, []int{19}, s.Snapshot().PendingRows)
	assert.Nil(t, s.Active())

	res = s.Update(100*time.Millisecond, IntentHold)
	assert.Equal(t, 0, res.LinesCleared, "intents are ignored during the pause")
	assert.Equal(t, FamilyNone, s.Held())

	res = s.Update(100*time.Millisecond, 0)
	assert.Equal(t, 1, res.LinesCleared)
	assert.True(t, res.Spawned)
	assert.Equal(t, StateFalling, s.State())
	assert.True(t, s.Grid().Empty())
}

func TestGarbageDuringLineClearShiftsPendingRows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineClearDelay = 200 * time.Millisecond
	s := NewSession(cfg, 17)
	fillRow(s.Grid(), 19, uint8(FamilyJ), 0, 1, 2, 3)
	s.active = NewPiece(FamilyI, Point{0, 18})

	require.True(t, s.Update(tick, IntentHardDrop).Locked)
	require.Equal(t, []int{19}, s.Snapshot().PendingRows)

	require.True(t, s.ReceiveGarbage(GarbageRows(2, 0, 10), 0))
	assert.Equal(t, []int{17}, s.Snapshot().PendingRows)
	assert.Equal(t, StateLineClearPending, s.State())

	res := s.Update(200*time.Millisecond, 0)
	assert.Equal(t, 1, res.LinesCleared)
	assert.Empty(t, s.Snapshot().PendingRows)
	assert.Equal(t, 18, s.Grid().OccupiedCount(), "two garbage rows with one hole each")
}

func TestMoveOnExpiryTickDefersLock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockDelay = 200 * time.Millisecond
	const dt = 50 * time.Millisecond

	// Find the tick on which an untouched grounded piece locks.
	ref := NewSession(cfg, 13)
	ref.active = NewPiece(FamilyO, Point{4, 18})
	expiry := 0
	for i := 1; i <= 20 && expiry == 0; i++ {
		if ref.Update(dt, 0).Locked {
			expiry = i
		}
	}
	require.NotZero(t, expiry)

	s := NewSession(cfg, 13)
	s.active = NewPiece(FamilyO, Point{4, 18})
	for i := 1; i < expiry; i++ {
		require.False(t, s.Update(dt, 0).Locked)
	}
	require.Equal(t, StateLocking, s.State())

	res := s.Update(dt, IntentMoveLeft)
	assert.False(t, res.Locked, "the move lands before the lock decision")
	assert.Equal(t, StateLocking, s.State())
	require.NotNil(t, s.Active())
	assert.Equal(t, 3, s.Active().Pos.X)
	assert.Equal(t, 1, s.Snapshot().LockResets)
}

func TestLockFollowsLastResetWithinDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockDelay = 200 * time.Millisecond
	cfg.MaxLockResets = 2
	const dt = 10 * time.Millisecond
	s := NewSession(cfg, 13)
	s.active = NewPiece(FamilyO, Point{4, 18})

	var lastReset time.Duration
	resets := 0
	locked := false
	for i := 0; i < 200 && !locked; i++ {
		var in Intent
		if i%2 == 1 {
			in = IntentRotateCW
		}
		locked = s.Update(dt, in).Locked
		if !locked {
			if r := s.Snapshot().LockResets; r > resets {
				resets = r
				lastReset = s.Elapsed()
			}
		}
	}
	require.True(t, locked)
	require.Equal(t, cfg.MaxLockResets, resets)
	assert.LessOrEqual(t, s.Elapsed()-lastReset, cfg.LockDelay+dt)
}

func TestSprintGoal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineGoal = 1
	s := NewSession(cfg, 17)
	fillRow(s.Grid(), 19, uint8(FamilyJ), 0, 1, 2, 3)
	s.active = NewPiece(FamilyI, Point{0, 18})

	res := s.Update(tick, IntentHardDrop)
	assert.True(t, res.GameOver)
	assert.True(t, res.Won)
	assert.True(t, s.Snapshot().Won)
}

func TestGarbageLiftsActivePiece(t *testing.T) {
	s := NewSession(DefaultConfig(), 19)
	s.active = NewPiece(FamilyO, Point{4, 18})

	require.True(t, s.ReceiveGarbage(GarbageRows(2, 0, 10), 0))
	assert.Equal(t, Point{4, 16}, s.Active().Pos)
	assert.True(t, s.Active().Fits(s.Grid()))
	assert.Equal(t, 20, s.Grid().Height())
	assert.Equal(t, 2, s.Stats().GarbageRows)
}

func TestGarbageRejectedWhileAnimating(t *testing.T) {
	s := NewSession(DefaultConfig(), 19)
	require.True(t, s.ReceiveGarbage(GarbageRows(1, 0, 10), 100*time.Millisecond))
	assert.False(t, s.ReceiveGarbage(GarbageRows(1, 0, 10), 0))

	s.Update(100*time.Millisecond, 0)
	assert.True(t, s.ReceiveGarbage(GarbageRows(1, 0, 10), 0))
}

func TestGarbageTopOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = 4
	cfg.BufferHeight = 2
	s := NewSession(cfg, 23)
	require.NotNil(t, s.Active())

	require.True(t, s.ReceiveGarbage(GarbageRows(6, 0, 10), 0))
	assert.True(t, s.GameOver())
	assert.False(t, s.Won())
}

func TestGarbageRowsHole(t *testing.T) {
	rows := GarbageRows(3, 42, 10)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, uint8(0), row[9], "hole clamped to the last column")
		assert.Equal(t, CellGarbage, row[0])
	}
	assert.Nil(t, GarbageRows(0, 0, 10))
}

func TestAutoShiftToWall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DAS = 100 * time.Millisecond
	cfg.ARR = 0
	s := NewSession(cfg, 29)

	for i := 0; i < 10; i++ {
		s.Update(tick, IntentMoveLeft)
	}
	minX := s.Grid().Width()
	for _, b := range s.Active().Blocks() {
		minX = min(minX, b.X)
	}
	assert.Equal(t, 0, minX)
}

func TestGhostY(t *testing.T) {
	s := NewSession(DefaultConfig(), 31)
	s.active = NewPiece(FamilyO, Point{4, 0})
	y, ok := s.GhostY()
	require.True(t, ok)
	assert.Equal(t, 18, y)
	assert.Equal(t, 18, s.Snapshot().GhostY)
}

func TestNextCountZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NextCount = 0
	s := NewSession(cfg, 37)
	assert.Empty(t, s.Next())
	require.True(t, s.Hold())
	assert.NotNil(t, s.Active())
}
