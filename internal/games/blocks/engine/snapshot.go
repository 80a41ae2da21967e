package engine

import "time"

// PieceView is a read-only description of a piece for presentation.
type PieceView struct {
	Family   Family
	Rotation Rotation
	Pos      Point
	Blocks   []Point // grid coordinates of the four cells
}

// Snapshot captures the full observable state of a session.
type Snapshot struct {
	Width        int
	Height       int
	BufferHeight int
	Cells        [][]uint8 // buffer rows first; Cells[y+BufferHeight][x]

	Active  *PieceView
	GhostY  int
	Held    Family
	CanHold bool
	Next    []Family

	Score      int
	Level      int
	Lines      int
	Combo      int
	BackToBack bool

	State       State
	GameOver    bool
	Won         bool
	LastSpin    SpinResult
	PendingRows []int

	GarbageProgress float64
	LockResets      int
	Stats           Stats
	Elapsed         time.Duration
	Ruleset         string
}

// Snapshot returns a deep copy of the session's observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Width:           s.grid.Width(),
		Height:          s.grid.Height(),
		BufferHeight:    s.grid.BufferHeight(),
		Cells:           s.grid.Cells(),
		Held:            s.held,
		CanHold:         s.canHold,
		Next:            s.Next(),
		Score:           s.scorer.Score,
		Level:           s.scorer.Level,
		Lines:           s.scorer.Lines,
		Combo:           max(s.scorer.Combo, 0),
		BackToBack:      s.scorer.BackToBack,
		State:           s.state,
		GameOver:        s.GameOver(),
		Won:             s.won,
		LastSpin:        s.lastSpin,
		PendingRows:     append([]int(nil), s.pending...),
		GarbageProgress: s.grid.GarbageProgress(),
		LockResets:      s.timing.LockResets(),
		Stats:           s.stats,
		Elapsed:         s.elapsed,
		Ruleset:         s.cfg.Ruleset,
	}
	if p := s.active; p != nil {
		snap.Active = &PieceView{
			Family:   p.Family,
			Rotation: p.Rotation,
			Pos:      p.Pos,
			Blocks:   p.Blocks(),
		}
		snap.GhostY, _ = s.GhostY()
	}
	return snap
}

// CellAt returns the snapshot cell at logical (x, y), or 0 out of range.
func (snap Snapshot) CellAt(x, y int) uint8 {
	row := y + snap.BufferHeight
	if x < 0 || x >= snap.Width || row < 0 || row >= len(snap.Cells) {
		return 0
	}
	return snap.Cells[row][x]
}
