package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// State is the phase of the piece lifecycle.
type State string

const (
	StateSpawning         State = "spawning"
	StateFalling          State = "falling"
	StateLocking          State = "locking"
	StateLocked           State = "locked"
	StateLineClearPending State = "line_clear_pending"
	StateGameOver         State = "game_over"
)

// Intent is a set of logical inputs held during one tick.
type Intent uint16

const (
	IntentMoveLeft Intent = 1 << iota
	IntentMoveRight
	IntentSoftDrop
	IntentHardDrop
	IntentRotateCW
	IntentRotateCCW
	IntentRotate180
	IntentHold
)

// Has reports whether every bit of x is set.
func (i Intent) Has(x Intent) bool {
	return i&x == x
}

// TickResult reports what happened during one Update.
type TickResult struct {
	Locked       bool
	Spin         SpinResult // classification of the lock, if any
	LinesCleared int        // lines removed this tick
	Points       int
	PerfectClear bool
	Spawned      bool
	Held         bool
	GameOver     bool
	Won          bool
}

// Stats are per-session counters.
type Stats struct {
	Pieces        int
	Holds         int
	Singles       int
	Doubles       int
	Triples       int
	Tetrises      int
	PerfectClears int
	MaxCombo      int
	SoftDropRows  int
	HardDropRows  int
	GarbageRows   int
	Spins         [SpinAll + 1]int // indexed by SpinKind
}

// TotalSpins returns the number of locks classified as any spin.
func (st Stats) TotalSpins() int {
	n := 0
	for k := SpinT; k <= SpinAll; k++ {
		n += st.Spins[k]
	}
	return n
}

// Session runs one game: it owns the grid, the active piece, the queue and
// all timers. It is not safe for concurrent use; drive it from one goroutine.
type Session struct {
	cfg    Config
	log    *log.Logger
	grid   *Grid
	bag    *Bag
	timing *Timing
	repeat *AutoRepeat
	scorer *Scorer
	stats  Stats

	state    State
	active   *Piece
	held     Family
	canHold  bool
	next     []Family
	prevHeld Intent
	lastSpin SpinResult
	pending  []int // rows waiting out the line-clear delay
	won      bool
	elapsed  time.Duration
}

// Option customises a Session at construction.
type Option func(*Session)

// WithLogger routes debug events to l. A nil logger keeps the default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithGrid plays on a prepared grid instead of an empty one. The grid's
// dimensions override the configured ones. Passing nil panics.
func WithGrid(g *Grid) Option {
	if g == nil {
		panic("engine: WithGrid called with nil grid")
	}
	return func(s *Session) {
		s.grid = g
	}
}

// NewSession normalizes cfg, fills the lookahead from a bag seeded with seed
// and spawns the first piece.
func NewSession(cfg Config, seed int64, opts ...Option) *Session {
	cfg = cfg.Normalize()
	s := &Session{
		cfg:     cfg,
		log:     log.New(io.Discard),
		bag:     NewBag(seed),
		timing:  NewTiming(cfg),
		repeat:  NewAutoRepeat(cfg.DAS, cfg.ARR),
		scorer:  NewScorer(cfg.StartLevel),
		canHold: true,
		state:   StateSpawning,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.grid == nil {
		s.grid = NewGrid(cfg.Width, cfg.Height, cfg.BufferHeight, KickTableOrDefault(cfg.Ruleset))
	}
	s.cfg.Width = s.grid.Width()
	s.cfg.Height = s.grid.Height()
	s.cfg.BufferHeight = s.grid.BufferHeight()
	s.cfg.Ruleset = s.grid.KickTable().Name

	s.next = make([]Family, 0, cfg.NextCount)
	for len(s.next) < cfg.NextCount {
		s.next = append(s.next, s.bag.Next())
	}
	s.spawn(s.nextFamily())
	return s
}

// nextFamily pops the head of the lookahead and tops it up from the bag.
func (s *Session) nextFamily() Family {
	if len(s.next) == 0 {
		return s.bag.Next()
	}
	f := s.next[0]
	copy(s.next, s.next[1:])
	s.next[len(s.next)-1] = s.bag.Next()
	return f
}

// spawnPoint centres the family's matrix horizontally, two rows above the
// visible area.
func (s *Session) spawnPoint(f Family) Point {
	size := ShapeOf(f, Rotation0).Size
	return Point{X: (s.grid.Width() - size) / 2, Y: -2}
}

// spawn places a fresh piece of family f. If it does not fit the session ends.
func (s *Session) spawn(f Family) bool {
	s.state = StateSpawning
	s.timing.StopLock()
	s.timing.ResetDrop()

	p := NewPiece(f, s.spawnPoint(f))
	if !p.Fits(s.grid) {
		s.active = nil
		s.topOut("spawn blocked", "family", f)
		return false
	}
	s.active = p
	s.state = StateFalling
	return true
}

func (s *Session) topOut(reason string, kv ...any) {
	s.state = StateGameOver
	s.log.Debug("top out", append([]any{"reason", reason, "score", s.scorer.Score}, kv...)...)
}

// Update advances the session by dt with the given intents held. Within a
// tick, intents are applied first, then gravity, then the lock-delay check,
// then any pending line clear is resolved.
func (s *Session) Update(dt time.Duration, held Intent) TickResult {
	var res TickResult
	if s.state == StateGameOver {
		res.GameOver = true
		res.Won = s.won
		return res
	}
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt
	s.grid.AdvanceGarbage(dt)

	pressed := held &^ s.prevHeld
	s.prevHeld = held

	if s.state == StateLineClearPending {
		// Keep DAS charging through the pause.
		s.repeat.Update(dt, held.Has(IntentMoveLeft), held.Has(IntentMoveRight))
		s.resolveClear(dt, &res)
		return s.finish(res)
	}

	s.applyIntents(dt, held, pressed, &res)
	if s.active != nil && !res.Locked {
		s.applyGravity(dt, held.Has(IntentSoftDrop))
		s.checkLock(dt, &res)
	}
	if s.state == StateLineClearPending {
		s.resolveClear(0, &res)
	}
	return s.finish(res)
}

func (s *Session) finish(res TickResult) TickResult {
	res.GameOver = s.state == StateGameOver
	res.Won = s.won
	return res
}

func (s *Session) applyIntents(dt time.Duration, held, pressed Intent, res *TickResult) {
	if pressed.Has(IntentHold) && s.Hold() {
		res.Held = true
		res.Spawned = s.active != nil
		if s.active == nil {
			return
		}
	}

	p := s.active
	moved := false
	if pressed.Has(IntentRotateCW) && p.RotateCW(s.grid) {
		moved = true
	}
	if pressed.Has(IntentRotateCCW) && p.RotateCCW(s.grid) {
		moved = true
	}
	if pressed.Has(IntentRotate180) && p.Rotate180(s.grid) {
		moved = true
	}

	shift := s.repeat.Update(dt, held.Has(IntentMoveLeft), held.Has(IntentMoveRight))
	if shift.Dir != 0 {
		steps := shift.Steps
		if shift.ToWall {
			steps = s.grid.Width()
		}
		for i := 0; i < steps; i++ {
			if !p.Move(s.grid, shift.Dir, 0) {
				break
			}
			moved = true
		}
	}

	if moved && s.timing.Locking() {
		s.timing.ResetLock()
	}

	if pressed.Has(IntentHardDrop) {
		rows := p.DropDistance(s.grid)
		if rows > 0 {
			p.Move(s.grid, 0, rows)
		}
		s.scorer.AddHardDrop(rows)
		s.stats.HardDropRows += rows
		s.lock(res)
	}
}

func (s *Session) applyGravity(dt time.Duration, soft bool) {
	p := s.active
	if p.Grounded(s.grid) {
		s.timing.ResetDrop()
		return
	}
	interval := s.cfg.Gravity.FallInterval(s.scorer.Level)
	if soft {
		interval /= time.Duration(s.cfg.SoftDropFactor)
	}
	rows := s.timing.AdvanceDrop(dt, interval)
	for i := 0; i < rows; i++ {
		if !p.Move(s.grid, 0, 1) {
			s.timing.ResetDrop()
			break
		}
		if soft {
			s.scorer.AddSoftDrop(1)
			s.stats.SoftDropRows++
		}
	}
}

func (s *Session) checkLock(dt time.Duration, res *TickResult) {
	p := s.active
	if !p.Grounded(s.grid) {
		s.timing.StopLock()
		s.state = StateFalling
		return
	}
	if !s.timing.Locking() {
		s.timing.StartLock()
		s.state = StateLocking
		if s.timing.LockExpired() {
			s.lock(res)
		}
		return
	}
	if s.timing.AdvanceLock(dt) {
		s.lock(res)
	}
}

// lock commits the active piece, scores it and either starts the line-clear
// pause or spawns the next piece.
func (s *Session) lock(res *TickResult) {
	p := s.active
	spin := DetectSpin(s.grid, p, s.cfg.Spin)
	s.grid.Lock(p)
	s.active = nil
	s.state = StateLocked
	s.timing.StopLock()
	s.timing.ResetDrop()
	s.canHold = true

	full := s.grid.FullRows()
	lines := len(full)
	result := spin.WithLines(lines)
	perfect := lines > 0 && s.grid.OccupiedCount() == lines*s.grid.Width()
	points := s.scorer.Award(result, perfect)

	s.lastSpin = result
	s.recordStats(result, perfect)

	res.Locked = true
	res.Spin = result
	res.Points += points
	res.PerfectClear = perfect

	s.log.Debug("lock",
		"family", p.Family,
		"rotation", p.Rotation,
		"x", p.Pos.X,
		"y", p.Pos.Y,
		"spin", result.String(),
		"lines", lines,
		"points", points,
	)

	if lines > 0 {
		s.pending = full
		s.state = StateLineClearPending
		s.timing.StartLineClear()
		return
	}
	s.advance(res)
}

func (s *Session) recordStats(r SpinResult, perfect bool) {
	s.stats.Pieces++
	if r.Kind != SpinNone {
		s.stats.Spins[r.Kind]++
	}
	switch r.Lines {
	case 1:
		s.stats.Singles++
	case 2:
		s.stats.Doubles++
	case 3:
		s.stats.Triples++
	case 4:
		s.stats.Tetrises++
	}
	if perfect {
		s.stats.PerfectClears++
	}
	s.stats.MaxCombo = max(s.stats.MaxCombo, s.scorer.Combo)
}

// resolveClear removes pending rows once the line-clear delay has elapsed.
func (s *Session) resolveClear(dt time.Duration, res *TickResult) {
	if !s.timing.AdvanceLineClear(dt) {
		return
	}
	n := s.grid.ClearFullLines()
	s.pending = nil
	res.LinesCleared += n
	s.log.Debug("lines cleared", "count", n, "total", s.scorer.Lines, "level", s.scorer.Level)
	s.advance(res)
}

// advance ends a sprint that reached its goal or spawns the next piece.
func (s *Session) advance(res *TickResult) {
	if s.cfg.LineGoal > 0 && s.scorer.Lines >= s.cfg.LineGoal {
		s.won = true
		s.state = StateGameOver
		s.log.Debug("goal reached", "lines", s.scorer.Lines, "elapsed", s.elapsed)
		return
	}
	if s.spawn(s.nextFamily()) {
		res.Spawned = true
	}
}

// Hold stores the active piece and brings out the held one, or the next
// queued piece when nothing is held. It is allowed once per piece; the
// permission returns on the next lock.
func (s *Session) Hold() bool {
	if !s.canHold || s.active == nil {
		return false
	}
	if s.state != StateFalling && s.state != StateLocking {
		return false
	}
	current := s.active.Family
	s.canHold = false
	s.stats.Holds++

	next := s.held
	s.held = current
	if next == FamilyNone {
		next = s.nextFamily()
	}
	s.spawn(next)
	return true
}

// ReceiveGarbage pushes rows in from the bottom. The active piece is lifted
// clear of the new rows; if no position above fits, the session tops out.
// It reports false while a previous garbage animation is still running.
func (s *Session) ReceiveGarbage(rows [][]uint8, anim time.Duration) bool {
	if s.state == StateGameOver {
		return false
	}
	if !s.grid.ReceiveGarbage(rows, anim) {
		return false
	}
	n := min(len(rows), s.grid.Height()+s.grid.BufferHeight())
	s.stats.GarbageRows += n
	s.log.Debug("garbage", "rows", n)

	// Rows waiting on a line clear ride up with the rest of the stack.
	if len(s.pending) > 0 {
		kept := s.pending[:0]
		for _, y := range s.pending {
			if y-n >= -s.grid.BufferHeight() {
				kept = append(kept, y-n)
			}
		}
		s.pending = kept
	}

	if p := s.active; p != nil && !p.Fits(s.grid) {
		shape := p.Shape()
		for dy := 1; dy <= n; dy++ {
			if s.grid.CanPlace(p.Pos.Add(Point{Y: -dy}), shape) {
				p.Pos.Y -= dy
				return true
			}
		}
		s.active = nil
		s.topOut("garbage overflow", "rows", n)
	}
	return true
}

// GarbageRows builds n garbage rows of the given width with a single empty
// column at hole. An out-of-range hole is clamped to the nearest column.
func GarbageRows(n, hole, width int) [][]uint8 {
	if n <= 0 || width <= 0 {
		return nil
	}
	hole = clampInt(hole, 0, width-1)
	rows := make([][]uint8, n)
	for i := range rows {
		row := make([]uint8, width)
		for x := range row {
			if x != hole {
				row[x] = CellGarbage
			}
		}
		rows[i] = row
	}
	return rows
}

// State returns the lifecycle phase.
func (s *Session) State() State { return s.state }

// GameOver reports whether the session has ended, by top-out or by reaching
// the line goal.
func (s *Session) GameOver() bool { return s.state == StateGameOver }

// Won reports whether the session ended by reaching its line goal.
func (s *Session) Won() bool { return s.won }

// Grid returns the playfield. Callers outside the engine should treat it as
// read-only.
func (s *Session) Grid() *Grid { return s.grid }

// Active returns a copy of the falling piece, or nil between pieces.
func (s *Session) Active() *Piece {
	if s.active == nil {
		return nil
	}
	return s.active.Clone()
}

// Held returns the held family, or FamilyNone.
func (s *Session) Held() Family { return s.held }

// CanHold reports whether Hold is currently permitted.
func (s *Session) CanHold() bool { return s.canHold }

// Next returns a copy of the lookahead queue.
func (s *Session) Next() []Family {
	return append([]Family(nil), s.next...)
}

// Score returns the current score.
func (s *Session) Score() int { return s.scorer.Score }

// Level returns the current level.
func (s *Session) Level() int { return s.scorer.Level }

// Lines returns the total lines cleared.
func (s *Session) Lines() int { return s.scorer.Lines }

// LastSpin returns the classification of the most recent lock.
func (s *Session) LastSpin() SpinResult { return s.lastSpin }

// Stats returns the session counters.
func (s *Session) Stats() Stats { return s.stats }

// Config returns the normalized configuration in use.
func (s *Session) Config() Config { return s.cfg }

// Elapsed returns total simulated time.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// GhostY returns the row the active piece's anchor would land on with a hard
// drop, or false when there is no active piece.
func (s *Session) GhostY() (int, bool) {
	if s.active == nil {
		return 0, false
	}
	return s.active.Pos.Y + s.active.DropDistance(s.grid), true
}
