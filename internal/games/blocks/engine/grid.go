package engine

import "time"

// Grid is the playfield: a fixed-width well of visible rows with a hidden
// buffer zone stacked above them. Logical row 0 is the top visible row; rows
// -1 down to -buffer are the buffer zone. Storage index = y + buffer.
type Grid struct {
	width  int
	height int
	buffer int
	kicks  *KickTable

	cells [][]uint8 // [row][col], row 0 is the top of the buffer zone

	// Garbage animation. Collision state never reads these.
	garbagePrev     [][]uint8
	garbageDuration time.Duration
	garbageElapsed  time.Duration
}

// NewGrid creates an empty playfield. Dimensions below one are raised to one;
// use Config.Normalize for gameplay clamping. A nil kick table is a wiring
// bug and panics.
func NewGrid(width, height, buffer int, kicks *KickTable) *Grid {
	if kicks == nil {
		panic("engine: NewGrid called with nil kick table")
	}
	width = max(width, 1)
	height = max(height, 1)
	buffer = max(buffer, 0)

	g := &Grid{
		width:  width,
		height: height,
		buffer: buffer,
		kicks:  kicks,
	}
	g.cells = makeRows(height+buffer, width)
	return g
}

func makeRows(rows, width int) [][]uint8 {
	out := make([][]uint8, rows)
	for i := range out {
		out[i] = make([]uint8, width)
	}
	return out
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of visible rows.
func (g *Grid) Height() int { return g.height }

// BufferHeight returns the number of hidden rows above the visible area.
func (g *Grid) BufferHeight() int { return g.buffer }

// KickTable returns the ruleset used by TryWallKick.
func (g *Grid) KickTable() *KickTable { return g.kicks }

// inBounds reports whether (x, y) addresses a stored cell.
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= -g.buffer && y < g.height
}

// Cell returns the cell value at (x, y). Out-of-range reads return 0.
func (g *Grid) Cell(x, y int) uint8 {
	if !g.inBounds(x, y) {
		return 0
	}
	return g.cells[y+g.buffer][x]
}

// SetCell writes a cell value. Out-of-range writes are dropped and report false.
func (g *Grid) SetCell(x, y int, v uint8) bool {
	if !g.inBounds(x, y) {
		return false
	}
	g.cells[y+g.buffer][x] = v
	return true
}

// Blocked reports whether (x, y) is occupied or outside the playfield.
func (g *Grid) Blocked(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return g.cells[y+g.buffer][x] != 0
}

// CanPlace reports whether every block of the shape, placed with its matrix
// origin at anchor, lies inside the playfield on an empty cell.
func (g *Grid) CanPlace(anchor Point, s Shape) bool {
	for row := 0; row < s.Size; row++ {
		for col := 0; col < s.Size; col++ {
			if !s.Cells[row][col] {
				continue
			}
			if g.Blocked(anchor.X+col, anchor.Y+row) {
				return false
			}
		}
	}
	return true
}

// TryWallKick walks the ruleset's candidates for the transition in order and
// returns the first offset at which the target shape fits. The zero offset is
// a legitimate result meaning the rotation needed no kick.
func (g *Grid) TryWallKick(anchor Point, target Shape, from, to Rotation, category KickCategory) (Point, bool) {
	for _, offset := range g.kicks.Offsets(from, to, category) {
		if g.CanPlace(anchor.Add(offset), target) {
			return offset, true
		}
	}
	return Point{}, false
}

// Lock writes the piece's blocks into the grid using its family as the cell
// value. The caller guarantees the placement is legal.
func (g *Grid) Lock(p *Piece) {
	v := uint8(p.Family)
	for _, b := range p.Blocks() {
		g.SetCell(b.X, b.Y, v)
	}
}

// rowFull reports whether every cell of a storage row is occupied.
func rowFull(row []uint8) bool {
	for _, c := range row {
		if c == 0 {
			return false
		}
	}
	return true
}

// FullRows returns the logical y of every full row, top to bottom.
func (g *Grid) FullRows() []int {
	var rows []int
	for i, row := range g.cells {
		if rowFull(row) {
			rows = append(rows, i-g.buffer)
		}
	}
	return rows
}

// ClearFullLines removes every full row and returns how many were removed.
// Rows are scanned bottom to top. After a removal the same index is tested
// again, since the row above has shifted into it.
func (g *Grid) ClearFullLines() int {
	cleared := 0
	for i := len(g.cells) - 1; i >= 0; {
		if !rowFull(g.cells[i]) {
			i--
			continue
		}
		removed := g.cells[i]
		copy(g.cells[1:i+1], g.cells[0:i])
		for x := range removed {
			removed[x] = 0
		}
		g.cells[0] = removed
		cleared++
	}
	return cleared
}

// ReceiveGarbage pushes rows in from the bottom of the well. Existing content
// moves up immediately and anything pushed past the top of the buffer zone is
// lost. Rows are padded or truncated to the grid width. anim only drives the
// visual transition reported by GarbageProgress.
//
// It reports false, changing nothing, while a previous animation is still
// running or when rows is empty.
func (g *Grid) ReceiveGarbage(rows [][]uint8, anim time.Duration) bool {
	if g.GarbageAnimating() || len(rows) == 0 {
		return false
	}
	total := len(g.cells)
	n := min(len(rows), total)
	rows = rows[len(rows)-n:]

	prev := g.Cells()

	// Rows 0..n-1 fall off the top; reuse their storage for the new rows.
	lost := make([][]uint8, n)
	copy(lost, g.cells[:n])
	copy(g.cells, g.cells[n:])
	for i, src := range rows {
		dst := lost[i]
		for x := range dst {
			dst[x] = 0
		}
		copy(dst, src)
		g.cells[total-n+i] = dst
	}

	if anim > 0 {
		g.garbagePrev = prev
		g.garbageDuration = anim
		g.garbageElapsed = 0
	}
	return true
}

// AdvanceGarbage moves the garbage animation forward. It never alters
// collision state.
func (g *Grid) AdvanceGarbage(dt time.Duration) {
	if !g.GarbageAnimating() {
		return
	}
	g.garbageElapsed += dt
	if g.garbageElapsed >= g.garbageDuration {
		g.garbagePrev = nil
		g.garbageDuration = 0
		g.garbageElapsed = 0
	}
}

// GarbageAnimating reports whether a garbage transition is still in progress.
func (g *Grid) GarbageAnimating() bool {
	return g.garbagePrev != nil
}

// GarbageProgress returns the animation progress in [0, 1]; 1 when idle.
func (g *Grid) GarbageProgress() float64 {
	if !g.GarbageAnimating() {
		return 1
	}
	return float64(g.garbageElapsed) / float64(g.garbageDuration)
}

// GarbageSnapshot returns the pre-garbage layout while an animation runs,
// or nil when idle.
func (g *Grid) GarbageSnapshot() [][]uint8 {
	if g.garbagePrev == nil {
		return nil
	}
	return copyRows(g.garbagePrev)
}

// Cells returns a copy of every stored row, buffer zone first.
func (g *Grid) Cells() [][]uint8 {
	return copyRows(g.cells)
}

func copyRows(src [][]uint8) [][]uint8 {
	out := make([][]uint8, len(src))
	for i, row := range src {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

// OccupiedCount returns the number of non-empty cells, buffer zone included.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c != 0 {
				n++
			}
		}
	}
	return n
}

// Empty reports whether no cell is occupied.
func (g *Grid) Empty() bool {
	return g.OccupiedCount() == 0
}

// Reset empties every cell and cancels any garbage animation.
func (g *Grid) Reset() {
	for _, row := range g.cells {
		for x := range row {
			row[x] = 0
		}
	}
	g.garbagePrev = nil
	g.garbageDuration = 0
	g.garbageElapsed = 0
}
