package engine

// Piece is the active falling piece. Shape data is resolved from Family and
// Rotation on demand; the piece itself only carries its position and the
// history the spin classifier needs.
type Piece struct {
	Family   Family
	Rotation Rotation
	Pos      Point // top-left of the rotation matrix in grid coordinates

	// LastKick is the offset chosen by the most recent successful rotation.
	LastKick Point
	// LastRotated is true when the most recent successful action was a rotation.
	LastRotated bool
}

// NewPiece returns a piece of the given family in spawn orientation at pos.
func NewPiece(f Family, pos Point) *Piece {
	return &Piece{Family: f, Pos: pos}
}

// Shape returns the occupancy matrix of the current rotation.
func (p *Piece) Shape() Shape {
	return ShapeOf(p.Family, p.Rotation)
}

// Blocks returns the grid coordinates of the four occupied cells.
func (p *Piece) Blocks() []Point {
	blocks := p.Shape().Blocks()
	for i := range blocks {
		blocks[i] = blocks[i].Add(p.Pos)
	}
	return blocks
}

// Kicked reports whether the last rotation needed a nonzero offset.
func (p *Piece) Kicked() bool {
	return p.LastRotated && !p.LastKick.IsZero()
}

// Fits reports whether the piece can occupy its current position.
func (p *Piece) Fits(g *Grid) bool {
	return g.CanPlace(p.Pos, p.Shape())
}

// Move translates the piece by (dx, dy) if the destination is free.
// A successful move ends any rotation streak.
func (p *Piece) Move(g *Grid, dx, dy int) bool {
	dst := p.Pos.Add(Point{X: dx, Y: dy})
	if !g.CanPlace(dst, p.Shape()) {
		return false
	}
	p.Pos = dst
	p.LastRotated = false
	p.LastKick = Point{}
	return true
}

// RotateCW rotates a quarter turn clockwise.
func (p *Piece) RotateCW(g *Grid) bool {
	return p.rotate(g, p.Rotation.CW())
}

// RotateCCW rotates a quarter turn counter-clockwise.
func (p *Piece) RotateCCW(g *Grid) bool {
	return p.rotate(g, p.Rotation.CCW())
}

// Rotate180 rotates a half turn.
func (p *Piece) Rotate180(g *Grid) bool {
	return p.rotate(g, p.Rotation.Flip())
}

// rotate resolves the kick for from -> to. On failure nothing changes.
func (p *Piece) rotate(g *Grid, to Rotation) bool {
	target := ShapeOf(p.Family, to)
	offset, ok := g.TryWallKick(p.Pos, target, p.Rotation, to, p.Family.KickCategory())
	if !ok {
		return false
	}
	p.Rotation = to
	p.Pos = p.Pos.Add(offset)
	p.LastKick = offset
	p.LastRotated = true
	return true
}

// Grounded reports whether the piece cannot move down one row.
func (p *Piece) Grounded(g *Grid) bool {
	return !g.CanPlace(p.Pos.Add(Point{Y: 1}), p.Shape())
}

// DropDistance returns how many rows the piece can fall before landing.
func (p *Piece) DropDistance(g *Grid) int {
	s := p.Shape()
	d := 0
	for g.CanPlace(p.Pos.Add(Point{Y: d + 1}), s) {
		d++
	}
	return d
}

// Clone returns an independent copy.
func (p *Piece) Clone() *Piece {
	c := *p
	return &c
}
