package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tSpinDoubleGrid builds a classic T-spin double slot at the bottom of a
// 10x20 well: the T enters standing on its right side at (2,16) and a
// clockwise rotation kicks it down into the slot.
func tSpinDoubleGrid(t *testing.T) *Grid {
	t.Helper()
	g := newTestGrid(t, 10, 20, 20)
	fillRow(g, 19, 1, 4)
	fillRow(g, 18, 1, 3, 4, 5)
	g.SetCell(2, 17, 1)
	g.SetCell(5, 17, 1) // overhang
	return g
}

func TestTSpinDoubleScenario(t *testing.T) {
	g := tSpinDoubleGrid(t)
	p := &Piece{Family: FamilyT, Rotation: RotationR, Pos: Point{2, 16}}
	require.True(t, p.Fits(g))

	require.True(t, p.RotateCW(g))
	assert.Equal(t, Rotation2, p.Rotation)
	assert.Equal(t, Point{3, 17}, p.Pos)
	assert.Equal(t, Point{1, 1}, p.LastKick)

	spin := DetectSpin(g, p, DefaultSpinRules())
	assert.Equal(t, Spin{Kind: SpinT}, spin)

	g.Lock(p)
	lines := g.ClearFullLines()
	require.Equal(t, 2, lines)

	result := spin.WithLines(lines)
	assert.Equal(t, TSpinDouble, result.Variant)
	assert.False(t, result.Mini)
	assert.Equal(t, "T-Spin Double", result.String())
}

func TestThreeCornerRule(t *testing.T) {
	// T matrix at (3,10); rotation centre (4,11).
	corners := map[string]Point{
		"NW": {3, 10},
		"NE": {5, 10},
		"SW": {3, 12},
		"SE": {5, 12},
	}

	tests := []struct {
		name     string
		rotation Rotation
		blocked  []string
		kick     Point
		rotated  bool
		rules    func(*SpinRules)
		want     Spin
	}{
		{"proper facing up", Rotation0, []string{"NW", "NE", "SW"}, Point{-1, 0}, true, nil, Spin{Kind: SpinT}},
		{"all four corners", Rotation0, []string{"NW", "NE", "SW", "SE"}, Point{1, 0}, true, nil, Spin{Kind: SpinT}},
		{"mini facing up", Rotation0, []string{"NW", "SW", "SE"}, Point{-1, 0}, true, nil, Spin{Kind: SpinMiniT, Mini: true}},
		{"mini promoted by stretch kick", Rotation0, []string{"NW", "SW", "SE"}, Point{1, 2}, true, nil, Spin{Kind: SpinT}},
		{"mini promoted by wide kick", Rotation0, []string{"NW", "SW", "SE"}, Point{-2, -1}, true, nil, Spin{Kind: SpinT}},
		{"two corners", Rotation0, []string{"NW", "NE"}, Point{-1, 0}, true, nil, Spin{}},
		{"proper facing down", Rotation2, []string{"SW", "SE", "NW"}, Point{1, 1}, true, nil, Spin{Kind: SpinT}},
		{"proper facing right", RotationR, []string{"NE", "SE", "SW"}, Point{-1, 0}, true, nil, Spin{Kind: SpinT}},
		{"mini facing left", RotationL, []string{"NE", "SE", "SW"}, Point{1, 0}, true, nil, Spin{Kind: SpinMiniT, Mini: true}},
		{"no kick", Rotation0, []string{"NW", "NE", "SW", "SE"}, Point{}, true, nil, Spin{}},
		{"last action was a move", Rotation0, []string{"NW", "NE", "SW"}, Point{-1, 0}, false, nil, Spin{}},
		{"mini detection off", Rotation0, []string{"NW", "SW", "SE"}, Point{-1, 0}, true,
			func(r *SpinRules) { r.DetectMini = false }, Spin{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, 10, 20, 20)
			for _, c := range tt.blocked {
				g.SetCell(corners[c].X, corners[c].Y, 1)
			}
			p := &Piece{
				Family:      FamilyT,
				Rotation:    tt.rotation,
				Pos:         Point{3, 10},
				LastKick:    tt.kick,
				LastRotated: tt.rotated,
			}
			rules := DefaultSpinRules()
			if tt.rules != nil {
				tt.rules(&rules)
			}
			assert.Equal(t, tt.want, DetectSpin(g, p, rules))
		})
	}
}

func TestWallCountsAsBlockedCorner(t *testing.T) {
	g := newTestGrid(t, 10, 20, 20)
	// T pointing right against the left wall, centre at (0,18).
	g.SetCell(1, 17, 1)
	g.SetCell(1, 19, 1)
	p := &Piece{Family: FamilyT, Rotation: RotationR, Pos: Point{-1, 17}, LastKick: Point{1, 0}, LastRotated: true}
	require.True(t, p.Fits(g))

	// NW and SW lie outside the well; NE and SE are occupied.
	assert.Equal(t, SpinT, DetectSpin(g, p, DefaultSpinRules()).Kind)
}

func TestWithLinesVariants(t *testing.T) {
	tests := []struct {
		spin  Spin
		lines int
		want  TSpinVariant
	}{
		{Spin{Kind: SpinT}, 0, TSpinNoClear},
		{Spin{Kind: SpinT}, 1, TSpinSingle},
		{Spin{Kind: SpinT}, 2, TSpinDouble},
		{Spin{Kind: SpinT}, 3, TSpinTriple},
		{Spin{Kind: SpinMiniT, Mini: true}, 0, TSpinMiniNoClear},
		{Spin{Kind: SpinMiniT, Mini: true}, 1, TSpinMiniSingle},
		{Spin{Kind: SpinMiniT, Mini: true}, 2, TSpinMiniDouble},
		{Spin{Kind: SpinSZTwist}, 2, TSpinNone},
		{Spin{}, 4, TSpinNone},
	}
	for _, tt := range tests {
		r := tt.spin.WithLines(tt.lines)
		assert.Equal(t, tt.want, r.Variant, "%v with %d lines", tt.spin, tt.lines)
		assert.Equal(t, tt.lines, r.Lines)
		assert.Equal(t, tt.spin.Mini, r.Mini)
	}
}

// sealedGrid fills every visible cell except the ones listed.
func sealedGrid(t *testing.T, free ...Point) *Grid {
	t.Helper()
	g := newTestGrid(t, 10, 20, 20)
	for y := 0; y < g.Height(); y++ {
		fillRow(g, y, 1)
	}
	for _, p := range free {
		g.SetCell(p.X, p.Y, 0)
	}
	return g
}

func TestAllSpinImmobility(t *testing.T) {
	sPiece := func() *Piece {
		return &Piece{Family: FamilyS, Pos: Point{3, 10}, LastKick: Point{1, 0}, LastRotated: true}
	}
	// S in spawn orientation at (3,10) covers (4,10) (5,10) (3,11) (4,11).
	own := []Point{{4, 10}, {5, 10}, {3, 11}, {4, 11}}
	below := []Point{{5, 11}, {3, 12}, {4, 12}}

	allSpin := DefaultSpinRules()
	allSpin.AllSpin = true

	t.Run("wedged", func(t *testing.T) {
		g := sealedGrid(t, own...)
		assert.Equal(t, SpinSZTwist, DetectSpin(g, sPiece(), allSpin).Kind)
	})

	t.Run("generic when twist naming is off", func(t *testing.T) {
		g := sealedGrid(t, own...)
		rules := allSpin
		rules.TwistSZ = false
		assert.Equal(t, SpinAll, DetectSpin(g, sPiece(), rules).Kind)
	})

	t.Run("disabled", func(t *testing.T) {
		g := sealedGrid(t, own...)
		assert.Equal(t, SpinNone, DetectSpin(g, sPiece(), DefaultSpinRules()).Kind)
	})

	t.Run("kick required", func(t *testing.T) {
		g := sealedGrid(t, own...)
		p := sPiece()
		p.LastKick = Point{}
		assert.Equal(t, SpinNone, DetectSpin(g, p, allSpin).Kind)

		rules := allSpin
		rules.AllSpinRequiresKick = false
		assert.Equal(t, SpinSZTwist, DetectSpin(g, p, rules).Kind)
	})

	t.Run("airborne", func(t *testing.T) {
		g := sealedGrid(t, append(own, below...)...)
		assert.Equal(t, SpinNone, DetectSpin(g, sPiece(), allSpin).Kind, "can still fall")

		rules := allSpin
		rules.AllSpinRequiresGrounded = false
		assert.Equal(t, SpinSZTwist, DetectSpin(g, sPiece(), rules).Kind)
	})

	t.Run("free to slide", func(t *testing.T) {
		g := sealedGrid(t, append(own, Point{6, 10}, Point{5, 11})...)
		assert.Equal(t, SpinNone, DetectSpin(g, sPiece(), allSpin).Kind)
	})
}

func TestTwistNames(t *testing.T) {
	rules := DefaultSpinRules()
	assert.Equal(t, SpinI, twistKind(FamilyI, rules))
	assert.Equal(t, SpinSZTwist, twistKind(FamilyZ, rules))
	assert.Equal(t, SpinJLTwist, twistKind(FamilyJ, rules))
	assert.Equal(t, SpinJLTwist, twistKind(FamilyL, rules))
	assert.Equal(t, SpinOTwist, twistKind(FamilyO, rules))

	rules.TwistI = false
	assert.Equal(t, SpinAll, twistKind(FamilyI, rules))
}
