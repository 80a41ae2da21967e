package engine

// SpinKind is the family-level spin classification.
type SpinKind uint8

const (
	SpinNone SpinKind = iota
	SpinT
	SpinMiniT
	SpinI
	SpinSZTwist
	SpinJLTwist
	SpinOTwist
	SpinAll
)

func (k SpinKind) String() string {
	switch k {
	case SpinT:
		return "T-Spin"
	case SpinMiniT:
		return "Mini T-Spin"
	case SpinI:
		return "I-Spin"
	case SpinSZTwist:
		return "S/Z Twist"
	case SpinJLTwist:
		return "J/L Twist"
	case SpinOTwist:
		return "O Twist"
	case SpinAll:
		return "All-Spin"
	default:
		return ""
	}
}

// TSpinVariant combines a T classification with the number of lines cleared.
type TSpinVariant uint8

const (
	TSpinNone TSpinVariant = iota
	TSpinMiniNoClear
	TSpinMiniSingle
	TSpinMiniDouble
	TSpinNoClear
	TSpinSingle
	TSpinDouble
	TSpinTriple
)

func (v TSpinVariant) String() string {
	switch v {
	case TSpinMiniNoClear:
		return "Mini T-Spin"
	case TSpinMiniSingle:
		return "Mini T-Spin Single"
	case TSpinMiniDouble:
		return "Mini T-Spin Double"
	case TSpinNoClear:
		return "T-Spin"
	case TSpinSingle:
		return "T-Spin Single"
	case TSpinDouble:
		return "T-Spin Double"
	case TSpinTriple:
		return "T-Spin Triple"
	default:
		return ""
	}
}

// SpinRules holds the spin detection switches chosen for a session.
type SpinRules struct {
	// DetectMini enables mini T-spins; when off they classify as none.
	DetectMini bool `yaml:"detect_mini"`
	// AllSpin enables immobility-based spins for the non-T families.
	AllSpin bool `yaml:"all_spin"`
	// AllSpinRequiresGrounded adds the downward direction to the immobility
	// test. Without it only left, right and up are probed.
	AllSpinRequiresGrounded bool `yaml:"all_spin_requires_grounded"`
	// AllSpinRequiresKick demands a nonzero kick for non-T spins.
	AllSpinRequiresKick bool `yaml:"all_spin_requires_kick"`

	// Per-family twist names. A family whose flag is off reports SpinAll.
	TwistI  bool `yaml:"twist_i"`
	TwistSZ bool `yaml:"twist_sz"`
	TwistJL bool `yaml:"twist_jl"`
	TwistO  bool `yaml:"twist_o"`
}

// DefaultSpinRules returns guideline detection: T-spins with minis, no all-spin.
func DefaultSpinRules() SpinRules {
	return SpinRules{
		DetectMini:              true,
		AllSpinRequiresGrounded: true,
		AllSpinRequiresKick:     true,
		TwistI:                  true,
		TwistSZ:                 true,
		TwistJL:                 true,
		TwistO:                  true,
	}
}

// Spin is the classification of a piece's final rotation, before lines are known.
type Spin struct {
	Kind SpinKind
	Mini bool
}

// SpinResult is a Spin paired with the lines its lock cleared.
type SpinResult struct {
	Kind    SpinKind
	Variant TSpinVariant // only set for T-spins
	Lines   int
	Mini    bool
}

// IsSpin reports whether any spin was recognised.
func (r SpinResult) IsSpin() bool {
	return r.Kind != SpinNone
}

// String returns a display label such as "T-Spin Double" or "S/Z Twist".
func (r SpinResult) String() string {
	if r.Variant != TSpinNone {
		return r.Variant.String()
	}
	return r.Kind.String()
}

// WithLines attaches the cleared line count and picks the T variant.
func (s Spin) WithLines(lines int) SpinResult {
	r := SpinResult{Kind: s.Kind, Lines: lines, Mini: s.Mini}
	switch s.Kind {
	case SpinT:
		switch {
		case lines <= 0:
			r.Variant = TSpinNoClear
		case lines == 1:
			r.Variant = TSpinSingle
		case lines == 2:
			r.Variant = TSpinDouble
		default:
			r.Variant = TSpinTriple
		}
	case SpinMiniT:
		switch {
		case lines <= 0:
			r.Variant = TSpinMiniNoClear
		case lines == 1:
			r.Variant = TSpinMiniSingle
		default:
			r.Variant = TSpinMiniDouble
		}
	}
	return r
}

// corner indices around the T rotation centre
const (
	cornerNW = iota
	cornerNE
	cornerSW
	cornerSE
)

var cornerOffsets = [4]Point{
	cornerNW: {-1, -1},
	cornerNE: {1, -1},
	cornerSW: {-1, 1},
	cornerSE: {1, 1},
}

// frontCorners lists the two corners flanking the T's nub, per rotation.
var frontCorners = [4][2]int{
	Rotation0: {cornerNW, cornerNE},
	RotationR: {cornerNE, cornerSE},
	Rotation2: {cornerSW, cornerSE},
	RotationL: {cornerNW, cornerSW},
}

// DetectSpin classifies the piece's final position. It must run before the
// piece is locked, while its cells are still free in the grid.
func DetectSpin(g *Grid, p *Piece, rules SpinRules) Spin {
	if !p.LastRotated {
		return Spin{}
	}
	if p.Family == FamilyT {
		return detectTSpin(g, p, rules)
	}
	if !rules.AllSpin {
		return Spin{}
	}
	if rules.AllSpinRequiresKick && !p.Kicked() {
		return Spin{}
	}
	if !immobile(g, p, rules.AllSpinRequiresGrounded) {
		return Spin{}
	}
	return Spin{Kind: twistKind(p.Family, rules)}
}

func detectTSpin(g *Grid, p *Piece, rules SpinRules) Spin {
	if !p.Kicked() {
		return Spin{}
	}
	center := p.Pos.Add(Point{X: 1, Y: 1})

	var blocked [4]bool
	count := 0
	for i, off := range cornerOffsets {
		c := center.Add(off)
		if g.Blocked(c.X, c.Y) {
			blocked[i] = true
			count++
		}
	}
	if count < 3 {
		return Spin{}
	}

	front := frontCorners[p.Rotation%4]
	frontBlocked := 0
	for _, c := range front {
		if blocked[c] {
			frontBlocked++
		}
	}
	backBlocked := count - frontBlocked

	switch {
	case frontBlocked == 2 && backBlocked >= 1:
		return Spin{Kind: SpinT}
	case frontBlocked == 1 && backBlocked == 2:
		if stretchKick(p.LastKick) {
			return Spin{Kind: SpinT}
		}
		if !rules.DetectMini {
			return Spin{}
		}
		return Spin{Kind: SpinMiniT, Mini: true}
	default:
		return Spin{}
	}
}

// stretchKick reports whether the kick moved the piece one column and two
// rows, or two columns and one row.
func stretchKick(k Point) bool {
	dx, dy := abs(k.X), abs(k.Y)
	return (dx == 1 && dy == 2) || (dx == 2 && dy == 1)
}

// immobile probes single-cell translations of the whole piece.
func immobile(g *Grid, p *Piece, withDown bool) bool {
	dirs := []Point{{-1, 0}, {1, 0}, {0, -1}}
	if withDown {
		dirs = append(dirs, Point{0, 1})
	}
	s := p.Shape()
	for _, d := range dirs {
		if g.CanPlace(p.Pos.Add(d), s) {
			return false
		}
	}
	return true
}

func twistKind(f Family, rules SpinRules) SpinKind {
	switch f {
	case FamilyI:
		if rules.TwistI {
			return SpinI
		}
	case FamilyS, FamilyZ:
		if rules.TwistSZ {
			return SpinSZTwist
		}
	case FamilyJ, FamilyL:
		if rules.TwistJL {
			return SpinJLTwist
		}
	case FamilyO:
		if rules.TwistO {
			return SpinOTwist
		}
	}
	return SpinAll
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
