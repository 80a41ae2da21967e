// Package engine implements the falling-block rules engine: the playfield,
// rotation and wall kicks, spin detection, the 7-bag randomizer, timing and
// the piece lifecycle. It has no rendering or input-device code; callers feed
// intents on a fixed tick and poll state back.
package engine

// Point is a cell coordinate or offset on the playfield.
// X grows to the right and Y grows downward; negative Y lies in the buffer zone.
type Point struct {
	X, Y int
}

// Add returns the component-wise sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// IsZero reports whether the point is the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Family identifies one of the seven piece shapes.
// The numeric value doubles as the cell colour written into the grid, so 0 is
// never a valid family.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyI
	FamilyJ
	FamilyL
	FamilyO
	FamilyS
	FamilyT
	FamilyZ
)

// CellGarbage marks cells inserted by ReceiveGarbage.
const CellGarbage uint8 = 8

// AllFamilies lists the seven families in canonical order.
var AllFamilies = [7]Family{FamilyI, FamilyJ, FamilyL, FamilyO, FamilyS, FamilyT, FamilyZ}

// String returns the single-letter name of the family.
func (f Family) String() string {
	switch f {
	case FamilyI:
		return "I"
	case FamilyJ:
		return "J"
	case FamilyL:
		return "L"
	case FamilyO:
		return "O"
	case FamilyS:
		return "S"
	case FamilyT:
		return "T"
	case FamilyZ:
		return "Z"
	default:
		return "-"
	}
}

// Valid reports whether f is one of the seven families.
func (f Family) Valid() bool {
	return f >= FamilyI && f <= FamilyZ
}

// KickCategory returns which kick list the family consults.
func (f Family) KickCategory() KickCategory {
	switch f {
	case FamilyI:
		return KickLong
	case FamilyO:
		return KickSquare
	default:
		return KickStandard
	}
}

// Rotation is a rotation state: 0 spawn, 1 clockwise (R), 2 flipped, 3 counter-clockwise (L).
type Rotation uint8

const (
	Rotation0 Rotation = iota
	RotationR
	Rotation2
	RotationL
)

// CW returns the state one clockwise step away.
func (r Rotation) CW() Rotation { return (r + 1) % 4 }

// CCW returns the state one counter-clockwise step away.
func (r Rotation) CCW() Rotation { return (r + 3) % 4 }

// Flip returns the state a half turn away.
func (r Rotation) Flip() Rotation { return (r + 2) % 4 }

func (r Rotation) String() string {
	switch r {
	case Rotation0:
		return "0"
	case RotationR:
		return "R"
	case Rotation2:
		return "2"
	case RotationL:
		return "L"
	default:
		return "?"
	}
}

// Shape is the occupancy matrix of one rotation state.
// Cells is indexed [row][col]; only the top-left Size×Size block is used.
type Shape struct {
	Size  int
	Cells [4][4]bool
}

// Blocks returns the offsets of occupied cells relative to the matrix origin,
// in row-major order.
func (s Shape) Blocks() []Point {
	blocks := make([]Point, 0, 4)
	for row := 0; row < s.Size; row++ {
		for col := 0; col < s.Size; col++ {
			if s.Cells[row][col] {
				blocks = append(blocks, Point{X: col, Y: row})
			}
		}
	}
	return blocks
}

// shape builds a Shape from rows of '#' and '.' characters.
func shape(rows ...string) Shape {
	s := Shape{Size: len(rows)}
	for y, row := range rows {
		for x, ch := range row {
			s.Cells[y][x] = ch == '#'
		}
	}
	return s
}

// familyShapes holds the four rotation states of every family, indexed by
// Family then Rotation. Rotation states follow the SRS reference orientation.
var familyShapes = [8][4]Shape{
	FamilyI: {
		shape(
			"....",
			"####",
			"....",
			"....",
		),
		shape(
			"..#.",
			"..#.",
			"..#.",
			"..#.",
		),
		shape(
			"....",
			"....",
			"####",
			"....",
		),
		shape(
			".#..",
			".#..",
			".#..",
			".#..",
		),
	},
	FamilyJ: {
		shape(
			"#..",
			"###",
			"...",
		),
		shape(
			".##",
			".#.",
			".#.",
		),
		shape(
			"...",
			"###",
			"..#",
		),
		shape(
			".#.",
			".#.",
			"##.",
		),
	},
	FamilyL: {
		shape(
			"..#",
			"###",
			"...",
		),
		shape(
			".#.",
			".#.",
			".##",
		),
		shape(
			"...",
			"###",
			"#..",
		),
		shape(
			"##.",
			".#.",
			".#.",
		),
	},
	FamilyO: {
		shape(
			"##",
			"##",
		),
		shape(
			"##",
			"##",
		),
		shape(
			"##",
			"##",
		),
		shape(
			"##",
			"##",
		),
	},
	FamilyS: {
		shape(
			".##",
			"##.",
			"...",
		),
		shape(
			".#.",
			".##",
			"..#",
		),
		shape(
			"...",
			".##",
			"##.",
		),
		shape(
			"#..",
			"##.",
			".#.",
		),
	},
	FamilyT: {
		shape(
			".#.",
			"###",
			"...",
		),
		shape(
			".#.",
			".##",
			".#.",
		),
		shape(
			"...",
			"###",
			".#.",
		),
		shape(
			".#.",
			"##.",
			".#.",
		),
	},
	FamilyZ: {
		shape(
			"##.",
			".##",
			"...",
		),
		shape(
			"..#",
			".##",
			".#.",
		),
		shape(
			"...",
			"##.",
			".##",
		),
		shape(
			".#.",
			"##.",
			"#..",
		),
	},
}

// ShapeOf returns the occupancy matrix for a family in a rotation state.
// An invalid family indexes a malformed table and panics.
func ShapeOf(f Family, r Rotation) Shape {
	if !f.Valid() {
		panic("engine: shape lookup for invalid family")
	}
	return familyShapes[f][r%4]
}
