package engine

import "sort"

// KickCategory selects which offset list a family uses within a ruleset.
type KickCategory int

const (
	KickStandard KickCategory = iota // J, L, S, T, Z
	KickLong                         // I
	KickSquare                       // O
)

// Transition is a (from, to) rotation pair.
type Transition struct {
	From, To Rotation
}

// KickTable is a named rotation ruleset. Each transition maps to an ordered
// list of offsets; callers take the first one that fits.
// Tables are immutable once built and safe to share between sessions.
type KickTable struct {
	Name     string
	standard map[Transition][]Point
	long     map[Transition][]Point
	square   map[Transition][]Point
}

// inPlace is used for any transition a table does not list.
var inPlace = []Point{{0, 0}}

// Offsets returns the ordered candidate list for a transition.
// Transitions missing from the table rotate in place only.
func (k *KickTable) Offsets(from, to Rotation, category KickCategory) []Point {
	var table map[Transition][]Point
	switch category {
	case KickLong:
		table = k.long
	case KickSquare:
		table = k.square
	default:
		table = k.standard
	}
	if offsets, ok := table[Transition{From: from % 4, To: to % 4}]; ok {
		return offsets
	}
	return inPlace
}

// up converts an offset written in the published y-up notation into grid
// coordinates, where y grows downward.
func up(x, y int) Point {
	return Point{X: x, Y: -y}
}

const (
	r0 = Rotation0
	rR = RotationR
	r2 = Rotation2
	rL = RotationL
)

// srsStandard is the guideline J/L/S/T/Z table.
var srsStandard = map[Transition][]Point{
	{r0, rR}: {up(0, 0), up(-1, 0), up(-1, 1), up(0, -2), up(-1, -2)},
	{rR, r0}: {up(0, 0), up(1, 0), up(1, -1), up(0, 2), up(1, 2)},
	{rR, r2}: {up(0, 0), up(1, 0), up(1, -1), up(0, 2), up(1, 2)},
	{r2, rR}: {up(0, 0), up(-1, 0), up(-1, 1), up(0, -2), up(-1, -2)},
	{r2, rL}: {up(0, 0), up(1, 0), up(1, 1), up(0, -2), up(1, -2)},
	{rL, r2}: {up(0, 0), up(-1, 0), up(-1, -1), up(0, 2), up(-1, 2)},
	{rL, r0}: {up(0, 0), up(-1, 0), up(-1, -1), up(0, 2), up(-1, 2)},
	{r0, rL}: {up(0, 0), up(1, 0), up(1, 1), up(0, -2), up(1, -2)},
}

// srsLong is the guideline I table.
var srsLong = map[Transition][]Point{
	{r0, rR}: {up(0, 0), up(-2, 0), up(1, 0), up(-2, -1), up(1, 2)},
	{rR, r0}: {up(0, 0), up(2, 0), up(-1, 0), up(2, 1), up(-1, -2)},
	{rR, r2}: {up(0, 0), up(-1, 0), up(2, 0), up(-1, 2), up(2, -1)},
	{r2, rR}: {up(0, 0), up(1, 0), up(-2, 0), up(1, -2), up(-2, 1)},
	{r2, rL}: {up(0, 0), up(2, 0), up(-1, 0), up(2, 1), up(-1, -2)},
	{rL, r2}: {up(0, 0), up(-2, 0), up(1, 0), up(-2, -1), up(1, 2)},
	{rL, r0}: {up(0, 0), up(1, 0), up(-2, 0), up(1, -2), up(-2, 1)},
	{r0, rL}: {up(0, 0), up(-1, 0), up(2, 0), up(-1, 2), up(2, -1)},
}

// srsPlusLong is the symmetric I table used by SRS+.
var srsPlusLong = map[Transition][]Point{
	{r0, rR}: {up(0, 0), up(1, 0), up(-2, 0), up(-2, -1), up(1, 2)},
	{rR, r0}: {up(0, 0), up(-1, 0), up(2, 0), up(-1, -2), up(2, 1)},
	{rR, r2}: {up(0, 0), up(-1, 0), up(2, 0), up(-1, 2), up(2, -1)},
	{r2, rR}: {up(0, 0), up(-2, 0), up(1, 0), up(-2, 1), up(1, -2)},
	{r2, rL}: {up(0, 0), up(2, 0), up(-1, 0), up(2, 1), up(-1, -2)},
	{rL, r2}: {up(0, 0), up(1, 0), up(-2, 0), up(1, -2), up(-2, 1)},
	{rL, r0}: {up(0, 0), up(-2, 0), up(1, 0), up(-2, -1), up(1, 2)},
	{r0, rL}: {up(0, 0), up(-1, 0), up(2, 0), up(-1, 2), up(2, -1)},
}

// srsPlusFlip holds the half-turn kicks shared by SRS+ for every non-O family.
var srsPlusFlip = map[Transition][]Point{
	{r0, r2}: {up(0, 0), up(0, 1), up(1, 1), up(-1, 1), up(1, 0), up(-1, 0)},
	{r2, r0}: {up(0, 0), up(0, -1), up(-1, -1), up(1, -1), up(-1, 0), up(1, 0)},
	{rR, rL}: {up(0, 0), up(1, 0), up(1, 2), up(1, 1), up(0, 2), up(0, 1)},
	{rL, rR}: {up(0, 0), up(-1, 0), up(-1, 2), up(-1, 1), up(0, 2), up(0, 1)},
}

// srsXFlip is the wider half-turn table of SRS-X.
var srsXFlip = map[Transition][]Point{
	{r0, r2}: {up(0, 0), up(1, 0), up(2, 0), up(1, 1), up(2, 1), up(-1, 0), up(-2, 0), up(-1, 1), up(-2, 1), up(0, -1), up(3, 0), up(-3, 0)},
	{rR, rL}: {up(0, 0), up(0, 1), up(0, 2), up(-1, 1), up(-1, 2), up(0, -1), up(0, -2), up(-1, -1), up(-1, -2), up(1, 0), up(0, 3), up(0, -3)},
	{r2, r0}: {up(0, 0), up(-1, 0), up(-2, 0), up(-1, -1), up(-2, -1), up(1, 0), up(2, 0), up(1, -1), up(2, -1), up(0, 1), up(-3, 0), up(3, 0)},
	{rL, rR}: {up(0, 0), up(0, 1), up(0, 2), up(1, 1), up(1, 2), up(0, -1), up(0, -2), up(1, -1), up(1, -2), up(-1, 0), up(0, 3), up(0, -3)},
}

// arsStandard tries right then left, like classic arcade rotation.
var arsStandard = func() map[Transition][]Point {
	m := make(map[Transition][]Point, 12)
	for from := Rotation0; from <= RotationL; from++ {
		for _, to := range []Rotation{from.CW(), from.CCW(), from.Flip()} {
			m[Transition{from, to}] = []Point{up(0, 0), up(1, 0), up(-1, 0)}
		}
	}
	return m
}()

// merge returns a new map holding the entries of every argument; later maps win.
func merge(tables ...map[Transition][]Point) map[Transition][]Point {
	out := make(map[Transition][]Point)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

var kickTables = map[string]*KickTable{
	"SRS": {
		Name:     "SRS",
		standard: srsStandard,
		long:     srsLong,
	},
	"SRS+": {
		Name:     "SRS+",
		standard: merge(srsStandard, srsPlusFlip),
		long:     merge(srsPlusLong, srsPlusFlip),
	},
	"SRS-X": {
		Name:     "SRS-X",
		standard: merge(srsStandard, srsXFlip),
		long:     merge(srsLong, srsXFlip),
	},
	"ARS": {
		Name:     "ARS",
		standard: arsStandard,
	},
	"none": {
		Name: "none",
	},
}

// DefaultKickTable is the ruleset used when none is configured.
const DefaultKickTable = "SRS"

// LookupKickTable returns the named ruleset.
func LookupKickTable(name string) (*KickTable, bool) {
	t, ok := kickTables[name]
	return t, ok
}

// KickTableOrDefault returns the named ruleset, falling back to the default one.
func KickTableOrDefault(name string) *KickTable {
	if t, ok := kickTables[name]; ok {
		return t
	}
	return kickTables[DefaultKickTable]
}

// KickTableNames lists every registered ruleset, sorted.
func KickTableNames() []string {
	names := make([]string, 0, len(kickTables))
	for name := range kickTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
