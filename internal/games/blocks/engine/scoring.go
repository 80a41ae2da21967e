package engine

// Score tables, multiplied by the level at the time of the clear.
var (
	lineClearPoints = [5]int{0, 100, 300, 500, 800}
	tSpinPoints     = [4]int{400, 800, 1200, 1600}
	miniSpinPoints  = [3]int{100, 200, 400}
)

const (
	softDropPoints = 1
	hardDropPoints = 2
	comboPoints    = 50
	linesPerLevel  = 10
)

// perfectClearPoints is awarded on top of the clear when the board empties.
var perfectClearPoints = [5]int{0, 800, 1200, 1800, 2000}

// clearPoints scores one lock. Proper T-spins use the T-spin table; minis and
// the non-T all-spins use the mini table; plain clears use the line table.
func clearPoints(spin SpinResult, level int) int {
	lines := clampInt(spin.Lines, 0, 4)
	switch spin.Kind {
	case SpinT:
		return tSpinPoints[min(lines, len(tSpinPoints)-1)] * level
	case SpinNone:
		return lineClearPoints[lines] * level
	default:
		return miniSpinPoints[min(lines, len(miniSpinPoints)-1)] * level
	}
}

// difficult reports whether a clear keeps a back-to-back chain going.
func difficult(spin SpinResult) bool {
	if spin.Lines == 0 {
		return false
	}
	return spin.Lines >= 4 || spin.IsSpin()
}

// Scorer keeps score, lines, level and the combo and back-to-back chains.
type Scorer struct {
	startLevel int

	Score      int
	Lines      int
	Level      int
	Combo      int // consecutive clearing locks minus one; -1 when broken
	BackToBack bool
}

// NewScorer starts a scorer at the given level.
func NewScorer(startLevel int) *Scorer {
	return &Scorer{startLevel: startLevel, Level: startLevel, Combo: -1}
}

// Award records one lock and returns the points it earned.
func (s *Scorer) Award(spin SpinResult, perfect bool) int {
	level := s.Level
	points := clearPoints(spin, level)

	if spin.Lines > 0 {
		if difficult(spin) {
			if s.BackToBack {
				points = points * 3 / 2
			}
			s.BackToBack = true
		} else {
			s.BackToBack = false
		}
		s.Combo++
		if s.Combo > 0 {
			points += comboPoints * s.Combo * level
		}
		if perfect {
			points += perfectClearPoints[clampInt(spin.Lines, 0, 4)] * level
		}
		s.Lines += spin.Lines
		s.Level = s.startLevel + s.Lines/linesPerLevel
	} else {
		s.Combo = -1
	}

	s.Score += points
	return points
}

// AddSoftDrop credits rows fallen under soft drop.
func (s *Scorer) AddSoftDrop(rows int) {
	s.Score += rows * softDropPoints
}

// AddHardDrop credits rows fallen under hard drop.
func (s *Scorer) AddHardDrop(rows int) {
	s.Score += rows * hardDropPoints
}
