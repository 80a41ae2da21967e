package blocks

import (
	"fmt"
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
)

const (
	cellW      = 2  // screen columns per board cell
	panelW     = 12 // hold and next panel width
	panelGap   = 1
	maxVanish  = 2 // buffer rows shown above the well when there is room
	hudHeight  = 1
	pieceBoxes = 3 // rows reserved per preview in the next panel
)

var familyColors = map[uint8]core.Color{
	uint8(engine.FamilyI): core.ColorCyan,
	uint8(engine.FamilyJ): core.ColorBlue,
	uint8(engine.FamilyL): core.ColorOrange,
	uint8(engine.FamilyO): core.ColorYellow,
	uint8(engine.FamilyS): core.ColorGreen,
	uint8(engine.FamilyT): core.ColorMagenta,
	uint8(engine.FamilyZ): core.ColorRed,
	engine.CellGarbage:    core.ColorGray,
}

// CellColor returns the display color of a grid cell value.
func CellColor(v uint8) core.Color {
	if c, ok := familyColors[v]; ok {
		return c
	}
	return core.ColorDefault
}

// layout holds the screen positions of the board and side panels.
type layout struct {
	vanish int // buffer rows drawn above the visible field
	board  core.Rect
	hold   core.Rect
	next   core.Rect
}

// computeLayout centers the board with the hold panel to its left and the
// next panel to its right. ok is false when the screen cannot fit the well.
func computeLayout(w, h, boardW, boardH, buffer int) (l layout, ok bool) {
	wellW := boardW*cellW + 2
	totalW := panelW + panelGap + wellW + panelGap + panelW
	needH := hudHeight + boardH + 2
	if w < totalW || h < needH {
		return layout{}, false
	}
	l.vanish = min(h-needH, maxVanish, buffer)
	x := (w - totalW) / 2
	y := hudHeight
	l.hold = core.NewRect(x, y, panelW, 6)
	l.board = core.NewRect(x+panelW+panelGap, y, wellW, boardH+l.vanish+2)
	l.next = core.NewRect(l.board.Right()+panelGap, y, panelW, min(2+5*pieceBoxes, l.board.H))
	return l, true
}

func (g *Game) tooSmall() bool {
	grid := g.session.Grid()
	_, ok := computeLayout(g.screenW, g.screenH, grid.Width(), grid.Height(), grid.BufferHeight())
	return !ok
}

// Render draws the run into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.session.Snapshot()

	l, ok := computeLayout(dst.Width(), dst.Height(), snap.Width, snap.Height, snap.BufferHeight)
	g.renderHUD(dst, snap)
	if !ok {
		renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderBoard(dst, l, snap)
	renderHold(dst, l.hold, snap)
	renderNext(dst, l.next, snap)
	g.renderStats(dst, l, snap)

	switch {
	case snap.Won:
		renderOverlay(dst, "Goal reached!", fmt.Sprintf("Time %s  Score %d", formatElapsed(snap.Elapsed), snap.Score))
	case snap.GameOver:
		renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot) {
	hud := fmt.Sprintf(" %s  Score: %d  Level: %d  Lines: %d", g.Title(), snap.Score, snap.Level, snap.Lines)
	if g.mode == ModeSprint {
		hud = fmt.Sprintf(" %s  Lines: %d/%d  Time: %s", g.Title(), snap.Lines, SprintLines, formatElapsed(snap.Elapsed))
	}
	dst.DrawTextColor(0, 0, hud, core.ColorBrightWhite)
}

// boardToScreen converts a logical board cell to the left screen column and row.
func boardToScreen(l layout, x, y int) (int, int) {
	return l.board.X + 1 + x*cellW, l.board.Y + 1 + l.vanish + y
}

func drawBlock(dst *core.Screen, sx, sy int, r rune, c core.Color) {
	for i := range cellW {
		dst.SetCell(sx+i, sy, r, c)
	}
}

func (g *Game) renderBoard(dst *core.Screen, l layout, snap engine.Snapshot) {
	frame := core.ColorGray
	if snap.GarbageProgress < 1 {
		frame = core.ColorRed.Bright()
	}
	dst.DrawBoxColor(l.board, frame)

	pending := make(map[int]bool, len(snap.PendingRows))
	for _, y := range snap.PendingRows {
		pending[y] = true
	}

	for y := -l.vanish; y < snap.Height; y++ {
		for x := range snap.Width {
			sx, sy := boardToScreen(l, x, y)
			v := snap.CellAt(x, y)
			switch {
			case pending[y] && v != 0:
				drawBlock(dst, sx, sy, '▓', core.ColorBrightWhite)
			case v != 0:
				drawBlock(dst, sx, sy, '█', CellColor(v))
			case y >= 0 && x%2 == 1:
				dst.SetCell(sx+cellW/2, sy, '·', core.ColorGray)
			}
		}
	}

	if snap.Active == nil {
		return
	}
	color := CellColor(uint8(snap.Active.Family))
	if dy := snap.GhostY - snap.Active.Pos.Y; dy > 0 {
		for _, b := range snap.Active.Blocks {
			if b.Y+dy >= -l.vanish {
				sx, sy := boardToScreen(l, b.X, b.Y+dy)
				drawBlock(dst, sx, sy, '░', color)
			}
		}
	}
	if snap.State == engine.StateLocking {
		color = color.Bright()
	}
	for _, b := range snap.Active.Blocks {
		if b.Y >= -l.vanish {
			sx, sy := boardToScreen(l, b.X, b.Y)
			drawBlock(dst, sx, sy, '█', color)
		}
	}
}

// drawPreview draws a piece in its spawn orientation with its box at (x, y).
func drawPreview(dst *core.Screen, x, y int, f engine.Family, c core.Color) {
	if !f.Valid() {
		return
	}
	for _, b := range engine.ShapeOf(f, 0).Blocks() {
		drawBlock(dst, x+b.X*cellW, y+b.Y, '█', c)
	}
}

func renderHold(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	dst.DrawBoxColor(r, core.ColorGray)
	dst.DrawText(r.X+2, r.Y, "Hold")
	color := CellColor(uint8(snap.Held))
	if !snap.CanHold {
		color = core.ColorGray
	}
	drawPreview(dst, r.X+2, r.Y+1, snap.Held, color)
}

func renderNext(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	if len(snap.Next) == 0 {
		return
	}
	dst.DrawBoxColor(r, core.ColorGray)
	dst.DrawText(r.X+2, r.Y, "Next")
	inner := r.Inset(1)
	for i, f := range snap.Next {
		y := inner.Y + i*pieceBoxes
		if y+1 >= inner.Bottom() {
			break
		}
		drawPreview(dst, inner.X+1, y, f, CellColor(uint8(f)))
	}
}

func (g *Game) renderStats(dst *core.Screen, l layout, snap engine.Snapshot) {
	x, y := l.hold.X, l.hold.Bottom()+1
	lines := []string{
		fmt.Sprintf("Level %d", snap.Level),
		fmt.Sprintf("Lines %d", snap.Lines),
		fmt.Sprintf("Pieces %d", snap.Stats.Pieces),
		formatElapsed(snap.Elapsed),
		snap.Ruleset,
	}
	if snap.Combo > 0 {
		lines = append(lines, fmt.Sprintf("Combo %d", snap.Combo))
	}
	if snap.BackToBack {
		lines = append(lines, "B2B")
	}
	for i, s := range lines {
		if y+i >= l.board.Bottom() {
			break
		}
		dst.DrawText(x, y+i, s)
	}
	if g.bannerTicks > 0 && g.banner != "" {
		dst.DrawTextColor(x, l.board.Bottom()-1, g.banner, core.ColorBrightYellow)
	}
}

func renderOverlay(dst *core.Screen, title, subtitle string) {
	w := max(len([]rune(title)), len([]rune(subtitle))) + 4
	box := core.NewRect((dst.Width()-w)/2, dst.Height()/2-2, w, 4)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBoxColor(box, core.ColorBrightWhite)
	dst.DrawTextColor(box.X+(w-len([]rune(title)))/2, box.Y+1, title, core.ColorBrightWhite)
	dst.DrawText(box.X+(w-len([]rune(subtitle)))/2, box.Y+2, subtitle)
}

func formatElapsed(d time.Duration) string {
	d = d.Round(10 * time.Millisecond)
	m := int(d / time.Minute)
	s := d % time.Minute
	return fmt.Sprintf("%d:%05.2f", m, s.Seconds())
}
