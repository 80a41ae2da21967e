// Package blocks adapts the falling-block engine to the game registry:
// it maps input frames to engine intents, runs the session at the platform
// tick rate and draws it into a core.Screen.
package blocks

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Mode selects the goal of a run.
type Mode string

const (
	ModeMarathon Mode = "marathon" // play until top-out, or the configured line goal
	ModeSprint   Mode = "sprint"   // clear SprintLines as fast as possible
	ModeDig      Mode = "dig"      // marathon with the garbage feed forced on
)

// SprintLines is the line goal of sprint mode.
const SprintLines = 40

// bannerTicks is how long a clear or spin label stays on screen, in ticks.
const bannerTicks = 90

var modeIDs = map[Mode]string{
	ModeMarathon: "blocks",
	ModeSprint:   "blocks_sprint",
	ModeDig:      "blocks_dig",
}

func init() {
	for mode := range modeIDs {
		registry.Register(modeIDs[mode], func() registry.Game {
			return New(mode)
		})
	}
}

// Game is one falling-block run driven by the platform.
type Game struct {
	mode    Mode
	cfg     config.BlocksConfig
	rng     *rand.Rand
	session *engine.Session
	dt      time.Duration
	tick    uint64

	prev    core.InputFrame
	paused  bool
	screenW int
	screenH int

	sinceGarbage int  // locks since the last garbage insertion
	garbageDue   bool // insertion was refused while animating; retry next tick

	banner      string
	bannerTicks int
}

// New creates a game in the given mode. Reset must be called before Step.
func New(mode Mode) *Game {
	if _, ok := modeIDs[mode]; !ok {
		mode = ModeMarathon
	}
	return &Game{mode: mode}
}

// ID returns the registry identifier.
func (g *Game) ID() string {
	return modeIDs[g.mode]
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case ModeSprint:
		return "Blockfall (Sprint 40)"
	case ModeDig:
		return "Blockfall (Dig)"
	default:
		return "Blockfall"
	}
}

// Description returns a one-line summary for listings.
func (g *Game) Description() string {
	switch g.mode {
	case ModeSprint:
		return "clear 40 lines as fast as possible"
	case ModeDig:
		return "marathon with rising garbage rows"
	default:
		return "endless marathon, speed rises every 10 lines"
	}
}

// RankedByTime reports whether runs are ranked by completion time.
func (g *Game) RankedByTime() bool {
	return g.mode == ModeSprint
}

// Mode returns the game's mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// effectiveConfig applies the mode's overrides to the shared settings.
func (g *Game) effectiveConfig() config.BlocksConfig {
	cfg := Settings()
	switch g.mode {
	case ModeSprint:
		cfg.Rules.LineGoal = SprintLines
		cfg.Garbage.Enabled = false
	case ModeDig:
		cfg.Garbage.Enabled = true
	}
	return cfg
}

// Reset starts a fresh run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = g.effectiveConfig()
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.dt = rc.TickDuration()
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.session = engine.NewSession(EngineConfig(g.cfg), g.rng.Int63(), engine.WithLogger(currentLogger()))
	g.tick = 0
	g.prev = core.NewInputFrame()
	g.paused = false
	g.sinceGarbage = 0
	g.garbageDue = false
	g.banner = ""
	g.bannerTicks = 0
}

// Resize updates the screen dimensions used for layout.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

var intentActions = []struct {
	action core.Action
	intent engine.Intent
}{
	{core.ActionLeft, engine.IntentMoveLeft},
	{core.ActionRight, engine.IntentMoveRight},
	{core.ActionSoftDrop, engine.IntentSoftDrop},
	{core.ActionHardDrop, engine.IntentHardDrop},
	{core.ActionRotateCW, engine.IntentRotateCW},
	{core.ActionRotateCCW, engine.IntentRotateCCW},
	{core.ActionRotate180, engine.IntentRotate180},
	{core.ActionHold, engine.IntentHold},
}

// Intents converts the actions held in a frame into engine intents.
func Intents(in core.InputFrame) engine.Intent {
	var held engine.Intent
	for _, m := range intentActions {
		if in.Has(m.action) {
			held |= m.intent
		}
	}
	return held
}

func (g *Game) pressed(in core.InputFrame, a core.Action) bool {
	return in.Has(a) && !g.prev.Has(a)
}

// Step advances the run by one platform tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	defer func() { g.prev = in.Clone() }()

	if g.pressed(in, core.ActionRestart) && g.session.GameOver() {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: int(time.Second / g.dt),
		})
		return core.StepResult{State: g.State()}
	}

	if g.pressed(in, core.ActionPause) && !g.session.GameOver() {
		g.paused = !g.paused
	}
	if g.paused || g.session.GameOver() || g.tooSmall() {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	if g.bannerTicks > 0 {
		g.bannerTicks--
	}

	res := g.session.Update(g.dt, Intents(in))
	g.feedGarbage(res)

	event := eventLabel(res)
	if event != "" {
		g.banner = event
		g.bannerTicks = bannerTicks
	}
	return core.StepResult{
		State:   g.State(),
		Cleared: res.LinesCleared,
		Event:   event,
	}
}

// feedGarbage pushes practice garbage every EveryPieces locks.
func (g *Game) feedGarbage(res engine.TickResult) {
	gc := g.cfg.Garbage
	if !gc.Enabled || gc.EveryPieces <= 0 || gc.Rows <= 0 || res.GameOver {
		return
	}
	if res.Locked {
		g.sinceGarbage++
		if g.sinceGarbage >= gc.EveryPieces {
			g.sinceGarbage = 0
			g.garbageDue = true
		}
	}
	if !g.garbageDue {
		return
	}
	width := g.session.Grid().Width()
	rows := engine.GarbageRows(gc.Rows, g.rng.Intn(width), width)
	if g.session.ReceiveGarbage(rows, millis(gc.AnimationMS)) {
		g.garbageDue = false
	}
}

func eventLabel(res engine.TickResult) string {
	switch {
	case res.PerfectClear:
		return "Perfect Clear"
	case res.Spin.IsSpin():
		return res.Spin.String()
	}
	switch res.LinesCleared {
	case 1:
		return "Single"
	case 2:
		return "Double"
	case 3:
		return "Triple"
	case 4:
		return "Tetris"
	}
	return ""
}

// State reports the run's status to the platform.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	st := g.session.Stats()
	return core.GameState{
		Score:    g.session.Score(),
		Level:    g.session.Level(),
		Lines:    g.session.Lines(),
		Pieces:   st.Pieces,
		Spins:    st.TotalSpins(),
		Elapsed:  g.session.Elapsed(),
		Ruleset:  g.session.Config().Ruleset,
		GameOver: g.session.GameOver(),
		Won:      g.session.Won(),
		Paused:   g.paused,
	}
}

// Snapshot returns the engine snapshot of the current run.
func (g *Game) Snapshot() engine.Snapshot {
	return g.session.Snapshot()
}

// Session exposes the underlying engine session.
func (g *Game) Session() *engine.Session {
	return g.session
}
