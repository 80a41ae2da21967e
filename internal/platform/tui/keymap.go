package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

// GameKeyMap binds keys to game actions.
type GameKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	Rotate180 key.Binding
	Hold      key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// DefaultGameKeyMap returns the default bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		SoftDrop:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "soft drop")),
		HardDrop:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
		RotateCW:  key.NewBinding(key.WithKeys("up", "x", "k"), key.WithHelp("↑/x", "rotate")),
		RotateCCW: key.NewBinding(key.WithKeys("z", "ctrl+z"), key.WithHelp("z", "rotate ccw")),
		Rotate180: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "rotate 180")),
		Hold:      key.NewBinding(key.WithKeys("c", "shift+tab"), key.WithHelp("c", "hold")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "menu")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Hold, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Rotate180, k.Hold},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct {
	keys     GameKeyMap
	bindings []actionBinding
}

// NewKeyMapper creates a key mapper for the given bindings.
func NewKeyMapper(keys GameKeyMap) *KeyMapper {
	return &KeyMapper{
		keys: keys,
		bindings: []actionBinding{
			{keys.Quit, core.ActionQuit},
			{keys.Left, core.ActionLeft},
			{keys.Right, core.ActionRight},
			{keys.SoftDrop, core.ActionSoftDrop},
			{keys.HardDrop, core.ActionHardDrop},
			{keys.RotateCW, core.ActionRotateCW},
			{keys.RotateCCW, core.ActionRotateCCW},
			{keys.Rotate180, core.ActionRotate180},
			{keys.Hold, core.ActionHold},
			{keys.Pause, core.ActionPause},
			{keys.Restart, core.ActionRestart},
			{keys.Back, core.ActionBack},
		},
	}
}

// Keys returns the bindings used by the mapper.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return core.ActionNone
}

// Terminals report key presses and auto-repeats but never releases, so a
// shift key counts as held while repeats keep arriving within repeatWindow.
// Every other action is a tap that lasts exactly one frame.
const repeatWindow = 120 * time.Millisecond

func sustained(a core.Action) bool {
	return a == core.ActionLeft || a == core.ActionRight || a == core.ActionSoftDrop
}

// HeldKeys turns a stream of key presses into per-tick input frames.
type HeldKeys struct {
	window time.Duration
	until  map[core.Action]time.Time // sustained actions and their expiry
	taps   map[core.Action]bool      // delivered on the next frame only
}

// NewHeldKeys creates a tracker using the given repeat window.
// A non-positive window falls back to the default.
func NewHeldKeys(window time.Duration) *HeldKeys {
	if window <= 0 {
		window = repeatWindow
	}
	return &HeldKeys{
		window: window,
		until:  make(map[core.Action]time.Time),
		taps:   make(map[core.Action]bool),
	}
}

// Press records a key press at now.
func (h *HeldKeys) Press(a core.Action, now time.Time) {
	switch {
	case a == core.ActionNone:
		return
	case sustained(a):
		// Pressing one direction releases the other.
		switch a {
		case core.ActionLeft:
			delete(h.until, core.ActionRight)
		case core.ActionRight:
			delete(h.until, core.ActionLeft)
		}
		h.until[a] = now.Add(h.window)
	default:
		h.taps[a] = true
	}
}

// Frame returns the actions held at now and consumes pending taps.
func (h *HeldKeys) Frame(now time.Time) core.InputFrame {
	f := core.NewInputFrame()
	for a, exp := range h.until {
		if now.After(exp) {
			delete(h.until, a)
			continue
		}
		f.Set(a)
	}
	for a := range h.taps {
		f.Set(a)
		delete(h.taps, a)
	}
	return f
}

// Reset forgets every held key and pending tap.
func (h *HeldKeys) Reset() {
	clear(h.until)
	clear(h.taps)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
