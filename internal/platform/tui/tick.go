// Package tui is the Bubble Tea front-end: it drives games at a fixed tick
// rate, maps keys to actions and serves the same models over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

// TickMsg asks the game model to advance one simulation step.
// It carries the wall time held-key windows are measured against.
type TickMsg time.Time

// tickCmd schedules the next step one tick period from now. Games advance a
// fixed step per message regardless of when it arrives.
func tickCmd(cfg core.RuntimeConfig) tea.Cmd {
	return tea.Tick(cfg.TickDuration(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
