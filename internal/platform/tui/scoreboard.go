package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/storage/redis"
)

// timeRanked is implemented by games whose runs are ranked by completion time.
type timeRanked interface {
	RankedByTime() bool
}

// RankedByTime reports whether a registered game ranks runs by time.
func RankedByTime(gameID string) bool {
	g, err := registry.Create(gameID)
	if err != nil {
		return false
	}
	tr, ok := g.(timeRanked)
	return ok && tr.RankedByTime()
}

// FormatDuration renders a run time as m:ss.cc.
func FormatDuration(d time.Duration) string {
	d = d.Round(10 * time.Millisecond)
	return fmt.Sprintf("%d:%05.2f", int(d/time.Minute), (d % time.Minute).Seconds())
}

const (
	minWidthForSidebar = 80 // below this the mode list becomes tabs
	sidebarWidth       = 22
	maxRuns            = 100
	boardTimeout       = 2 * time.Second
)

var (
	sbTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	sbDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sbActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	sbTabStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	sbPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	sbEmptyStyle  = sbDimStyle.Italic(true).Padding(2, 4)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Source   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Source, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Source, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next mode")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev mode")),
		Source:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "local/global")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows recorded runs per mode, from the local database or
// the shared leaderboard.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	archive    *Archive
	global     bool // showing the shared leaderboard
	byTime     bool // current mode ranks runs by completion time
	stats      *storage.GameStats
	rows       []table.Row
	loadErr    error
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a scoreboard over archive. Either backend may
// be missing; the global view is only offered with a leaderboard.
func NewScoreboardModel(archive *Archive, width, height int) ScoreboardModel {
	if archive == nil {
		archive = &Archive{}
	}
	m := ScoreboardModel{
		games:   registry.List(),
		archive: archive,
		keys:    DefaultScoreboardKeyMap(),
		help:    help.New(),
		width:   width,
		height:  height,
	}
	m.keys.Source.SetEnabled(archive.Board != nil)
	m.table = m.createTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) sidebar() bool {
	return m.width >= minWidthForSidebar
}

func (m *ScoreboardModel) columns() []table.Column {
	if m.global {
		best := "Score"
		if m.byTime {
			best = "Time"
		}
		return []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: 16},
			{Title: best, Width: 10},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 9},
		{Title: "Time", Width: 9},
		{Title: "Lines", Width: 6},
		{Title: "Lvl", Width: 4},
		{Title: "Player", Width: 10},
		{Title: "Date", Width: 12},
	}
}

func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ScoreboardModel) currentGame() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// reload fetches the rows and stats of the current mode.
func (m *ScoreboardModel) reload() {
	gameID := m.currentGame()
	m.byTime = RankedByTime(gameID)
	m.rows, m.stats, m.loadErr = nil, nil, nil

	if gameID != "" {
		if m.global {
			m.rows, m.loadErr = m.globalRows(gameID)
		} else {
			m.rows, m.loadErr = m.localRows(gameID)
		}
	}
	if m.archive.Store != nil && gameID != "" {
		if st, err := m.archive.Store.GetGameStats(gameID); err == nil {
			m.stats = st
		}
	}

	// Rows must match the columns at every step.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) localRows(gameID string) ([]table.Row, error) {
	store := m.archive.Store
	if store == nil {
		return nil, nil
	}
	var (
		runs []storage.Run
		err  error
	)
	if m.byTime {
		runs, err = store.FastestRuns(gameID, maxRuns)
	} else {
		runs, err = store.TopRuns(gameID, maxRuns)
	}
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprint(r.Score),
			FormatDuration(r.Duration),
			fmt.Sprint(r.Lines),
			fmt.Sprint(r.Level),
			player,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows, nil
}

func (m *ScoreboardModel) globalRows(gameID string) ([]table.Row, error) {
	ctx, cancel := context.WithTimeout(context.Background(), boardTimeout)
	defer cancel()

	var (
		entries []redis.Entry
		err     error
	)
	if m.byTime {
		entries, err = m.archive.Board.Fastest(ctx, gameID, maxRuns)
	} else {
		entries, err = m.archive.Board.Top(ctx, gameID, maxRuns)
	}
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		best := fmt.Sprint(e.Score)
		if m.byTime {
			best = FormatDuration(e.Time)
		}
		rows[i] = table.Row{fmt.Sprintf("#%d", e.Rank), e.Player, best}
	}
	return rows, nil
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + len(m.games) - 1) % len(m.games)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.Source):
			m.global = !m.global
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if m.byTime {
		title = "FASTEST TIMES"
	}
	if m.global {
		title = "GLOBAL " + title
	}
	if len(m.games) > 0 {
		title = fmt.Sprintf("%s - %s", title, m.games[m.gameCursor].Title)
	}

	var b strings.Builder
	b.WriteString(sbTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	if m.sidebar() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			sbPanelStyle.Width(sidebarWidth).Render(m.renderSidebar()),
			"  ",
			sbPanelStyle.Render(m.renderTable())))
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(sbPanelStyle.Render(m.renderTable()), m.width))
	}
	b.WriteString("\n")
	b.WriteString(sbDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// renderSidebar lists the modes and summarises the selected one.
func (m ScoreboardModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString("Modes\n")
	b.WriteString(strings.Repeat("-", sidebarWidth-4))
	b.WriteString("\n")
	for i, g := range m.games {
		name := truncate(g.Title, sidebarWidth-6)
		if i == m.gameCursor {
			b.WriteString(sbActiveStyle.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}

	if st := m.stats; st != nil && st.GamesCount > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Games  %d\n", st.GamesCount)
		fmt.Fprintf(&b, "Best   %d\n", st.HighScore)
		fmt.Fprintf(&b, "Avg    %.0f\n", st.AvgScore)
		fmt.Fprintf(&b, "Lines  %d\n", st.TotalLines)
		if st.BestTime > 0 {
			fmt.Fprintf(&b, "Time   %s\n", FormatDuration(st.BestTime))
		}
	}
	return b.String()
}

// renderTabs shows the modes in one line, or just the current one when
// they do not fit.
func (m ScoreboardModel) renderTabs() string {
	if len(m.games) == 0 {
		return ""
	}
	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		name := truncate(g.Title, 12)
		if i == m.gameCursor {
			tabs[i] = sbTabStyle.Render(name)
		} else {
			tabs[i] = sbDimStyle.Render(" " + name + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.games[m.gameCursor].Title)
	}
	return line
}

func (m ScoreboardModel) renderTable() string {
	switch {
	case m.loadErr != nil:
		return sbEmptyStyle.Render("Could not load runs:\n" + m.loadErr.Error())
	case len(m.rows) == 0 && m.global:
		return sbEmptyStyle.Render("The shared leaderboard is empty.")
	case len(m.rows) == 0:
		return sbEmptyStyle.Render("No runs recorded yet.\nPlay a game to set a record!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
