package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brickfall/internal/games/brickfall"
	"github.com/vovakirdan/brickfall/internal/registry"
	"github.com/vovakirdan/brickfall/internal/storage"
)

const historyLimit = 100

// historyColumn is one column of the run table.
type historyColumn struct {
	title string
	width int
	cell  func(rank int, r storage.RunRecord) string
}

var (
	colRank   = historyColumn{"#", 4, func(rank int, _ storage.RunRecord) string { return strconv.Itoa(rank) }}
	colScore  = historyColumn{"Score", 9, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.Score) }}
	colLevel  = historyColumn{"Level", 6, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.Level) }}
	colWave   = historyColumn{"Wave", 5, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.Wave) }}
	colTurns  = historyColumn{"Turns", 6, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.Turns) }}
	colCombo  = historyColumn{"Combo", 6, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.BestCombo) }}
	colCoins  = historyColumn{"Coins", 7, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.Coins) }}
	colXP     = historyColumn{"XP", 6, func(_ int, r storage.RunRecord) string { return strconv.Itoa(r.XP) }}
	colPlayed = historyColumn{"Played", 12, func(_ int, r storage.RunRecord) string { return r.CreatedAt.Format("Jan 02 15:04") }}
)

// historyColumns picks what a mode's runs are measured by. Invasion
// runs count waves survived; trial runs have no shop, so coins are
// left out.
func historyColumns(mode string) []historyColumn {
	switch mode {
	case brickfall.IDInvasion:
		return []historyColumn{colRank, colScore, colWave, colTurns, colCombo, colXP, colPlayed}
	case brickfall.IDTrial:
		return []historyColumn{colRank, colScore, colLevel, colTurns, colCombo, colPlayed}
	default:
		return []historyColumn{colRank, colScore, colLevel, colTurns, colCombo, colCoins, colPlayed}
	}
}

// HistoryKeyMap is the run history key bindings.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back, k.Quit}
}

func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultHistoryKeyMap returns the default history bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextMode: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev mode")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	historyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	historyDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	historyTabStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))
	historyActiveTab  = lipgloss.NewStyle().Padding(0, 1).Bold(true).
				Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// HistoryModel shows the best runs per mode and the home base totals.
type HistoryModel struct {
	modes     []registry.ModeInfo
	current   int
	store     *storage.Store
	runs      []storage.RunRecord
	resources map[string]int
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates the history screen, opened on the first mode.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		modes:  registry.List(),
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if store != nil {
		m.resources, _ = store.Resources()
	}
	m.load()
	return m
}

// mode returns the selected mode id, or "" without registered modes.
func (m HistoryModel) mode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.current].ID
}

// load fetches the selected mode's runs and rebuilds the table for its
// column set.
func (m *HistoryModel) load() {
	m.runs = nil
	if m.store != nil && m.mode() != "" {
		if runs, err := m.store.TopRuns(m.mode(), historyLimit); err == nil {
			m.runs = runs
		}
	}

	cols := historyColumns(m.mode())
	tcols := make([]table.Column, len(cols))
	for i, c := range cols {
		tcols[i] = table.Column{Title: c.title, Width: c.width}
	}
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = c.cell(i+1, r)
		}
		rows[i] = row
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	// Header, tabs, detail, home base and help take ten rows.
	m.table = table.New(
		table.WithColumns(tcols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
		table.WithStyles(styles),
	)
}

func (m *HistoryModel) cycle(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.modes)) % len(m.modes)
	m.load()
}

func (m HistoryModel) Init() tea.Cmd { return nil }

// Update handles keys and resizes.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.cycle(-1)
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.load()
		m.table.SetCursor(cursor)
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders tabs, the run table, the selected run's detail and the
// home base totals.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	var b strings.Builder
	b.WriteString(centerText(historyTitleStyle.Render("RUN HISTORY"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	body := historyDimStyle.Italic(true).Padding(1, 2).Render("No runs recorded yet.")
	if len(m.runs) > 0 {
		body = m.table.View()
	}
	b.WriteString(centerText(historyBoxStyle.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(historyDimStyle.Render(m.detailLine()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.homeBaseLine(), m.width))
	b.WriteString("\n\n")
	b.WriteString(historyDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs lists the modes, falling back to "< title >" when they do not fit.
func (m HistoryModel) tabs() string {
	if len(m.modes) == 0 {
		return historyDimStyle.Render("no modes registered")
	}
	parts := make([]string, len(m.modes))
	for i, info := range m.modes {
		style := historyTabStyle
		if i == m.current {
			style = historyActiveTab
		}
		parts[i] = style.Render(info.ShortName())
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > m.width {
		return historyActiveTab.Render("< " + m.modes[m.current].ShortName() + " >")
	}
	return line
}

// detailLine describes the highlighted run: its seed for replays and why
// it ended.
func (m HistoryModel) detailLine() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return ""
	}
	r := m.runs[i]
	line := fmt.Sprintf("seed %d", r.Seed)
	if r.Reason != "" {
		line += "  ·  " + r.Reason
	}
	return line
}

// homeBaseLine summarizes the stored home base resources.
func (m HistoryModel) homeBaseLine() string {
	if len(m.resources) == 0 {
		return "Home base: empty"
	}
	names := make([]string, 0, len(m.resources))
	for k := range m.resources {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s %d", k, m.resources[k])
	}
	return "Home base: " + strings.Join(parts, "  ")
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m HistoryModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting reports whether the user asked to quit.
func (m HistoryModel) IsQuitting() bool { return m.quitting }

// RunHistory shows the history screen and reports whether the user went
// back to the menu.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewHistoryModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	return ok && m.IsGoingBack(), nil
}
