// Package tui renders the live terminal dashboard. It is a bubbletea
// front-end over the same snapshot cache the HTTP server consumes: a
// periodic tick refreshes through GetOrRefresh and the model re-renders
// whatever snapshot comes back.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/hostmon/internal/cache"
	"github.com/agbru/hostmon/internal/config"
	apperrors "github.com/agbru/hostmon/internal/errors"
	"github.com/agbru/hostmon/internal/format"
	"github.com/agbru/hostmon/internal/stats"
)

// Layout constants for the dashboard.
const (
	refreshInterval = time.Second
	historyCapacity = 120
	minPanelWidth   = 20
	panelChrome     = 4 // border + padding on both sides
)

// TickMsg drives the periodic refresh.
type TickMsg time.Time

// SnapshotMsg carries a freshly collected snapshot.
type SnapshotMsg struct {
	Snapshot stats.Snapshot
}

// CollectFailedMsg reports a failed collection cycle. The dashboard keeps
// showing the last good snapshot alongside the error.
type CollectFailedMsg struct {
	Err error
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	cache   *cache.StatsCache
	cfg     config.AppConfig
	version string

	keymap  KeyMap
	wait    spinner.Model
	cpuBar  progress.Model
	memBar  progress.Model
	history *RingBuffer

	snap     stats.Snapshot
	haveSnap bool
	err      error

	width  int
	height int
	paused bool
}

// NewModel creates a dashboard model over the given snapshot cache.
func NewModel(statsCache *cache.StatsCache, cfg config.AppConfig, version string) Model {
	wait := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		cache:   statsCache,
		cfg:     cfg,
		version: version,
		keymap:  DefaultKeyMap(),
		wait:    wait,
		cpuBar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		memBar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		history: NewRingBuffer(historyCapacity),
	}
}

// Init returns the initial commands: the first refresh, the tick loop and
// the wait spinner animation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.wait.Tick, refreshCmd(m.cache), tickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case TickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(refreshCmd(m.cache), tickCmd())

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.haveSnap = true
		m.err = nil
		m.history.Push(msg.Snapshot.CPU.Overall.TotalPercent)
		return m, nil

	case CollectFailedMsg:
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.haveSnap {
			return m, nil
		}
		var cmd tea.Cmd
		m.wait, cmd = m.wait.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, refreshCmd(m.cache)
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if !m.haveSnap {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("collection failed: %v", m.err)) + "\n"
		}
		return m.wait.View() + " waiting for the first snapshot...\n"
	}

	header := m.renderHeader()
	cpu := panelStyle.Width(m.panelWidth()).Render(m.renderCPU())
	mem := panelStyle.Width(m.panelWidth()).Render(m.renderMemory())
	footer := m.renderFooter()

	sections := []string{header, cpu, mem}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("collection failed: %v", m.err)))
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	status := statusLiveStyle.Render("LIVE")
	if m.paused {
		status = statusPauseStyle.Render("PAUSED")
	}

	left := titleStyle.Render(m.snap.Hostname) +
		versionStyle.Render(" | hostmon "+m.version+" | ") +
		labelStyle.Render("up ") + valueStyle.Render(format.Uptime(m.snap.Uptime)) +
		versionStyle.Render(" | ") +
		labelStyle.Render("load ") + valueStyle.Render(fmt.Sprintf("%.2f", m.snap.Load1)) +
		versionStyle.Render(" | ") + status

	return headerStyle.Width(m.width).Render(left)
}

func (m Model) renderCPU() string {
	overall := m.snap.CPU.Overall

	spark := m.history.Slice()
	if inner := m.innerWidth(); len(spark) > inner {
		spark = spark[len(spark)-inner:]
	}

	lines := []string{
		sparklineStyle.Render(RenderSparkline(spark)),
		fmt.Sprintf("%s %s %s",
			labelStyle.Render("CPU"),
			m.cpuBar.ViewAs(overall.TotalPercent/100),
			valueStyle.Render(fmt.Sprintf("%5.1f%%", overall.TotalPercent))),
		labelStyle.Render(fmt.Sprintf("    user %.1f%%  system %.1f%%  nice %.1f%%",
			overall.UserPercent, overall.SystemPercent, overall.NicePercent)),
	}

	for i, core := range m.snap.CPU.PerCore {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			labelStyle.Render(fmt.Sprintf("%3d", i)),
			m.cpuBar.ViewAs(core.TotalPercent/100),
			labelStyle.Render(fmt.Sprintf("%5.1f%%", core.TotalPercent))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderMemory() string {
	usedPercent := 0.0
	if m.snap.MemoryTotal > 0 {
		usedPercent = float64(m.snap.MemoryUsed) / float64(m.snap.MemoryTotal) * 100
	}

	lines := []string{
		fmt.Sprintf("%s %s %s",
			labelStyle.Render("Mem"),
			m.memBar.ViewAs(usedPercent/100),
			valueStyle.Render(fmt.Sprintf("%5.1f%%", usedPercent))),
		labelStyle.Render(fmt.Sprintf("    %d / %d MiB used  %d MiB available  %d MiB cached",
			format.Mebibytes(m.snap.MemoryUsed),
			format.Mebibytes(m.snap.MemoryTotal),
			format.Mebibytes(m.snap.MemoryAvailable),
			format.Mebibytes(m.snap.MemoryCached))),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderFooter() string {
	help := footerKeyStyle.Render("q") + footerDescStyle.Render(" quit  ") +
		footerKeyStyle.Render("p") + footerDescStyle.Render(" pause  ") +
		footerKeyStyle.Render("r") + footerDescStyle.Render(" refresh")

	updated := footerDescStyle.Render("updated " + m.snap.CapturedAt.Format("15:04:05"))
	return help + footerDescStyle.Render("   ") + updated
}

func (m Model) panelWidth() int {
	w := m.width - 2
	if w < minPanelWidth {
		w = minPanelWidth
	}
	return w
}

func (m Model) innerWidth() int {
	return m.panelWidth() - panelChrome
}

func (m *Model) layoutPanels() {
	inner := m.innerWidth()
	barWidth := inner - 12 // label + percentage columns
	if barWidth < 10 {
		barWidth = 10
	}
	m.cpuBar.Width = barWidth
	m.memBar.Width = barWidth
	m.history.Resize(inner)
}

// Run is the public entry point for the dashboard mode. It creates the
// bubbletea program, runs it until quit or context cancellation, and
// returns the process exit code.
func Run(ctx context.Context, statsCache *cache.StatsCache, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(statsCache, cfg, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || apperrors.IsContextError(err) {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// refreshCmd returns a command that fetches a snapshot through the cache.
func refreshCmd(c *cache.StatsCache) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.GetOrRefresh(context.Background())
		if err != nil {
			return CollectFailedMsg{Err: err}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// tickCmd returns a command that sends a TickMsg after the refresh interval.
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
