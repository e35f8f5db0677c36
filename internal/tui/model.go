// Package tui implements the full-screen watch mode: the terminal dashboard
// redrawn on an interval.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 60 * time.Second

// Builder produces a dashboard view.
type Builder interface {
	Build(ctx context.Context) *render.View
}

// Config configures the watch screen.
type Config struct {
	Builder  Builder
	Theme    themes.Theme
	Interval time.Duration
	Width    int
	Height   int
}

type viewLoadedMsg struct {
	view *render.View
}

// tickMsg triggers a scheduled refresh. Ticks from an older generation are
// dropped so a manual refresh does not double the schedule.
type tickMsg struct {
	generation int
}

// Model holds the watch screen state.
type Model struct {
	lastRefresh  time.Time
	ctx          context.Context
	builder      Builder
	view         *render.View
	now          func() time.Time
	help         help.Model
	keymap       KeyMap
	theme        themes.Theme
	spinner      spinner.Model
	interval     time.Duration
	width        int
	height       int
	generation   int
	refreshes    int
	loading      bool
	quitting     bool
	showFullHelp bool
}

// New creates the model. Init starts the first refresh.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Theme.Primary == "" {
		cfg.Theme = themes.Default
	}
	if cfg.Width <= 0 {
		cfg.Width = render.DefaultTerminalWidth
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = cfg.Theme.Spinner

	h := help.New()
	h.Styles.ShortKey = cfg.Theme.Help
	h.Styles.ShortDesc = cfg.Theme.Help
	h.Styles.FullKey = cfg.Theme.Help
	h.Styles.FullDesc = cfg.Theme.Help

	return Model{
		ctx:      ctx,
		builder:  cfg.Builder,
		now:      time.Now,
		help:     h,
		keymap:   DefaultKeyMap(),
		theme:    cfg.Theme,
		spinner:  s,
		interval: cfg.Interval,
		width:    cfg.Width,
		height:   cfg.Height,
		loading:  true,
	}
}

// Init starts the spinner and the first refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewLoadedMsg:
		m.view = msg.view
		m.loading = false
		m.refreshes++
		m.lastRefresh = m.now()
		return m, m.scheduleTick()

	case tickMsg:
		if msg.generation != m.generation || m.loading {
			return m, nil
		}
		return m.startRefresh()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.ToggleHelp):
		m.showFullHelp = !m.showFullHelp
		return m, nil
	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		return m.startRefresh()
	}
	return m, nil
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	m.loading = true
	m.generation++
	return m, tea.Batch(m.spinner.Tick, m.refresh())
}

func (m Model) refresh() tea.Cmd {
	builder := m.builder
	ctx := m.ctx
	return func() tea.Msg {
		return viewLoadedMsg{view: builder.Build(ctx)}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	generation := m.generation
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.view != nil {
		b.WriteString(render.TerminalString(m.view, m.width))
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.showFullHelp {
		b.WriteString(m.help.FullHelpView(m.keymap.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keymap.ShortHelp()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) statusLine() string {
	if m.loading {
		return m.theme.StatusBar.Render(m.spinner.View() + " " + m.theme.StatusPending.Render("Fetching mission data..."))
	}

	status := m.theme.StatusSuccess.Render("● live")
	if m.view != nil {
		switch {
		case m.view.HasErrors():
			status = m.theme.StatusError.Render("● degraded")
		case hasLevel(m.view.Notices, model.LevelWarning):
			status = m.theme.StatusWarning.Render("● warnings")
		}
	}

	next := m.lastRefresh.Add(m.interval)
	return m.theme.StatusBar.Render(fmt.Sprintf("%s  updated %s  next refresh %s",
		status,
		m.lastRefresh.Format("15:04:05"),
		next.Format("15:04:05")))
}

func hasLevel(notices []model.Notice, level model.Level) bool {
	for _, n := range notices {
		if n.Level == level {
			return true
		}
	}
	return false
}
