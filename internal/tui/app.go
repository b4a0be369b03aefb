package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focusd/internal/export"
	"focusd/internal/session"
	"focusd/internal/store"
)

// App is the root Bubble Tea model. While the app is in the foreground it
// also drives the background evaluation cadence, so milestones and
// completions fire without a separate daemon.
type App struct {
	ctrl     *session.Controller
	store    *store.Store
	interval time.Duration
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer      timerModel
	stats      statsModel
	activities activitiesModel

	help   help.Model
	status string
}

func NewApp(ctrl *session.Controller, s *store.Store, interval time.Duration) App {
	h := help.New()
	h.ShowAll = false

	if interval <= 0 {
		interval = 20 * time.Second
	}

	return App{
		ctrl:       ctrl,
		store:      s,
		interval:   interval,
		activeView: viewTimer,
		timer:      newTimerModel(ctrl, s),
		stats:      newStatsModel(s),
		activities: newActivitiesModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		a.bgTickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) bgTickCmd() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return bgTickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.activities.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewActivities
			return a, a.activities.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case bgTickMsg:
		cmds = append(cmds, a.bgTickCmd(), a.runBackgroundTick())
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case sessionStartedMsg:
		a.status = "Session started"
		a.timer, _ = a.timer.update(msg)
		return a, nil

	case sessionStoppedMsg:
		a.status = "Session stopped"
		a.timer, _ = a.timer.update(msg)
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) runBackgroundTick() tea.Cmd {
	return func() tea.Msg {
		outcome := a.ctrl.OnBackgroundTick(context.Background())
		if outcome == session.TickFailed {
			return statusMsg{text: "Background evaluation failed", isError: true}
		}
		return nil
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewActivities:
		a.activities, cmd = a.activities.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.timer.formActive
	case viewActivities:
		return a.activities.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewStats:
		return a.stats.refresh()
	case viewActivities:
		return a.activities.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewStats:
		content = a.stats.view()
	case viewActivities:
		content = a.activities.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusd")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Session indicator in footer
	sessionInfo := ""
	if snap := a.timer.snap; snap != nil {
		sessionInfo = successStyle.Render(" ● " + formatClock(snap.Remaining))
		if snap.Paused {
			sessionInfo = warningStyle.Render(" ⏸ " + formatClock(snap.Remaining))
		}
	}

	left := footerStyle.Render(helpView)
	right := sessionInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.store.ListSessions(store.LogFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		activities := make(map[string]*store.Activity)
		alist, _ := a.store.ListActivities(true)
		for i := range alist {
			activities[alist[i].ID] = &alist[i]
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("focusd-export-%s.csv", dateStr))
			if err := export.ToCSV(entries, activities, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("focusd-export-%s.json", dateStr))
			if err := export.ToJSON(entries, activities, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
