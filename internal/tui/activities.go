package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"focusd/internal/store"
)

var activityColors = []string{"#7C5CFC", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type activitiesModel struct {
	store  *store.Store
	width  int
	height int

	activities   []store.Activity
	cursor       int
	showArchived bool

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName  *string
	formColor *string
}

func newActivitiesModel(s *store.Store) activitiesModel {
	name, color := "", activityColors[0]
	return activitiesModel{
		store:     s,
		formName:  &name,
		formColor: &color,
	}
}

func (a *activitiesModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a activitiesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		activities, _ := a.store.ListActivities(a.showArchived)
		return activitiesDataMsg{activities: activities}
	}
}

func (a activitiesModel) update(msg tea.Msg) (activitiesModel, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case activitiesDataMsg:
		a.activities = msg.activities
		if a.cursor >= len(a.activities) {
			a.cursor = max(0, len(a.activities)-1)
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, keys.Down):
			if a.cursor < len(a.activities)-1 {
				a.cursor++
			}
		case key.Matches(msg, keys.New):
			return a.showNewForm()
		case key.Matches(msg, keys.Delete):
			if len(a.activities) > 0 {
				act := a.activities[a.cursor]
				a.store.ArchiveActivity(act.ID)
				return a, a.refresh()
			}
		}
	}
	return a, nil
}

func (a activitiesModel) showNewForm() (activitiesModel, tea.Cmd) {
	*a.formName = ""
	*a.formColor = activityColors[0]

	colorOptions := make([]huh.Option[string], len(activityColors))
	for i, c := range activityColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity Name").Value(a.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(a.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a activitiesModel) updateForm(msg tea.Msg) (activitiesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		if *a.formName != "" {
			a.store.CreateActivity(*a.formName, *a.formColor)
		}
		return a, a.refresh()
	}

	return a, cmd
}

func (a activitiesModel) view() string {
	if a.formActive && a.form != nil {
		title := titleStyle.Render("New Activity")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", a.form.View())
		return panelStyle.Width(a.width - 4).Render(content)
	}

	w := a.width - 4
	title := titleStyle.Render("Activities")

	if len(a.activities) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No activities yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, act := range a.activities {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(act.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == a.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, colorDot, act.Name)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: archive"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
