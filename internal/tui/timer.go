package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"focusd/internal/session"
	"focusd/internal/store"
)

var musicChoices = []string{"none", "rain", "lofi", "brown noise", "cafe"}

type timerModel struct {
	ctrl   *session.Controller
	store  *store.Store
	width  int
	height int

	snap     *session.Snapshot
	bar      progress.Model
	activity string // resolved activity name for display

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formActivity *string
	formMinutes  *string
	formMusic    *string
}

func newTimerModel(ctrl *session.Controller, s *store.Store) timerModel {
	activity, minutes, music := "", "25", musicChoices[0]
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	return timerModel{
		ctrl:         ctrl,
		store:        s,
		snap:         ctrl.Current(),
		bar:          bar,
		formActivity: &activity,
		formMinutes:  &minutes,
		formMusic:    &music,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	barWidth := w - 12
	if barWidth < 10 {
		barWidth = 10
	}
	t.bar.Width = barWidth
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		t.snap = t.ctrl.Current()
		t.resolveActivity()
		return t, nil

	case sessionStartedMsg:
		t.snap = msg.snap
		t.resolveActivity()
		return t, nil

	case sessionStoppedMsg:
		t.snap = nil
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if t.snap == nil {
				return t.showStartForm()
			}
		case key.Matches(msg, keys.Pause):
			if t.snap == nil {
				return t, nil
			}
			return t, t.togglePause()
		case key.Matches(msg, keys.Stop):
			if t.snap == nil {
				return t, nil
			}
			return t, t.stopSession()
		}
	}
	return t, nil
}

func (t *timerModel) resolveActivity() {
	if t.snap == nil || t.snap.ActivityID == "" {
		t.activity = ""
		return
	}
	a, err := t.store.GetActivity(t.snap.ActivityID)
	if err != nil || a == nil {
		t.activity = t.snap.ActivityID
		return
	}
	t.activity = a.Name
}

func (t timerModel) showStartForm() (timerModel, tea.Cmd) {
	*t.formMinutes = "25"
	*t.formMusic = musicChoices[0]

	activities, _ := t.store.ListActivities(false)
	actOptions := make([]huh.Option[string], 0, len(activities)+1)
	actOptions = append(actOptions, huh.NewOption("(none)", ""))
	for _, a := range activities {
		actOptions = append(actOptions, huh.NewOption(a.Name, a.ID))
	}
	musicOptions := make([]huh.Option[string], len(musicChoices))
	for i, m := range musicChoices {
		musicOptions[i] = huh.NewOption(m, m)
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Activity").Options(actOptions...).Value(t.formActivity),
			huh.NewInput().Title("Duration (minutes)").Value(t.formMinutes).
				Validate(func(v string) error {
					n, err := strconv.Atoi(strings.TrimSpace(v))
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of minutes")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Music").Options(musicOptions...).Value(t.formMusic),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		minutes, _ := strconv.Atoi(strings.TrimSpace(*t.formMinutes))
		activityID := *t.formActivity
		music := *t.formMusic
		return t, func() tea.Msg {
			snap, err := t.ctrl.Start(time.Duration(minutes)*time.Minute, activityID, music)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Start error: %v", err), isError: true}
			}
			return sessionStartedMsg{snap: snap}
		}
	}

	return t, cmd
}

func (t timerModel) togglePause() tea.Cmd {
	paused := t.snap.Paused
	return func() tea.Msg {
		var err error
		if paused {
			_, err = t.ctrl.Resume()
		} else {
			_, err = t.ctrl.Pause()
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if paused {
			return statusMsg{text: "Session resumed"}
		}
		return statusMsg{text: "Session paused"}
	}
}

func (t timerModel) stopSession() tea.Cmd {
	return func() tea.Msg {
		if err := t.ctrl.Stop(); err != nil {
			return statusMsg{text: fmt.Sprintf("Stop error: %v", err), isError: true}
		}
		return sessionStoppedMsg{}
	}
}

func (t timerModel) view() string {
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Focus Session")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return activePanelStyle.Width(t.width - 4).Render(content)
	}

	w := t.width - 4

	if t.snap == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Focus Timer"),
			"",
			clockIdleStyle.Width(w-6).Render("--:--"),
			"",
			mutedStyle.Render("No active session. Press s to start."),
		)
		return panelStyle.Width(w).Render(content)
	}

	clock := clockRunningStyle.Width(w - 6).Render(formatClock(t.snap.Remaining))
	state := successStyle.Render("FOCUSING")
	if t.snap.Paused {
		clock = clockPausedStyle.Width(w - 6).Render(formatClock(t.snap.Remaining))
		state = warningStyle.Render("PAUSED")
	}

	label := t.activity
	if label == "" {
		label = "Focus Session"
	}

	meta := mutedStyle.Render(fmt.Sprintf("%s · %s planned", label, formatClock(t.snap.Duration)))
	if t.snap.MusicChoice != "" && t.snap.MusicChoice != "none" {
		meta = mutedStyle.Render(fmt.Sprintf("%s · %s planned · ♪ %s", label, formatClock(t.snap.Duration), t.snap.MusicChoice))
	}

	bar := t.bar.ViewAs(t.snap.Percent / 100)

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Focus Timer"),
		"",
		clock,
		state,
		"",
		bar,
		"",
		meta,
		"",
		mutedStyle.Render("space: pause/resume  x: stop"),
	)
	return panelStyle.Width(w).Render(content)
}
