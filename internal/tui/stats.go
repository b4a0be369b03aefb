package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focusd/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	days   []store.DailyFocus
	offset int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		days, _ := r.store.GetDailyFocus(from, to)
		return statsDataMsg{days: days}
	}
}

func (r statsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*r.offset)
	return end.AddDate(0, 0, -7), end
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		r.days = msg.days
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *statsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	byDate := make(map[string]store.DailyFocus, len(r.days))
	for _, d := range r.days {
		byDate[d.Date] = d
	}

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		value := barchart.BarValue{
			Name:  dateStr,
			Value: 0,
			Style: lipgloss.NewStyle().Foreground(colorSubtle),
		}
		if day, ok := byDate[dateStr]; ok {
			value.Value = float64(day.TotalMS) / 3600_000
			value.Style = lipgloss.NewStyle().Foreground(colorPrimary)
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{value},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r statsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus Stats"), "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (r statsModel) renderSummaryTable(w int) string {
	if len(r.days) == 0 {
		return mutedStyle.Render("  No sessions in this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %10s", "Date", "Focus", "Sessions", "Completed"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))

	var totalMS int64
	var totalSessions, totalCompleted int
	for _, d := range r.days {
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10d %10d",
			d.Date, formatHours(d.TotalMS), d.SessionCount, d.CompletedNum,
		))
		totalMS += d.TotalMS
		totalSessions += d.SessionCount
		totalCompleted += d.CompletedNum
	}

	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-12s %10s %10d %10d",
		"Total", formatHours(totalMS), totalSessions, totalCompleted,
	)))

	return strings.Join(rows, "\n")
}
