package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"focusd/internal/tui"
)

var (
	configPath string
	dbPath     string
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "focusd",
		Short: "A focus timer that survives restarts",
		Long: `focusd runs timed focus sessions against a persistent wall-clock record,
so sessions keep counting down across restarts and suspends. Running it
with no arguments opens the interactive TUI.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/focusd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default ~/.config/focusd/focusd.db)")

	rootCmd.AddCommand(newStartCommand())
	rootCmd.AddCommand(newPauseCommand())
	rootCmd.AddCommand(newResumeCommand())
	rootCmd.AddCommand(newStopCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newTickCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newActivityCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	app := tui.NewApp(rt.ctrl, rt.store, rt.cfg.Scheduler.Interval)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
