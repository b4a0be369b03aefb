package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"focusd/internal/session"
)

func newStartCommand() *cobra.Command {
	var activity string
	var music string

	cmd := &cobra.Command{
		Use:   "start <duration>",
		Short: "Start a focus session",
		Long: `Start a focus session. Duration accepts Go syntax ("25m", "1h30m") or a
bare number of minutes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := parseDuration(args[0])
			if err != nil {
				return err
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			activityID, err := resolveActivity(rt, activity)
			if err != nil {
				return err
			}

			snap, err := rt.ctrl.Start(duration, activityID, music)
			if errors.Is(err, session.ErrSessionActive) {
				return fmt.Errorf("%w; run 'focusd stop' first", err)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Session started: %s remaining\n", snap.Remaining.Round(time.Second))
			return nil
		},
	}

	cmd.Flags().StringVarP(&activity, "activity", "a", "", "activity name or ID")
	cmd.Flags().StringVarP(&music, "music", "m", "", "music choice, recorded with the session")
	return cmd
}

func newPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			snap, err := rt.ctrl.Pause()
			if err != nil {
				return err
			}
			fmt.Printf("Paused with %s remaining\n", snap.Remaining.Round(time.Second))
			return nil
		},
	}
}

func newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			snap, err := rt.ctrl.Resume()
			if err != nil {
				return err
			}
			fmt.Printf("Resumed: %s remaining\n", snap.Remaining.Round(time.Second))
			return nil
		},
	}
}

func newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop and discard the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.ctrl.Stop(); err != nil {
				return err
			}
			fmt.Println("Session stopped")
			return nil
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			snap := rt.ctrl.Current()
			if snap == nil {
				fmt.Println("No active session")
				return nil
			}

			state := "focusing"
			if snap.Paused {
				state = "paused"
			}
			fmt.Printf("%s · %s of %s remaining (%.0f%% done)\n",
				state,
				snap.Remaining.Round(time.Second),
				snap.Duration.Round(time.Second),
				snap.Percent,
			)
			if snap.ActivityID != "" {
				if a, err := rt.store.GetActivity(snap.ActivityID); err == nil && a != nil {
					fmt.Printf("activity: %s\n", a.Name)
				}
			}
			if snap.MusicChoice != "" {
				fmt.Printf("music: %s\n", snap.MusicChoice)
			}
			return nil
		},
	}
}

func newTickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run one background evaluation pass",
		Long: `Run one background evaluation pass: fires the milestone notification or
completion alarm if the session has crossed either threshold. Intended
for host schedulers (cron, systemd timers) instead of 'focusd run'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			outcome := rt.ctrl.OnBackgroundTick(cmd.Context())
			fmt.Println(outcome)
			if outcome == session.TickFailed {
				return fmt.Errorf("tick failed")
			}
			return nil
		},
	}
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use minutes (25) or Go syntax (25m)", s)
	}
	return d, nil
}

// resolveActivity maps a user-supplied name or ID to an activity ID. An empty
// value passes through; sessions do not require an activity.
func resolveActivity(rt *runtime, nameOrID string) (string, error) {
	if nameOrID == "" {
		return "", nil
	}
	if a, err := rt.store.GetActivity(nameOrID); err == nil && a != nil {
		return a.ID, nil
	}
	activities, err := rt.store.ListActivities(false)
	if err != nil {
		return "", err
	}
	for _, a := range activities {
		if strings.EqualFold(a.Name, nameOrID) {
			return a.ID, nil
		}
	}
	return "", fmt.Errorf("unknown activity %q", nameOrID)
}
