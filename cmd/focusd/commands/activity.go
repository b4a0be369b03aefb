package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActivityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage activities",
	}
	cmd.AddCommand(newActivityAddCommand())
	cmd.AddCommand(newActivityListCommand())
	cmd.AddCommand(newActivityArchiveCommand())
	return cmd
}

func newActivityAddCommand() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			a, err := rt.store.CreateActivity(args[0], color)
			if err != nil {
				return err
			}
			fmt.Printf("Created activity %q (%s)\n", a.Name, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#7C5CFC", "display color")
	return cmd
}

func newActivityListCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			activities, err := rt.store.ListActivities(all)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println("No activities")
				return nil
			}
			for _, a := range activities {
				suffix := ""
				if a.Archived {
					suffix = " (archived)"
				}
				fmt.Printf("%-36s  %s%s\n", a.ID, a.Name, suffix)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include archived activities")
	return cmd
}

func newActivityArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <name-or-id>",
		Short: "Archive an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := resolveActivity(rt, args[0])
			if err != nil {
				return err
			}
			if err := rt.store.ArchiveActivity(id); err != nil {
				return err
			}
			fmt.Println("Archived")
			return nil
		},
	}
}
