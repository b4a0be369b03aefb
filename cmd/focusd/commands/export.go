package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"focusd/internal/export"
	"focusd/internal/store"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export session history to CSV or JSON",
		Long:  `Export session history. The format follows the file extension: .csv or .json.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".csv" && ext != ".json" {
				return fmt.Errorf("unsupported extension %q: use .csv or .json", ext)
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			entries, err := rt.store.ListSessions(store.LogFilter{})
			if err != nil {
				return err
			}

			activities := make(map[string]*store.Activity)
			alist, err := rt.store.ListActivities(true)
			if err != nil {
				return err
			}
			for i := range alist {
				activities[alist[i].ID] = &alist[i]
			}

			if ext == ".csv" {
				err = export.ToCSV(entries, activities, path)
			} else {
				err = export.ToJSON(entries, activities, path)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d sessions to %s\n", len(entries), path)
			return nil
		},
	}
}
