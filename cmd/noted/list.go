package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	listJSON bool
	listYAML bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes, most recently updated first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := pickFormat(listJSON, listYAML)
		if err != nil {
			fatal("Error", err)
		}

		ctx := context.Background()
		ctrl := mustOpen(ctx)
		snap := ctrl.Snapshot()
		closeSession(ctrl)

		if snap.Feedback.Error == "" {
			if err := printNotes(os.Stdout, f, snap); err != nil {
				fatal("Error printing notes", err)
			}
		}
		if code := report(os.Stdout, os.Stderr, snap); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
}
