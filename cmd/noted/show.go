package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper/pkg/core"
)

var (
	showJSON bool
	showYAML bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a single note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := pickFormat(showJSON, showYAML)
		if err != nil {
			fatal("Error", err)
		}

		ctx := context.Background()
		ctrl := mustOpen(ctx)
		defer closeSession(ctrl)

		check(ctrl.SelectNote(ctx, core.ID(args[0])))
		snap := ctrl.Snapshot()
		if code := report(os.Stdout, os.Stderr, snap); code != 0 {
			closeSession(ctrl)
			os.Exit(code)
		}

		note, ok := snap.Selected()
		if !ok {
			closeSession(ctrl)
			fatal("Error", fmt.Errorf("note %s not found", args[0]))
		}
		if err := printNote(os.Stdout, f, note); err != nil {
			fatal("Error printing note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output in YAML format")
}
