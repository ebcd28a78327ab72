package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of noted",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("noted version %s\n", notekeeper.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
