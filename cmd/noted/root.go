package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper/internal/platform"
)

var (
	verbose    bool
	apiBase    string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "noted",
	Short: "A terminal client for a remote notes service",
	Long: `noted keeps a local view of a remote note collection and lets you browse,
create, edit and delete notes. Remote calls run concurrently; late results
never overwrite newer local changes.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "", "Notes service base URL (default $"+platform.EnvAPIBase+", config file, or http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest .noted.yaml or noted.yaml)")
}

// settings returns the config file in effect: --config, or the nearest one
// found from the working directory. No file at all is not an error.
func settings() (string, platform.FileConfig, error) {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", platform.FileConfig{}, nil
		}
		found, err := platform.FindConfig(wd)
		if err != nil {
			return "", platform.FileConfig{}, nil
		}
		path = found
	}

	cfg, err := platform.LoadConfig(path)
	if err != nil {
		return "", cfg, err
	}
	slog.Debug("config loaded", "path", path)
	return path, cfg, nil
}
