package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper/internal/notesrv"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an in-memory notes service",
	Long: `Serve runs a reference notes service that keeps everything in memory.
It speaks the same protocol noted expects and is meant for local testing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l, err := net.Listen("tcp", serveAddr)
		if err != nil {
			fatal("Error listening", err)
		}

		srv := notesrv.New(notesrv.WithLogger(slog.Default()))
		slog.Info("notes service listening", "addr", l.Addr().String())

		if err := srv.Serve(ctx, l); err != nil {
			fatal("Error serving", err)
		}
		slog.Info("notes service stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8000", "Listen address")
}
