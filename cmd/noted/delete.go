package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete one or more notes",
	Long: `Delete removes notes from the remote service. Deletes of different notes run
concurrently; a note that is already gone counts as deleted.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ctrl := mustOpen(ctx)

		if err := deleteAll(ctx, ctrl, args); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		finish(ctx, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

// deleteAll issues a delete for every id concurrently. Duplicate ids are
// rejected by the session and reported together.
func deleteAll(ctx context.Context, ctrl *session.Controller, ids []string) error {
	errs := make([]error, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctrl.DeleteNote(gCtx, core.ID(id)); err != nil {
				errs[i] = fmt.Errorf("delete %s: %w", id, err)
				if !errors.Is(err, session.ErrRejected) {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
