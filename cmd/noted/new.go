package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeeper/pkg/session"
)

var (
	newTitle   string
	newContent string
	newEditor  bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long: `New creates a note from --title and --content. With --editor the draft is
opened in your editor first; saving the file updates the draft.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ctrl := mustOpen(ctx)

		check(ctrl.StartCreate(ctx))
		check(ctrl.EditDraft(ctx, session.FieldTitle, newTitle))
		check(ctrl.EditDraft(ctx, session.FieldContent, newContent))
		if newEditor {
			if err := openEditor(ctx, ctrl); err != nil {
				closeSession(ctrl)
				fatal("Error editing draft", err)
			}
		}
		check(ctrl.Submit(ctx))

		finish(ctx, ctrl)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Note title")
	newCmd.Flags().StringVarP(&newContent, "content", "c", "", "Note content")
	newCmd.Flags().BoolVarP(&newEditor, "editor", "e", false, "Edit the draft in $EDITOR before saving")
}
