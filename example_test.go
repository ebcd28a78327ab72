package notekeeper_test

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"

	"github.com/aretw0/notekeeper"
	"github.com/aretw0/notekeeper/internal/notesrv"
	"github.com/aretw0/notekeeper/pkg/session"
)

// Example_basic creates a note against an in-memory notes service.
func Example_basic() {
	ts := httptest.NewServer(notesrv.New().Handler())
	defer ts.Close()

	ctx := context.Background()
	ctrl, err := notekeeper.Open(ctx, ts.URL, notekeeper.WithHTTPClient(ts.Client()))
	if err != nil {
		log.Fatal(err)
	}
	defer ctrl.Stop(context.Background())

	_ = ctrl.StartCreate(ctx)
	_ = ctrl.EditDraft(ctx, session.FieldTitle, "Groceries")
	_ = ctrl.EditDraft(ctx, session.FieldContent, "milk, eggs")
	if err := ctrl.Submit(ctx); err != nil {
		log.Fatal(err)
	}
	if err := ctrl.Settle(ctx); err != nil {
		log.Fatal(err)
	}

	snap := ctrl.Snapshot()
	note, _ := snap.Selected()
	fmt.Println(snap.Mode.Kind, note.Title, snap.Feedback.Info)
	// Output:
	// viewing Groceries Note created!
}

// Example_rejected shows that an intent whose precondition fails has no effect.
func Example_rejected() {
	ts := httptest.NewServer(notesrv.New().Handler())
	defer ts.Close()

	ctx := context.Background()
	ctrl, err := notekeeper.Open(ctx, ts.URL, notekeeper.WithHTTPClient(ts.Client()))
	if err != nil {
		log.Fatal(err)
	}
	defer ctrl.Stop(context.Background())
	_ = ctrl.Settle(ctx)

	err = ctrl.StartEdit(ctx, "missing")
	fmt.Println(err)
	fmt.Println(ctrl.Snapshot().Mode)
	// Output:
	// intent rejected: note missing is not in the store
	// Viewing(none)
}
