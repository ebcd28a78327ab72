// Package notekeeper is the Composition Root for the notekeeper client.
//
// It connects the session state machine (pkg/session) with a remote notes
// service reached through a gateway adapter (pkg/adapters/httpapi by default).
//
// Philosophy:
//
// The session keeps an in-memory view of a remote note collection and lets a
// user browse, select, create, edit and delete notes while several remote
// operations are in flight. Every mutation goes through one controller, and
// completions that arrive late are arbitrated explicitly instead of trusting
// callback order.
//
// Features:
//
//   - **Single owner**: the note cache, the mode and the pending operations are mutated on one loop goroutine.
//   - **Stale-safe refresh**: a list result never clobbers a newer local write.
//   - **Idempotent delete**: deleting an already absent note is a success.
//   - **Change stream**: subscribers receive a snapshot after every transition.
//   - **Pluggable gateway**: any `core.Gateway` can replace the HTTP adapter.
//
// Usage:
//
//	ctrl, err := notekeeper.Open(ctx, "http://localhost:8000",
//		notekeeper.WithLogger(logger),
//	)
//	defer ctrl.Stop(context.Background())
//
//	_ = ctrl.StartCreate(ctx)
//	_ = ctrl.EditDraft(ctx, session.FieldTitle, "Groceries")
//	_ = ctrl.EditDraft(ctx, session.FieldContent, "milk, eggs")
//	_ = ctrl.Submit(ctx)
//	_ = ctrl.Settle(ctx)
package notekeeper
