package core

import "context"

// Gateway defines the contract with the remote persistence service.
// Adhering to this interface keeps the session independent of the transport
// (HTTP, in-memory, anything else).
//
// Calls block until the remote store answers or ctx is done; callers that need
// asynchrony run them on their own goroutines. Failures are reported as *Fault.
// No retry logic lives behind this interface.
type Gateway interface {
	// List returns every note known to the remote store.
	List(ctx context.Context) ([]Note, error)

	// Create stores a new note and returns it with its assigned id and timestamps.
	Create(ctx context.Context, title, content string) (Note, error)

	// Update replaces title and content of an existing note.
	// A note that was removed remotely yields a FaultNotFound.
	Update(ctx context.Context, id ID, title, content string) (Note, error)

	// Delete removes a note. Deleting an absent note succeeds.
	Delete(ctx context.Context, id ID) error
}
