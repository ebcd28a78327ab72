package session

import (
	"context"

	"github.com/aretw0/notekeeper/pkg/core"
)

// Gateway operation names, used in faults and logs.
const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opSubmit = "submit"
)

// User-facing messages.
const (
	MsgValidation   = "Title and content required"
	MsgListFailed   = "Failed to fetch notes"
	MsgCreateFailed = "Failed to create note"
	MsgUpdateFailed = "Failed to update note"
	MsgDeleteFailed = "Failed to delete note"
	MsgCreated      = "Note created!"
	MsgUpdated      = "Note updated!"
	MsgDeleted      = "Note deleted."
)

// RequestList fetches the full collection. Several lists may be in flight;
// a result is only applied if no create, update, delete or newer list landed
// after it was issued.
func (c *Controller) RequestList(ctx context.Context) error {
	return c.intent(ctx, "requestList", func() error {
		c.requestList()
		return nil
	})
}

// SelectNote shows note id. Rejected while a submit is in flight or while id is being deleted.
func (c *Controller) SelectNote(ctx context.Context, id core.ID) error {
	return c.intent(ctx, "selectNote", func() error {
		if c.submitting {
			return reject("submit in flight")
		}
		if c.isDeleting(id) {
			return reject("note %s is being deleted", id)
		}
		c.mode = Viewing(id)
		return nil
	})
}

// StartCreate opens an empty creation form. Rejected while a submit is in flight.
func (c *Controller) StartCreate(ctx context.Context) error {
	return c.intent(ctx, "startCreate", func() error {
		if c.submitting {
			return reject("submit in flight")
		}
		c.mode = Creating("", "")
		return nil
	})
}

// StartEdit opens the edit form for note id, seeded with its stored title and
// content. Rejected while a submit is in flight, if the note is unknown, or if
// it is being deleted.
func (c *Controller) StartEdit(ctx context.Context, id core.ID) error {
	return c.intent(ctx, "startEdit", func() error {
		if c.submitting {
			return reject("submit in flight")
		}
		if c.isDeleting(id) {
			return reject("note %s is being deleted", id)
		}
		n, ok := c.store.Get(id)
		if !ok {
			return reject("note %s is not in the store", id)
		}
		c.mode = Editing(id, n.Title, n.Content)
		return nil
	})
}

// CancelForm drops any draft and returns to Viewing(none).
func (c *Controller) CancelForm(ctx context.Context) error {
	return c.intent(ctx, "cancelForm", func() error {
		c.mode = Viewing("")
		return nil
	})
}

// EditDraft replaces one field of the open draft.
func (c *Controller) EditDraft(ctx context.Context, field Field, value string) error {
	return c.intent(ctx, "editDraft", func() error {
		if !c.mode.InForm() {
			return reject("no form open")
		}
		switch field {
		case FieldTitle:
			c.mode.Draft.Title = value
		case FieldContent:
			c.mode.Draft.Content = value
		default:
			return reject("unknown draft field %q", field)
		}
		return nil
	})
}

// Submit sends the open draft to the remote store: create in Creating mode,
// update in Editing mode. A blank title or content is a validation fault and
// makes no remote call. Only one submit may be in flight.
//
// On success the note is stored, the mode moves to Viewing(note) and a fresh
// list is requested. On fault the form and its draft are left as they are.
func (c *Controller) Submit(ctx context.Context) error {
	return c.intent(ctx, "submit", func() error {
		if !c.mode.InForm() {
			return reject("no form open")
		}
		if c.submitting {
			return reject("submit already in flight")
		}

		draft := c.mode.Draft
		if !draft.Valid() {
			fault := core.NewFault(core.FaultValidation, opSubmit, MsgValidation, nil)
			c.clearFeedback()
			c.setError(MsgValidation)
			return fault
		}

		c.clearFeedback()
		c.submitting = true

		if c.mode.Kind == ModeCreating {
			c.submitCreate(draft)
		} else {
			c.submitUpdate(c.mode.Target, draft)
		}
		return nil
	})
}

// DeleteNote removes note id remotely. Deletes of different ids may run
// concurrently; a second delete of the same id is rejected while the first is
// outstanding.
func (c *Controller) DeleteNote(ctx context.Context, id core.ID) error {
	return c.intent(ctx, "deleteNote", func() error {
		if id == "" {
			return reject("empty note id")
		}
		if c.isDeleting(id) {
			return reject("note %s is already being deleted", id)
		}

		c.deleting[id] = struct{}{}
		c.clearFeedback()

		launch(c, opDelete, id, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.gateway.Delete(ctx, id)
		}, func(_ struct{}, fault *core.Fault) {
			delete(c.deleting, id)
			if fault != nil && fault.Kind != core.FaultNotFound {
				c.fail(fault, MsgDeleteFailed)
				return
			}
			c.store.Remove(id)
			if c.updating != nil && c.updating.id == id {
				c.updating.gone = true
			}
			if c.mode.References(id) {
				c.mode = Viewing("")
			}
			c.succeed(MsgDeleted)
		})
		return nil
	})
}

// DismissError clears the error message.
func (c *Controller) DismissError(ctx context.Context) error {
	return c.intent(ctx, "dismissError", func() error {
		c.setError("")
		return nil
	})
}

// DismissInfo clears the info message.
func (c *Controller) DismissInfo(ctx context.Context) error {
	return c.intent(ctx, "dismissInfo", func() error {
		c.setInfo("")
		return nil
	})
}

// ClearFeedback clears both messages.
func (c *Controller) ClearFeedback(ctx context.Context) error {
	return c.intent(ctx, "clearFeedback", func() error {
		c.clearFeedback()
		return nil
	})
}

func (c *Controller) requestList() {
	c.lists++
	c.setError("")
	ticket := c.store.IssueList()

	launch(c, opList, "", c.gateway.List, func(notes []core.Note, fault *core.Fault) {
		c.lists--
		if fault != nil {
			c.fail(fault, MsgListFailed)
			return
		}
		if !c.store.ReplaceAllIf(notes, ticket) {
			c.logger.Debug("discarding stale list result", "revision", c.store.Revision())
		}
	})
}

func (c *Controller) submitCreate(draft Draft) {
	launch(c, opCreate, "", func(ctx context.Context) (core.Note, error) {
		return c.gateway.Create(ctx, draft.Title, draft.Content)
	}, func(n core.Note, fault *core.Fault) {
		c.submitting = false
		if fault != nil {
			c.fail(fault, MsgCreateFailed)
			return
		}
		c.upsert(n)
		c.mode = Viewing(n.ID)
		c.succeed(MsgCreated)
		c.requestList()
	})
}

func (c *Controller) submitUpdate(id core.ID, draft Draft) {
	pending := &pendingUpdate{id: id}
	c.updating = pending

	launch(c, opUpdate, id, func(ctx context.Context) (core.Note, error) {
		return c.gateway.Update(ctx, id, draft.Title, draft.Content)
	}, func(n core.Note, fault *core.Fault) {
		c.submitting = false
		c.updating = nil
		if fault != nil {
			c.fail(fault, MsgUpdateFailed)
			return
		}
		if pending.gone {
			c.logger.Debug("discarding update of a note deleted meanwhile", "id", id)
			return
		}
		if n.ID == "" {
			n.ID = id
		}
		c.upsert(n)
		c.mode = Viewing(id)
		c.succeed(MsgUpdated)
		c.requestList()
	})
}

// upsert stores a submit result. The remote store accepted the write either
// way, so a refused stale result is only logged.
func (c *Controller) upsert(n core.Note) {
	if !c.store.Upsert(n) {
		c.logger.Debug("keeping newer stored note over stale result",
			"id", n.ID,
			"updated_at", n.UpdatedAt,
		)
	}
}

func (c *Controller) isDeleting(id core.ID) bool {
	_, ok := c.deleting[id]
	return ok
}

// setError and setInfo treat an empty message as "clear this kind".
func (c *Controller) setError(msg string) {
	c.feedback.SetError(msg)
	if c.config.Feedback != nil {
		c.config.Feedback.SetError(msg)
	}
}

func (c *Controller) setInfo(msg string) {
	c.feedback.SetInfo(msg)
	if c.config.Feedback != nil {
		c.config.Feedback.SetInfo(msg)
	}
}

func (c *Controller) clearFeedback() {
	c.feedback.Clear()
	if c.config.Feedback != nil {
		c.config.Feedback.Clear()
	}
}

func (c *Controller) succeed(msg string) {
	c.clearFeedback()
	c.setInfo(msg)
}

func (c *Controller) fail(fault *core.Fault, fallback string) {
	c.logger.Warn("operation failed",
		"op", fault.Op,
		"kind", fault.Kind.String(),
		"error", fault,
	)
	msg := fallback
	if fault.Message != "" {
		msg = fallback + ": " + fault.Message
	}
	c.clearFeedback()
	c.setError(msg)
}
