package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound matches any Fault of kind FaultNotFound.
	ErrNotFound = errors.New("note not found")
	// ErrValidation matches any Fault of kind FaultValidation.
	ErrValidation = errors.New("validation failed")
)

// FaultKind classifies why an operation against the remote store failed.
type FaultKind int

const (
	// FaultNetwork means the remote store could not be reached (or timed out).
	FaultNetwork FaultKind = iota + 1
	// FaultRejected means the remote store answered with a non-success status.
	FaultRejected
	// FaultNotFound means the target note no longer exists remotely.
	FaultNotFound
	// FaultMalformed means the remote store answered with an unreadable body.
	FaultMalformed
	// FaultValidation is a local precondition failure; it never reaches the gateway.
	FaultValidation
)

func (k FaultKind) String() string {
	switch k {
	case FaultNetwork:
		return "network"
	case FaultRejected:
		return "rejected"
	case FaultNotFound:
		return "not-found"
	case FaultMalformed:
		return "malformed-response"
	case FaultValidation:
		return "validation"
	default:
		return fmt.Sprintf("fault(%d)", int(k))
	}
}

// Fault is a reported failure of a note operation.
type Fault struct {
	Kind    FaultKind
	Op      string // list, create, update, delete, submit
	Message string // human readable, safe to show to a user
	Err     error  // underlying cause, if any
}

// NewFault builds a Fault.
func NewFault(kind FaultKind, op, message string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Message: message, Err: err}
}

func (f *Fault) Error() string {
	msg := f.Message
	if msg == "" && f.Err != nil {
		msg = f.Err.Error()
	}
	if f.Op == "" {
		return fmt.Sprintf("%s fault: %s", f.Kind, msg)
	}
	return fmt.Sprintf("%s: %s fault: %s", f.Op, f.Kind, msg)
}

// Unwrap exposes the underlying cause.
func (f *Fault) Unwrap() error {
	return f.Err
}

// Is lets errors.Is match the kind sentinels.
func (f *Fault) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return f.Kind == FaultNotFound
	case ErrValidation:
		return f.Kind == FaultValidation
	}
	return false
}

// AsFault extracts a Fault from an error chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsNotFound reports whether err describes a note that is already gone.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
