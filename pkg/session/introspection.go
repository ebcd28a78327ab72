package session

import (
	"github.com/aretw0/introspection"
)

// ControllerState exposes internal state for observability.
type ControllerState struct {
	Status         string `json:"status"`
	Mode           string `json:"mode"`
	Seq            uint64 `json:"seq"`
	Notes          int    `json:"notes"`
	ListInFlight   bool   `json:"list_in_flight"`
	SubmitInFlight bool   `json:"submit_in_flight"`
	Deleting       int    `json:"deleting"`
	GatewayType    string `json:"gateway_type"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	snap := c.Snapshot()

	status := "created"
	if c.started.Load() {
		status = "running"
		select {
		case <-c.stopped:
			status = "stopped"
		default:
		}
	}

	gatewayType := "gateway"
	if comp, ok := c.gateway.(introspection.Component); ok {
		gatewayType = comp.ComponentType()
	}

	return ControllerState{
		Status:         status,
		Mode:           snap.Mode.String(),
		Seq:            snap.Seq,
		Notes:          len(snap.Notes),
		ListInFlight:   snap.Pending.ListInFlight,
		SubmitInFlight: snap.Pending.SubmitInFlight,
		Deleting:       len(snap.Pending.DeletingIDs),
		GatewayType:    gatewayType,
	}
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
