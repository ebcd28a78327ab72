package httpapi

import (
	"github.com/aretw0/introspection"
)

// GatewayState exposes internal state for observability.
type GatewayState struct {
	BaseURL   string `json:"base_url"`
	Timeout   string `json:"timeout"`
	Requests  int64  `json:"requests"`
	Faults    int64  `json:"faults"`
	LastFault string `json:"last_fault,omitempty"`
}

// State implements introspection.Introspectable.
func (g *Gateway) State() any {
	state := GatewayState{
		BaseURL:  g.base.String(),
		Timeout:  g.client.Timeout.String(),
		Requests: g.requests.Load(),
		Faults:   g.faults.Load(),
	}
	if last := g.lastErr.Load(); last != nil {
		state.LastFault = *last
	}
	return state
}

// ComponentType implements introspection.Component.
func (g *Gateway) ComponentType() string {
	return "http-gateway"
}

var _ introspection.Introspectable = (*Gateway)(nil)
var _ introspection.Component = (*Gateway)(nil)
