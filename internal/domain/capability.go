package domain

import "fmt"

// Capability is a gated ability that needs an explicit grant from the client
// before it can be used.
type Capability string

const (
	CapabilityLocation    Capability = "location"
	CapabilitySendMessage Capability = "send_message"
)

// ParseCapability converts a wire name into a Capability.
// Returns ErrValidation for unrecognized names.
func ParseCapability(name string) (Capability, error) {
	switch c := Capability(name); c {
	case CapabilityLocation, CapabilitySendMessage:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown capability %q", ErrValidation, name)
	}
}
