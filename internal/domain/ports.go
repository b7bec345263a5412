package domain

import "context"

// LocationProvider returns the current device coordinate. Implementations
// return ErrLocationUnavailable when no coordinate can be produced.
type LocationProvider interface {
	Locate(ctx context.Context) (LatLng, error)
}

// MessageTransport delivers text segments to a destination address, in order.
// SegmentLimit reports the longest segment, in characters, the transport accepts.
type MessageTransport interface {
	Send(ctx context.Context, destination string, segments []string) error
	SegmentLimit() int
}
