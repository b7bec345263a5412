package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, duplicate ingredient).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// Purchase-state and codec conditions. None of these are fatal; callers decide
// how to surface them.
var (
	// ErrUnknownIngredient: a toggle named an ingredient the recipe does not have.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrNotPurchased: a location was set on an ingredient that is not purchased.
	ErrNotPurchased = errors.New("ingredient not purchased")

	// ErrInvalidCoordinateFormat: "lat, lon" text could not be parsed.
	ErrInvalidCoordinateFormat = errors.New("invalid coordinate format")

	// ErrMalformedLocationMap: the stored location map could not be decoded.
	// Decoders return an empty map alongside it.
	ErrMalformedLocationMap = errors.New("malformed location map")
)

// Capability conditions.
var (
	// ErrAwaitingGrant is returned when an action was parked until the client
	// grants a capability. Handlers map it to HTTP 202.
	ErrAwaitingGrant = errors.New("awaiting capability grant")

	// ErrPermissionDenied is returned when the client denied a capability.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLocationUnavailable is returned by location providers that have no
	// usable coordinate.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// ErrDeliveryFailed is returned when a message transport could not deliver a
// share. Handlers map it to HTTP 502.
var ErrDeliveryFailed = errors.New("message delivery failed")
