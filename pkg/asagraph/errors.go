package asagraph

import "errors"

var (
	// ErrOrderTooSmall is returned when a graph is constructed with an
	// order below the minimum of 3.
	ErrOrderTooSmall = errors.New("graph order must be >= 3")

	// ErrActivationMissing is returned when activating a key that is
	// absent under a category/propagation policy forbidding auto-insert.
	ErrActivationMissing = errors.New("activating missing sensory neuron")

	// ErrDeactivationMissing is returned when deactivating a key that
	// does not exist. No state is modified.
	ErrDeactivationMissing = errors.New("deactivating non-existing sensory neuron")

	// ErrUnsupportedConnection is returned by Connect for any kind other
	// than Defining.
	ErrUnsupportedConnection = errors.New("unsupported connection kind")
)
