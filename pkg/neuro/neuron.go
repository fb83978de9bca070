// Package neuro defines the contracts shared by every neuron-bearing
// structure: the Neuron interface, connection kinds, and the Sensor facade
// exposed by sensory layers such as the ASA-graph.
package neuro

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// NeuronID identifies a neuron within a named parent structure.
type NeuronID struct {
	ID       string
	ParentID string
}

func (id NeuronID) String() string {
	return id.ParentID + ":" + id.ID
}

// ConnectionKind classifies an outgoing connection between neurons.
type ConnectionKind int

const (
	// Defining connects a sensory neuron to a higher-order neuron it defines.
	Defining ConnectionKind = iota
	// Explanatory connects a higher-order neuron back to evidence.
	Explanatory
	// Similarity connects neurons of comparable meaning.
	Similarity
)

func (k ConnectionKind) String() string {
	switch k {
	case Defining:
		return "defining"
	case Explanatory:
		return "explanatory"
	case Similarity:
		return "similarity"
	default:
		return fmt.Sprintf("connection-kind(%d)", int(k))
	}
}

// Connection is the handle returned when two neurons are connected.
type Connection struct {
	ID   ksuid.KSUID
	From Neuron
	To   Neuron
	Kind ConnectionKind
}

// NewConnection creates a connection handle with a fresh KSUID.
func NewConnection(from, to Neuron, kind ConnectionKind) *Connection {
	return &Connection{
		ID:   ksuid.New(),
		From: from,
		To:   to,
		Kind: kind,
	}
}

// Neuron is implemented by everything that can hold and propagate
// activation: sensory elements and higher-order neurons alike.
type Neuron interface {
	ID() NeuronID
	Activation() float64
	Counter() int
	IsSensor() bool

	// Activate adds signal to the neuron's activation and propagates it
	// laterally and/or vertically, returning every neuron reached.
	Activate(signal float64, propagateHorizontal, propagateVertical bool) map[NeuronID]Neuron

	// Deactivate resets activation, optionally sweeping lateral neighbors
	// and vertically connected neurons.
	Deactivate(propagateHorizontal, propagateVertical bool)

	// Explain returns the neurons explaining this one; for sensory neurons
	// that is exactly the neuron itself.
	Explain() map[NeuronID]Neuron

	// Connect links this neuron to another. Implementations may restrict
	// the supported kinds.
	Connect(to Neuron, kind ConnectionKind) (*Connection, error)
}
