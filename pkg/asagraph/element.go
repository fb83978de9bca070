package asagraph

import (
	"fmt"

	"github.com/neurago/asagraph/pkg/neuro"
)

// InterElementActivationThreshold is the minimum propagating activation
// required for fuzzy activation to hop to the next chain neighbor.
const InterElementActivationThreshold = 0.8

// chainLink is one directed edge of the element chain, carrying the weight
// cached against the graph's current key range.
type chainLink[K comparable] struct {
	element *Element[K]
	weight  float64
}

// Element is a leaf-level record: a unique key, its occurrence counter, the
// current activation, and the weighted links to its in-order neighbors.
// The same Element is referenced from every tree level its key is promoted
// to, so neuron identity and activation stay a single object.
type Element[K comparable] struct {
	key         K
	counter     int
	activation  float64
	prev        *chainLink[K]
	next        *chainLink[K]
	definitions []*neuro.Connection
	graph       *Graph[K]
}

func newElement[K comparable](key K, graph *Graph[K]) *Element[K] {
	return &Element[K]{
		key:     key,
		counter: 1,
		graph:   graph,
	}
}

// Key returns the stored key.
func (e *Element[K]) Key() K { return e.key }

// Counter returns how many insertions matched this key.
func (e *Element[K]) Counter() int { return e.counter }

// Activation returns the current excitation.
func (e *Element[K]) Activation() float64 { return e.activation }

// Prev returns the in-order predecessor and the cached edge weight.
func (e *Element[K]) Prev() (*Element[K], float64, bool) {
	if e.prev == nil {
		return nil, 0, false
	}
	return e.prev.element, e.prev.weight, true
}

// Next returns the in-order successor and the cached edge weight.
func (e *Element[K]) Next() (*Element[K], float64, bool) {
	if e.next == nil {
		return nil, 0, false
	}
	return e.next.element, e.next.weight, true
}

// Weight computes the edge weight between this element and other for the
// given key range.
func (e *Element[K]) Weight(other *Element[K], rng float64) float64 {
	return 1 - e.graph.distance(e.key, other.key)/rng
}

// setConnections replaces both chain endpoints of the element and
// recomputes the two affected weights against rng. A nil neighbor clears
// the corresponding link.
func (e *Element[K]) setConnections(prev, next *Element[K], rng float64) {
	if prev != nil {
		w := e.Weight(prev, rng)
		e.prev = &chainLink[K]{element: prev, weight: w}
		prev.next = &chainLink[K]{element: e, weight: w}
	} else {
		e.prev = nil
	}
	if next != nil {
		w := e.Weight(next, rng)
		e.next = &chainLink[K]{element: next, weight: w}
		next.prev = &chainLink[K]{element: e, weight: w}
	} else {
		e.next = nil
	}
}

// SimpleActivate adds signal to the element's activation without lateral
// propagation and returns the neurons defined by this element.
func (e *Element[K]) SimpleActivate(signal float64) map[neuro.NeuronID]neuro.Neuron {
	e.activation += signal
	return e.definedNeurons(nil)
}

// FuzzyActivate adds signal to the element's activation, then spreads the
// excitation along both chain directions. Each hop adds the propagating
// activation scaled by the edge weight to the neighbor; the neighbor's
// resulting activation becomes the propagating value for the following hop.
// The walk stops when that value drops to InterElementActivationThreshold
// or below, or the chain ends. Returns every neuron defined by the element
// and the neighbors reached.
func (e *Element[K]) FuzzyActivate(signal float64) map[neuro.NeuronID]neuro.Neuron {
	e.activation += signal
	neurons := e.definedNeurons(nil)

	propagating := e.activation
	for link := e.next; link != nil && propagating > InterElementActivationThreshold; {
		neighbor := link.element
		neighbor.activation += propagating * link.weight
		neurons = neighbor.definedNeurons(neurons)
		propagating = neighbor.activation
		link = neighbor.next
	}

	propagating = e.activation
	for link := e.prev; link != nil && propagating > InterElementActivationThreshold; {
		neighbor := link.element
		neighbor.activation += propagating * link.weight
		neurons = neighbor.definedNeurons(neurons)
		propagating = neighbor.activation
		link = neighbor.prev
	}

	return neurons
}

// DeactivateNeighbours resets the element's activation to zero and sweeps
// both chain directions unconditionally to the ends, resetting every
// neighbor.
func (e *Element[K]) DeactivateNeighbours() {
	e.activation = 0
	for link := e.next; link != nil; link = link.element.next {
		link.element.activation = 0
	}
	for link := e.prev; link != nil; link = link.element.prev {
		link.element.activation = 0
	}
}

func (e *Element[K]) definedNeurons(acc map[neuro.NeuronID]neuro.Neuron) map[neuro.NeuronID]neuro.Neuron {
	if acc == nil {
		acc = make(map[neuro.NeuronID]neuro.Neuron)
	}
	for _, conn := range e.definitions {
		acc[conn.To.ID()] = conn.To
	}
	return acc
}

// ID implements neuro.Neuron.
func (e *Element[K]) ID() neuro.NeuronID {
	return neuro.NeuronID{
		ID:       fmt.Sprint(e.key),
		ParentID: e.graph.name,
	}
}

// IsSensor implements neuro.Neuron.
func (e *Element[K]) IsSensor() bool { return true }

// Activate implements neuro.Neuron. Horizontal propagation uses the fuzzy
// walk, otherwise only this element is stimulated. With vertical
// propagation every reached non-sensor neuron is activated with this
// element's resulting activation as the signal.
func (e *Element[K]) Activate(signal float64, propagateHorizontal, propagateVertical bool) map[neuro.NeuronID]neuro.Neuron {
	var neurons map[neuro.NeuronID]neuro.Neuron
	if propagateHorizontal {
		neurons = e.FuzzyActivate(signal)
	} else {
		neurons = e.SimpleActivate(signal)
	}
	if propagateVertical {
		reached := make(map[neuro.NeuronID]neuro.Neuron)
		for _, n := range neurons {
			if n.IsSensor() {
				continue
			}
			for id, r := range n.Activate(e.activation, propagateHorizontal, propagateVertical) {
				reached[id] = r
			}
		}
		for id, n := range reached {
			neurons[id] = n
		}
	}
	return neurons
}

// Deactivate implements neuro.Neuron.
func (e *Element[K]) Deactivate(propagateHorizontal, propagateVertical bool) {
	if propagateHorizontal {
		e.DeactivateNeighbours()
	} else {
		e.activation = 0
	}
	if propagateVertical {
		for _, conn := range e.definitions {
			if !conn.To.IsSensor() {
				conn.To.Deactivate(propagateHorizontal, propagateVertical)
			}
		}
	}
}

// Explain implements neuro.Neuron: a sensory neuron explains itself.
func (e *Element[K]) Explain() map[neuro.NeuronID]neuro.Neuron {
	return map[neuro.NeuronID]neuro.Neuron{e.ID(): e}
}

// Connect implements neuro.Neuron. Sensory elements support outgoing
// Defining connections only.
func (e *Element[K]) Connect(to neuro.Neuron, kind neuro.ConnectionKind) (*neuro.Connection, error) {
	if kind != neuro.Defining {
		return nil, fmt.Errorf("sensory neuron %s: %s: %w", e.ID(), kind, ErrUnsupportedConnection)
	}
	conn := neuro.NewConnection(e, to, kind)
	e.definitions = append(e.definitions, conn)
	return conn, nil
}

// Definitions returns the outgoing defining connections.
func (e *Element[K]) Definitions() []*neuro.Connection {
	return e.definitions
}

func (e *Element[K]) String() string {
	return fmt.Sprintf("[%v:%d]", e.key, e.counter)
}
