package asagraph

import (
	"fmt"

	"github.com/neurago/asagraph/pkg/neuro"
)

// ID returns the sensor identifier.
func (g *Graph[K]) ID() string { return g.name }

// DataType returns the concrete key type stored by the sensor.
func (g *Graph[K]) DataType() neuro.DataType { return g.dtype }

// DataCategory returns the sensor's data category.
func (g *Graph[K]) DataCategory() neuro.DataCategory { return g.category }

// Activate stimulates the element holding key. A missing key is an error
// for categorical sensors; for numerical and ordinal sensors it is
// auto-inserted when horizontal propagation is requested and an error
// otherwise.
func (g *Graph[K]) Activate(
	key K, signal float64, propagateHorizontal, propagateVertical bool,
) (map[neuro.NeuronID]neuro.Neuron, error) {
	element, found := g.Search(key)
	if !found {
		switch g.category {
		case neuro.Categorical:
			g.log.Error().Str("sensor", g.name).
				Msgf("activating missing categorical sensory neuron %v", key)
			return nil, fmt.Errorf(
				"activating missing categorical sensory neuron %v: %w", key, ErrActivationMissing)
		default:
			if !propagateHorizontal {
				g.log.Error().Str("sensor", g.name).
					Msgf("activating missing non-categorical sensory neuron %v with propagate_horizontal=false", key)
				return nil, fmt.Errorf(
					"activating missing non-categorical sensory neuron %v with propagate_horizontal=false: %w",
					key, ErrActivationMissing)
			}
			g.log.Warn().Str("sensor", g.name).
				Msgf("activating missing non-categorical sensory neuron %v, inserting", key)
			element = g.Insert(key)
		}
	}
	return element.Activate(signal, propagateHorizontal, propagateVertical), nil
}

// Deactivate resets the element holding key. Missing keys are an error and
// leave the sensor untouched.
func (g *Graph[K]) Deactivate(key K, propagateHorizontal, propagateVertical bool) error {
	element, found := g.Search(key)
	if !found {
		g.log.Error().Str("sensor", g.name).
			Msgf("deactivating non-existing sensory neuron %v", key)
		return fmt.Errorf("deactivating non-existing sensory neuron %v: %w", key, ErrDeactivationMissing)
	}
	element.Deactivate(propagateHorizontal, propagateVertical)
	return nil
}

// DeactivateSensor walks the chain from the minimum element and resets
// every activation to zero, with no propagation.
func (g *Graph[K]) DeactivateSensor() {
	for e := g.elementMin; e != nil; {
		e.Deactivate(false, false)
		if e.next == nil {
			break
		}
		e = e.next.element
	}
}

// Sensor adapts the graph to the neuro.Sensor contract, erasing the
// concrete element type behind neuro.Neuron.
func (g *Graph[K]) Sensor() neuro.Sensor[K] {
	return sensorFacade[K]{g}
}

type sensorFacade[K comparable] struct {
	g *Graph[K]
}

var _ neuro.Sensor[int] = sensorFacade[int]{}

func (s sensorFacade[K]) ID() string                       { return s.g.ID() }
func (s sensorFacade[K]) DataType() neuro.DataType         { return s.g.DataType() }
func (s sensorFacade[K]) DataCategory() neuro.DataCategory { return s.g.DataCategory() }

func (s sensorFacade[K]) Insert(key K) neuro.Neuron {
	return s.g.Insert(key)
}

func (s sensorFacade[K]) Search(key K) (neuro.Neuron, bool) {
	element, found := s.g.Search(key)
	if !found {
		return nil, false
	}
	return element, true
}

func (s sensorFacade[K]) Activate(
	key K, signal float64, propagateHorizontal, propagateVertical bool,
) (map[neuro.NeuronID]neuro.Neuron, error) {
	return s.g.Activate(key, signal, propagateHorizontal, propagateVertical)
}

func (s sensorFacade[K]) Deactivate(key K, propagateHorizontal, propagateVertical bool) error {
	return s.g.Deactivate(key, propagateHorizontal, propagateVertical)
}

func (s sensorFacade[K]) DeactivateSensor() { s.g.DeactivateSensor() }
