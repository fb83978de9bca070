// Package registry manages named sensors over opaque string values,
// parsing each value according to the sensor's data category before
// handing it to the underlying ASA-graph.
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/neurago/asagraph/pkg/asagraph"
	"github.com/neurago/asagraph/pkg/neuro"
)

var (
	// ErrUnknownSensor is returned for operations on a sensor name that
	// was never created.
	ErrUnknownSensor = errors.New("unknown sensor")

	// ErrBadValue is returned when a value cannot be parsed for the
	// sensor's data category.
	ErrBadValue = errors.New("bad value")

	// ErrSensorExists is returned when creating a sensor whose name is
	// taken.
	ErrSensorExists = errors.New("sensor already exists")
)

// Manager owns a set of named sensors and serializes access to them; the
// graphs themselves are single-threaded.
type Manager struct {
	mu      sync.Mutex
	sensors map[string]*Entry
	log     zerolog.Logger
}

// NewManager creates an empty manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		sensors: make(map[string]*Entry),
		log:     log,
	}
}

// Create registers a new sensor with the given category and order.
func (m *Manager) Create(name string, category neuro.DataCategory, order int) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sensors[name]; ok {
		return nil, fmt.Errorf("%q: %w", name, ErrSensorExists)
	}

	entry := &Entry{name: name, category: category, manager: m}
	log := m.log.With().Str("sensor", name).Logger()
	switch category {
	case neuro.Categorical:
		graph, err := asagraph.NewCategorical(name, order)
		if err != nil {
			return nil, err
		}
		graph.SetLogger(log)
		entry.categorical = graph
	case neuro.Ordinal:
		graph, err := asagraph.NewOrdinal[float64](name, order)
		if err != nil {
			return nil, err
		}
		graph.SetLogger(log)
		entry.numeric = graph
	default:
		graph, err := asagraph.NewNumeric[float64](name, order)
		if err != nil {
			return nil, err
		}
		graph.SetLogger(log)
		entry.numeric = graph
	}

	m.sensors[name] = entry
	return entry, nil
}

// Get returns the sensor registered under name.
func (m *Manager) Get(name string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sensors[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSensor)
	}
	return entry, nil
}

// Names returns the registered sensor names, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.sensors))
	for name := range m.sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is one named sensor. String values are parsed per category:
// numerical and ordinal sensors store float64 keys, categorical sensors
// store the label itself.
type Entry struct {
	name        string
	category    neuro.DataCategory
	numeric     *asagraph.Graph[float64]
	categorical *asagraph.Graph[string]
	manager     *Manager
}

// Name returns the sensor name.
func (e *Entry) Name() string { return e.name }

// Category returns the sensor's data category.
func (e *Entry) Category() neuro.DataCategory { return e.category }

func (e *Entry) parse(value string) (float64, error) {
	key, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("sensor %q: %q is not numeric: %w", e.name, value, ErrBadValue)
	}
	return key, nil
}

// Insert stores value in the sensor.
func (e *Entry) Insert(value string) (neuro.Neuron, error) {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	if e.categorical != nil {
		return e.categorical.Insert(value), nil
	}
	key, err := e.parse(value)
	if err != nil {
		return nil, err
	}
	return e.numeric.Insert(key), nil
}

// Search looks value up in the sensor.
func (e *Entry) Search(value string) (neuro.Neuron, bool, error) {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	if e.categorical != nil {
		element, found := e.categorical.Search(value)
		if !found {
			return nil, false, nil
		}
		return element, true, nil
	}
	key, err := e.parse(value)
	if err != nil {
		return nil, false, err
	}
	element, found := e.numeric.Search(key)
	if !found {
		return nil, false, nil
	}
	return element, true, nil
}

// Activate stimulates the neuron holding value under the sensor's
// category policy.
func (e *Entry) Activate(value string, signal float64, horizontal, vertical bool) (map[neuro.NeuronID]neuro.Neuron, error) {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	if e.categorical != nil {
		return e.categorical.Activate(value, signal, horizontal, vertical)
	}
	key, err := e.parse(value)
	if err != nil {
		return nil, err
	}
	return e.numeric.Activate(key, signal, horizontal, vertical)
}

// Deactivate resets the neuron holding value.
func (e *Entry) Deactivate(value string, horizontal, vertical bool) error {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	if e.categorical != nil {
		return e.categorical.Deactivate(value, horizontal, vertical)
	}
	key, err := e.parse(value)
	if err != nil {
		return err
	}
	return e.numeric.Deactivate(key, horizontal, vertical)
}

// Reset deactivates the whole sensor without propagation.
func (e *Entry) Reset() {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	if e.categorical != nil {
		e.categorical.DeactivateSensor()
		return
	}
	e.numeric.DeactivateSensor()
}

// Stats summarizes a sensor for diagnostics.
type Stats struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Unique     int     `json:"unique"`
	Aggregated int     `json:"aggregated"`
	Range      float64 `json:"range,omitempty"`
	Min        string  `json:"min,omitempty"`
	Max        string  `json:"max,omitempty"`
}

// Stats returns the sensor's current shape.
func (e *Entry) Stats() Stats {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	stats := Stats{Name: e.name, Category: e.category.String()}
	if e.categorical != nil {
		stats.Unique = e.categorical.CountUnique()
		stats.Aggregated = e.categorical.CountAgg()
		if min, ok := e.categorical.KeyMin(); ok {
			stats.Min = min
		}
		if max, ok := e.categorical.KeyMax(); ok {
			stats.Max = max
		}
		return stats
	}
	stats.Unique = e.numeric.CountUnique()
	stats.Aggregated = e.numeric.CountAgg()
	if min, ok := e.numeric.KeyMin(); ok {
		stats.Min = strconv.FormatFloat(min, 'g', -1, 64)
		max, _ := e.numeric.KeyMax()
		stats.Max = strconv.FormatFloat(max, 'g', -1, 64)
		stats.Range = e.numeric.Range()
	}
	return stats
}

// WriteTree dumps the sensor's tree in the level-order print format.
func (e *Entry) WriteTree(w io.Writer) error {
	e.manager.mu.Lock()
	defer e.manager.mu.Unlock()

	if e.categorical != nil {
		return e.categorical.WriteTree(w)
	}
	return e.numeric.WriteTree(w)
}
