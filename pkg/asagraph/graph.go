package asagraph

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/neurago/asagraph/pkg/neuro"
)

// Number constrains keys that carry a metric distance.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Graph is an Associative Semantic Aggregation graph: a multiway search
// tree over unique keys that simultaneously maintains per-key occurrence
// counters, a doubly-linked ordered chain of elements with range-derived
// neighbor weights, and a one-layer sensor of activatable neurons.
//
// A graph and everything it owns form one exclusive-mutation domain;
// callers serialize access externally.
type Graph[K comparable] struct {
	name     string
	category neuro.DataCategory
	dtype    neuro.DataType
	order    int

	root       *node[K]
	elementMin *Element[K]
	elementMax *Element[K]
	keyMin     *K
	keyMax     *K

	compare  func(a, b K) int
	distance func(a, b K) float64

	log zerolog.Logger
}

// New creates a graph with explicit comparison and distance functions.
// Orders below 3 are rejected with ErrOrderTooSmall.
func New[K comparable](
	name string,
	order int,
	category neuro.DataCategory,
	compare func(a, b K) int,
	distance func(a, b K) float64,
) (*Graph[K], error) {
	if order < 3 {
		return nil, ErrOrderTooSmall
	}
	g := &Graph[K]{
		name:     name,
		category: category,
		dtype:    deduceDataType[K](),
		order:    order,
		compare:  compare,
		distance: distance,
		log:      zerolog.Nop(),
	}
	g.root = newNode[K](order, true, nil)
	return g, nil
}

// NewNumeric creates a graph over numeric keys with |a-b| distance and the
// Numerical category.
func NewNumeric[K Number](name string, order int) (*Graph[K], error) {
	return New[K](name, order, neuro.Numerical, compareNumber[K], distanceNumber[K])
}

// NewOrdinal creates a numeric-keyed graph classified as Ordinal.
func NewOrdinal[K Number](name string, order int) (*Graph[K], error) {
	return New[K](name, order, neuro.Ordinal, compareNumber[K], distanceNumber[K])
}

// NewCategorical creates a graph over string labels with discrete 0/1
// distance.
func NewCategorical(name string, order int) (*Graph[string], error) {
	return New[string](name, order, neuro.Categorical, compareString, distanceDiscrete)
}

func compareNumber[K Number](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func distanceNumber[K Number](a, b K) float64 {
	return math.Abs(float64(a) - float64(b))
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func distanceDiscrete(a, b string) float64 {
	if a == b {
		return 0
	}
	return 1
}

func deduceDataType[K comparable]() neuro.DataType {
	var zero K
	switch any(zero).(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return neuro.TypeInt
	case float32, float64:
		return neuro.TypeFloat
	case string:
		return neuro.TypeString
	default:
		return neuro.TypeUnknown
	}
}

// SetLogger injects the logger used for warn/error reporting. Logging is
// not part of the observable contract.
func (g *Graph[K]) SetLogger(log zerolog.Logger) { g.log = log }

// Name returns the graph identifier shared by all contained elements.
func (g *Graph[K]) Name() string { return g.name }

// Order returns the branching factor the graph was built with.
func (g *Graph[K]) Order() int { return g.order }

// KeyMin returns the smallest inserted key.
func (g *Graph[K]) KeyMin() (K, bool) {
	if g.keyMin == nil {
		var zero K
		return zero, false
	}
	return *g.keyMin, true
}

// KeyMax returns the largest inserted key.
func (g *Graph[K]) KeyMax() (K, bool) {
	if g.keyMax == nil {
		var zero K
		return zero, false
	}
	return *g.keyMax, true
}

// ElementMin returns the chain's first element.
func (g *Graph[K]) ElementMin() (*Element[K], bool) {
	return g.elementMin, g.elementMin != nil
}

// ElementMax returns the chain's last element.
func (g *Graph[K]) ElementMax() (*Element[K], bool) {
	return g.elementMax, g.elementMax != nil
}

// Range returns max(distance(keyMin, keyMax), 1) when both extrema are
// set, NaN otherwise.
func (g *Graph[K]) Range() float64 {
	if g.keyMin == nil || g.keyMax == nil {
		return math.NaN()
	}
	return math.Max(g.distance(*g.keyMin, *g.keyMax), 1)
}

// Search returns the element holding key, if present. The descent scans
// each node from the end nearer to the query, judged by the distance to
// the cached extrema.
func (g *Graph[K]) Search(key K) (*Element[K], bool) {
	keyMin, keyMax, ok := g.extremeKeys()
	if !ok {
		return nil, false
	}
	if g.distance(key, keyMax) > g.distance(key, keyMin) {
		return g.searchLeft(key)
	}
	return g.searchRight(key)
}

func (g *Graph[K]) searchLeft(key K) (*Element[K], bool) {
	n := g.root
	for {
		i := 0
		for i < n.size() && g.compare(key, n.keys[i]) > 0 {
			i++
		}
		if i < n.size() && g.compare(key, n.keys[i]) == 0 {
			return n.elements[i], true
		}
		if n.isLeaf {
			return nil, false
		}
		n = n.children[i]
	}
}

func (g *Graph[K]) searchRight(key K) (*Element[K], bool) {
	n := g.root
	for {
		i := n.size() - 1
		for i > 0 && g.compare(key, n.keys[i]) < 0 {
			i--
		}
		c := g.compare(key, n.keys[i])
		if c == 0 {
			return n.elements[i], true
		}
		if n.isLeaf {
			return nil, false
		}
		if c > 0 {
			i++
		}
		n = n.children[i]
	}
}

// Insert stores key, creating an element on first insertion and
// incrementing the counter on duplicates. Extending either extremum
// triggers a full chain re-weighting against the new range.
func (g *Graph[K]) Insert(key K) *Element[K] {
	n := g.root

	if n.size() == 0 {
		return g.insertFirstElement(n, key)
	}
	if n.size() == g.order {
		n = g.splitRoot()
	}

	keyMin, keyMax, ok := g.extremeKeys()
	if !ok {
		panic("asagraph: extrema unset with non-empty root")
	}
	fromRight := g.distance(key, keyMax) > g.distance(key, keyMin)

	for {
		element, i := n.insertExistingKey(key, g.compare, fromRight)
		if element != nil {
			return element
		}
		if n.isLeaf {
			element := g.insertKeyLeaf(n, key, i)
			g.setExtrema(element)
			return element
		}
		if n.children[i].size() == g.order {
			g.splitChild(n, i)
			switch c := g.compare(key, n.keys[i]); {
			case c > 0:
				i++
			case c == 0:
				n.elements[i].counter++
				return n.elements[i]
			}
		}
		n = n.children[i]
	}
}

func (g *Graph[K]) insertFirstElement(root *node[K], key K) *Element[K] {
	element := newElement(key, g)
	root.keys = append(root.keys, key)
	root.elements = append(root.elements, element)

	k := key
	g.keyMin, g.keyMax = &k, &k
	g.elementMin, g.elementMax = element, element
	return element
}

func (g *Graph[K]) splitRoot() *node[K] {
	newRoot := newNode[K](g.order, false, nil)
	oldRoot := g.root
	oldRoot.parent = newRoot
	newRoot.children = append(newRoot.children, oldRoot)
	g.root = newRoot
	g.splitChild(newRoot, 0)
	return newRoot
}

func (g *Graph[K]) extremeKeys() (K, K, bool) {
	if (g.keyMin == nil) != (g.keyMax == nil) {
		panic("asagraph: inconsistent extrema: exactly one of keyMin/keyMax set")
	}
	if g.keyMin == nil {
		var zero K
		return zero, zero, false
	}
	return *g.keyMin, *g.keyMax, true
}

// setExtrema records element as a new extremum when its key extends the
// range, and re-weights the whole chain since every cached weight depends
// on the range.
func (g *Graph[K]) setExtrema(element *Element[K]) {
	if (g.keyMin == nil) != (g.keyMax == nil) {
		panic("asagraph: inconsistent extrema: exactly one of keyMin/keyMax set")
	}

	key := element.key
	changed := false
	if g.keyMin == nil {
		k := key
		g.keyMin, g.keyMax = &k, &k
		g.elementMin, g.elementMax = element, element
		changed = true
	} else {
		if g.compare(key, *g.keyMin) < 0 {
			k := key
			g.keyMin = &k
			g.elementMin = element
			changed = true
		}
		if g.compare(key, *g.keyMax) > 0 {
			k := key
			g.keyMax = &k
			g.elementMax = element
			changed = true
		}
	}

	if changed {
		g.updateElementWeights(g.Range())
	}
}

// updateElementWeights refreshes every chain edge's cached weight against
// rng by a single forward walk, writing both directions of each edge.
func (g *Graph[K]) updateElementWeights(rng float64) {
	for e := g.elementMin; e != nil && e.next != nil; e = e.next.element {
		next := e.next.element
		w := e.Weight(next, rng)
		e.next.weight = w
		next.prev.weight = w
	}
}

// CountUnique returns the number of distinct keys stored.
func (g *Graph[K]) CountUnique() int {
	count := 0
	for e := g.elementMin; e != nil; {
		count++
		if e.next == nil {
			break
		}
		e = e.next.element
	}
	return count
}

// CountAgg returns the total number of insertions, i.e. the sum of all
// element counters.
func (g *Graph[K]) CountAgg() int {
	count := 0
	for e := g.elementMin; e != nil; {
		count += e.counter
		if e.next == nil {
			break
		}
		e = e.next.element
	}
	return count
}
