package asagraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurago/asagraph/pkg/neuro"
)

func TestInterElementActivationThreshold(t *testing.T) {
	assert.Equal(t, 0.8, InterElementActivationThreshold)
}

func TestSetConnections(t *testing.T) {
	graph, err := NewNumeric[int]("test", 3)
	require.NoError(t, err)

	element1 := newElement(1, graph)
	element2 := newElement(2, graph)
	element3 := newElement(3, graph)

	assert.Nil(t, element1.prev)
	assert.Nil(t, element1.next)
	assert.Nil(t, element2.prev)
	assert.Nil(t, element2.next)
	assert.Nil(t, element3.prev)
	assert.Nil(t, element3.next)

	element2.setConnections(element1, nil, 1)

	assert.Nil(t, element1.prev)
	require.NotNil(t, element1.next)
	assert.Equal(t, 2, element1.next.element.key)
	assert.Nil(t, element2.next)

	element2.setConnections(nil, element3, 1)

	require.NotNil(t, element1.next)
	assert.Equal(t, 2, element1.next.element.key)
	assert.Nil(t, element2.prev)
	require.NotNil(t, element2.next)
	assert.Equal(t, 3, element2.next.element.key)
	require.NotNil(t, element3.prev)
	assert.Equal(t, 2, element3.prev.element.key)
	assert.Nil(t, element3.next)

	element1.setConnections(nil, nil, 1)
	element2.setConnections(nil, nil, 1)
	element3.setConnections(nil, nil, 1)

	assert.Nil(t, element2.prev)
	assert.Nil(t, element2.next)
	assert.Nil(t, element3.prev)
	assert.Nil(t, element3.next)
}

func TestElementWeight(t *testing.T) {
	graph, err := NewNumeric[int]("test", 3)
	require.NoError(t, err)

	a := newElement(2, graph)
	b := newElement(6, graph)

	assert.InDelta(t, 0.5, a.Weight(b, 8), 1e-12)
	assert.InDelta(t, 0.5, b.Weight(a, 8), 1e-12)
	assert.InDelta(t, 1.0, a.Weight(a, 8), 1e-12)
}

func TestElementID(t *testing.T) {
	graph, err := NewNumeric[int]("test", 3)
	require.NoError(t, err)

	element := graph.Insert(17)
	id := element.ID()
	assert.Equal(t, "17", id.ID)
	assert.Equal(t, "test", id.ParentID)
	assert.Equal(t, "test:17", id.String())
	assert.True(t, element.IsSensor())
	assert.Equal(t, 1, element.Counter())
}

func TestExplain(t *testing.T) {
	graph, err := NewNumeric[int]("test", 3)
	require.NoError(t, err)

	element := graph.Insert(5)
	explained := element.Explain()
	require.Len(t, explained, 1)
	assert.Same(t, element, explained[element.ID()].(*Element[int]))
}

func TestConnectDefiningOnly(t *testing.T) {
	graph, err := NewNumeric[int]("test", 3)
	require.NoError(t, err)

	element := graph.Insert(1)
	target := graph.Insert(2)

	conn, err := element.Connect(target, neuro.Defining)
	require.NoError(t, err)
	assert.Same(t, element, conn.From.(*Element[int]))
	assert.Same(t, target, conn.To.(*Element[int]))
	assert.Equal(t, neuro.Defining, conn.Kind)
	assert.Len(t, element.Definitions(), 1)

	_, err = element.Connect(target, neuro.Explanatory)
	assert.ErrorIs(t, err, ErrUnsupportedConnection)
	_, err = element.Connect(target, neuro.Similarity)
	assert.ErrorIs(t, err, ErrUnsupportedConnection)
	assert.Len(t, element.Definitions(), 1)
}
