package registry

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurago/asagraph/pkg/asagraph"
	"github.com/neurago/asagraph/pkg/neuro"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(zerolog.Nop())
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create("temperature", neuro.Numerical, 5)
	require.NoError(t, err)
	_, err = m.Create("label", neuro.Categorical, 3)
	require.NoError(t, err)

	_, err = m.Create("temperature", neuro.Numerical, 5)
	assert.ErrorIs(t, err, ErrSensorExists)

	_, err = m.Create("broken", neuro.Numerical, 2)
	assert.ErrorIs(t, err, asagraph.ErrOrderTooSmall)

	entry, err := m.Get("temperature")
	require.NoError(t, err)
	assert.Equal(t, "temperature", entry.Name())
	assert.Equal(t, neuro.Numerical, entry.Category())

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownSensor)

	assert.Equal(t, []string{"label", "temperature"}, m.Names())
}

func TestNumericParsing(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.Create("temperature", neuro.Numerical, 3)
	require.NoError(t, err)

	neuron, err := entry.Insert("21.5")
	require.NoError(t, err)
	assert.Equal(t, "21.5", neuron.ID().ID)

	_, err = entry.Insert("warm")
	assert.ErrorIs(t, err, ErrBadValue)

	_, found, err := entry.Search("21.5")
	require.NoError(t, err)
	assert.True(t, found)
	_, found, err = entry.Search("22.5")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCategoricalPolicy(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.Create("label", neuro.Categorical, 3)
	require.NoError(t, err)

	_, err = entry.Insert("red")
	require.NoError(t, err)

	// Categorical sensors never auto-insert on activation.
	_, err = entry.Activate("blue", 1.0, true, true)
	assert.ErrorIs(t, err, asagraph.ErrActivationMissing)

	neurons, err := entry.Activate("red", 1.0, true, true)
	require.NoError(t, err)
	assert.Len(t, neurons, 0)

	stats := entry.Stats()
	assert.Equal(t, 1, stats.Unique)
	assert.Equal(t, "red", stats.Min)
}

func TestNumericActivationAndStats(t *testing.T) {
	m := newTestManager(t)
	entry, err := m.Create("temperature", neuro.Numerical, 3)
	require.NoError(t, err)

	for i := 1; i <= 9; i++ {
		_, err := entry.Insert("")
		assert.Error(t, err)
		_, err = entry.Insert(strconv.Itoa(i))
		require.NoError(t, err)
	}

	_, err = entry.Activate("5", 1.0, true, false)
	require.NoError(t, err)
	neuron, found, err := entry.Search("6")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 0.875, neuron.Activation(), 1e-12)

	require.NoError(t, entry.Deactivate("5", true, false))
	neuron, _, err = entry.Search("6")
	require.NoError(t, err)
	assert.Equal(t, 0.0, neuron.Activation())

	entry.Reset()

	stats := entry.Stats()
	assert.Equal(t, 9, stats.Unique)
	assert.Equal(t, 9, stats.Aggregated)
	assert.Equal(t, "1", stats.Min)
	assert.Equal(t, "9", stats.Max)
	assert.Equal(t, 8.0, stats.Range)

	var buf bytes.Buffer
	require.NoError(t, entry.WriteTree(&buf))
	assert.NotEmpty(t, buf.String())
}
