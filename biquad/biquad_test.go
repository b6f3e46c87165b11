package biquad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipelined/rack/biquad"
	"github.com/pipelined/rack/graph"
)

func TestUnconfiguredPassesThrough(t *testing.T) {
	m := biquad.New()
	assert.Equal(t, 0.25, m.Apply(0.25))
	assert.Equal(t, -1.0, m.Apply(-1.0))
}

func TestLowpassPassesDC(t *testing.T) {
	m := biquad.New()
	require.NoError(t, m.Configure(graph.FilterLowpass, 1000, 0.707, 44100))
	var last float64
	for i := 0; i < 4096; i++ {
		last = m.Apply(1)
	}
	assert.InDelta(t, 1.0, last, 0.02)
}

func TestHighpassBlocksDC(t *testing.T) {
	m := biquad.New()
	require.NoError(t, m.Configure(graph.FilterHighpass, 1000, 0.707, 44100))
	var last float64
	for i := 0; i < 4096; i++ {
		last = m.Apply(1)
	}
	assert.InDelta(t, 0.0, last, 0.02)
}

func TestBandpassBlocksDC(t *testing.T) {
	m := biquad.New()
	require.NoError(t, m.Configure(graph.FilterBandpass, 1000, 0.707, 44100))
	var last float64
	for i := 0; i < 4096; i++ {
		last = m.Apply(1)
	}
	assert.InDelta(t, 0.0, last, 0.02)
}

func TestConfigureUnknownType(t *testing.T) {
	m := biquad.New()
	require.Error(t, m.Configure(42, 1000, 0.707, 44100))
}

func TestReset(t *testing.T) {
	m := biquad.New()
	require.NoError(t, m.Configure(graph.FilterLowpass, 1000, 0.707, 44100))
	for i := 0; i < 64; i++ {
		m.Apply(1)
	}
	m.Reset()
	// with a cleared delay line the first output matches a fresh filter
	fresh := biquad.New()
	require.NoError(t, fresh.Configure(graph.FilterLowpass, 1000, 0.707, 44100))
	assert.Equal(t, fresh.Apply(1), m.Apply(1))
}
