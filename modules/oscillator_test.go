package modules_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/modules"
)

func TestOscillatorSine(t *testing.T) {
	const rate, blockSize = 48000, 512
	state := modules.NewState(graph.Oscillator, modules.Deps{SampleRate: rate, BlockSize: blockSize})
	ctx, _, _ := newContext(t, graph.Oscillator, blockSize, nil)

	require.NoError(t, state.Process(ctx))
	for i := 0; i < blockSize; i++ {
		want := math.Sin(2 * math.Pi * 440 * float64(i) / rate)
		assert.InDelta(t, want, ctx.Out[0][i], 1e-9, "sample %d", i)
	}

	// phase continues across block boundaries
	require.NoError(t, state.Process(ctx))
	want := math.Sin(2 * math.Pi * 440 * float64(blockSize) / rate)
	assert.InDelta(t, want, ctx.Out[0][0], 1e-9)
}

func TestOscillatorShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape float64
		// first sample, at phase zero
		first float64
	}{
		{name: "square", shape: graph.ShapeSquare, first: -1},
		{name: "triangle", shape: graph.ShapeTriangle, first: 1},
		{name: "saw", shape: graph.ShapeSaw, first: -1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state := modules.NewState(graph.Oscillator, modules.Deps{SampleRate: 48000, BlockSize: 64})
			ctx, _, _ := newContext(t, graph.Oscillator, 64, map[string]graph.Param{"shape": graph.Num(test.shape)})
			require.NoError(t, state.Process(ctx))
			assert.InDelta(t, test.first, ctx.Out[0][0], 1e-12)
			for _, s := range ctx.Out[0] {
				assert.GreaterOrEqual(t, s, -1.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		})
	}
}

func TestOscillatorUnipolar(t *testing.T) {
	state := modules.NewState(graph.Oscillator, modules.Deps{SampleRate: 48000, BlockSize: 256})
	ctx, _, _ := newContext(t, graph.Oscillator, 256, map[string]graph.Param{
		"shape":    graph.Num(graph.ShapeSaw),
		"unipolar": graph.Num(1),
	})
	require.NoError(t, state.Process(ctx))
	for i, s := range ctx.Out[0] {
		assert.GreaterOrEqual(t, s, 0.0, "sample %d", i)
		assert.LessOrEqual(t, s, 1.0, "sample %d", i)
	}
}

func TestOscillatorFrequencyInput(t *testing.T) {
	const rate, blockSize = 48000, 128
	deps := modules.Deps{SampleRate: rate, BlockSize: blockSize}

	// a connected frequency input overrides the parameter per frame
	driven := modules.NewState(graph.Oscillator, deps)
	drivenCtx, _, _ := newContext(t, graph.Oscillator, blockSize, nil)
	drivenCtx.In[0] = constant(880, blockSize)
	require.NoError(t, driven.Process(drivenCtx))

	direct := modules.NewState(graph.Oscillator, deps)
	directCtx, _, _ := newContext(t, graph.Oscillator, blockSize, map[string]graph.Param{"frequency": graph.Num(880)})
	require.NoError(t, direct.Process(directCtx))

	assert.Equal(t, directCtx.Out[0], drivenCtx.Out[0])
}
