package rack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pipelined/rack"
	"github.com/pipelined/rack/bridge"
	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/mock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testEngine(t *testing.T, options ...rack.Option) *rack.Engine {
	t.Helper()
	open, _ := mock.Opener(100, make([]float64, 100), nil)
	defaults := []rack.Option{
		rack.WithSampleRate(100),
		rack.WithBlockSize(10),
		rack.WithOpener(open),
		rack.WithResampler(&mock.Resampler{}),
		rack.WithFilterMath(mock.Maker(1)),
	}
	e, err := rack.New(append(defaults, options...)...)
	require.NoError(t, err)
	return e
}

func TestEngine(t *testing.T) {
	frames := make([]float64, 100)
	for i := range frames {
		frames[i] = 0.5
	}
	open, _ := mock.Opener(100, frames, nil)
	e := testEngine(t, rack.WithOpener(open))
	defer func() { require.NoError(t, e.Close()) }()

	player, err := e.AddModule(graph.Player, map[string]graph.Param{
		"path": graph.Str("take.wav"),
		"loop": graph.Num(1),
	})
	require.NoError(t, err)
	out, err := e.AddModule(graph.Output, nil)
	require.NoError(t, err)
	require.NoError(t, e.Connect(
		graph.PortRef{Module: player, Port: "out"},
		graph.PortRef{Module: out, Port: "in"},
		false,
	))

	dst := make([]float64, 30)
	n := e.Pull(dst)
	assert.Equal(t, 30, n)
	for i := 5; i < 30; i++ {
		assert.InDelta(t, 0.5, dst[i], 1e-12, "sample %d", i)
	}

	snap, ok := e.PollLatest()
	require.True(t, ok)
	assert.Equal(t, uint64(3), snap.Seq)
	assert.Equal(t, int64(3), e.Metrics().Blocks.Load())

	// muting ramps down within one block at this rate
	require.NoError(t, e.SetParameter(out, "level", graph.Num(0)))
	e.Pull(dst)
	e.Pull(dst[:10])
	for i, s := range dst[:10] {
		assert.Zero(t, s, "sample %d", i)
	}
}

func TestPollLatestOutlivesRenderer(t *testing.T) {
	e := testEngine(t, rack.WithQueueCapacity(4))
	defer func() { require.NoError(t, e.Close()) }()

	noise, err := e.AddModule(graph.Noise, map[string]graph.Param{"seed": graph.Num(9)})
	require.NoError(t, err)
	out, err := e.AddModule(graph.Output, nil)
	require.NoError(t, err)
	require.NoError(t, e.Connect(
		graph.PortRef{Module: noise, Port: "out"},
		graph.PortRef{Module: out, Port: "in"},
		false,
	))

	e.Pull(make([]float64, 10))
	snap, ok := e.PollLatest()
	require.True(t, ok)
	kept := append([]float64(nil), snap.Block...)

	// render far past the renderer's snapshot pool; the polled block is a
	// caller-owned copy and must not change underneath the holder
	e.Pull(make([]float64, 200))
	assert.Equal(t, kept, []float64(snap.Block))
}

func TestEngineValidation(t *testing.T) {
	e := testEngine(t)
	defer func() { require.NoError(t, e.Close()) }()

	a, err := e.AddModule(graph.Filter, nil)
	require.NoError(t, err)
	b, err := e.AddModule(graph.Filter, nil)
	require.NoError(t, err)
	require.NoError(t, e.Connect(
		graph.PortRef{Module: a, Port: "out"},
		graph.PortRef{Module: b, Port: "in"},
		false,
	))

	// edits fail synchronously, before anything crosses the bridge
	err = e.Connect(graph.PortRef{Module: b, Port: "out"}, graph.PortRef{Module: a, Port: "in"}, false)
	require.ErrorIs(t, err, graph.ErrCycle)
	err = e.SetParameter(a, "cutoff", graph.Num(-1))
	require.ErrorIs(t, err, graph.ErrOutOfRange)
	err = e.RemoveModule(42)
	require.ErrorIs(t, err, graph.ErrNotFound)

	// feedback is expressed explicitly
	require.NoError(t, e.Connect(
		graph.PortRef{Module: b, Port: "out"},
		graph.PortRef{Module: a, Port: "in"},
		true,
	))
}

func TestEngineBusy(t *testing.T) {
	e := testEngine(t, rack.WithQueueCapacity(1))
	defer func() { require.NoError(t, e.Close()) }()

	_, err := e.AddModule(graph.Value, nil)
	require.NoError(t, err)
	_, err = e.AddModule(graph.Value, nil)
	require.ErrorIs(t, err, bridge.ErrBusy)

	// the render context drains the queue at the block boundary
	e.Pull(make([]float64, 10))
	_, err = e.AddModule(graph.Value, nil)
	require.NoError(t, err)
}

func TestEngineLoad(t *testing.T) {
	e := testEngine(t)
	osc, err := e.AddModule(graph.Oscillator, map[string]graph.Param{"frequency": graph.Num(220)})
	require.NoError(t, err)
	out, err := e.AddModule(graph.Output, nil)
	require.NoError(t, err)
	require.NoError(t, e.Connect(
		graph.PortRef{Module: osc, Port: "out"},
		graph.PortRef{Module: out, Port: "in"},
		false,
	))
	patch := e.Patch()
	require.NoError(t, e.Close())

	restored := testEngine(t)
	defer func() { require.NoError(t, restored.Close()) }()
	require.NoError(t, restored.Load(patch))
	assert.Equal(t, patch, restored.Patch(), "module ids survive persistence")

	dst := make([]float64, 20)
	restored.Pull(dst)
	assert.NotEqual(t, make([]float64, 10), dst[10:], "restored graph renders")
}

func TestEngineClose(t *testing.T) {
	e := testEngine(t)
	require.NoError(t, e.Close())
	err := e.RemoveModule(1)
	require.ErrorIs(t, err, graph.ErrNotFound)
	_, err = e.AddModule(graph.Value, nil)
	require.ErrorIs(t, err, bridge.ErrDisconnected)
}

func TestEngineInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		option rack.Option
	}{
		{name: "sample rate", option: rack.WithSampleRate(0)},
		{name: "block size", option: rack.WithBlockSize(-1)},
		{name: "queue capacity", option: rack.WithQueueCapacity(0)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := rack.New(test.option)
			require.ErrorIs(t, err, rack.ErrInvalidConfig)
		})
	}
}
