package signal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipelined/rack/signal"
)

func TestBlock(t *testing.T) {
	b := signal.New(4)
	assert.True(t, b.IsSilent())

	b.CopyFrom(signal.Block{0.1, 0.2, 0.3, 0.4})
	assert.Equal(t, signal.Block{0.1, 0.2, 0.3, 0.4}, b)
	assert.False(t, b.IsSilent())

	b.Zero()
	assert.True(t, b.IsSilent())
}

func TestInterIntAsFloat64(t *testing.T) {
	tests := []struct {
		name     string
		ints     signal.InterInt
		expected signal.Float64
	}{
		{
			name: "stereo 16 bit",
			ints: signal.InterInt{
				Data:        []int{0, 32767, -32767, 0},
				NumChannels: 2,
				BitDepth:    signal.BitDepth16,
			},
			expected: signal.Float64{{0, -1}, {1, 0}},
		},
		{
			name: "mono 8 bit",
			ints: signal.InterInt{
				Data:        []int{127, 0},
				NumChannels: 1,
				BitDepth:    signal.BitDepth8,
			},
			expected: signal.Float64{{1, 0}},
		},
		{
			name:     "empty",
			ints:     signal.InterInt{},
			expected: nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.ints.AsFloat64()
			require.Equal(t, len(test.expected), len(got))
			for c := range test.expected {
				for i := range test.expected[c] {
					assert.InDelta(t, test.expected[c][i], got[c][i], 1e-6)
				}
			}
		})
	}
}

func TestFloat64AsInterInt(t *testing.T) {
	floats := signal.Float64{{1, 0}, {0, -1}}
	ints := floats.AsInterInt(signal.BitDepth16)
	assert.Equal(t, []int{32766, 0, 0, -32766}, ints)
	assert.Nil(t, signal.Float64{}.AsInterInt(signal.BitDepth16))
}

func TestMono(t *testing.T) {
	tests := []struct {
		name     string
		floats   signal.Float64
		expected signal.Block
	}{
		{
			name:     "mono",
			floats:   signal.Float64{{0.1, 0.2}},
			expected: signal.Block{0.1, 0.2},
		},
		{
			name:     "stereo averaged",
			floats:   signal.Float64{{1, 0}, {0, 1}},
			expected: signal.Block{0.5, 0.5},
		},
		{
			name:     "empty",
			floats:   signal.Float64{},
			expected: nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.floats.Mono()
			require.Equal(t, len(test.expected), len(got))
			for i := range test.expected {
				assert.InDelta(t, test.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(44100, 44100))
	assert.Equal(t, 500*time.Millisecond, signal.DurationOf(44100, 22050))
}
