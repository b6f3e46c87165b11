// Package signal provides an API to manipulate digital signals. It allows to:
//	- handle fixed-size mono blocks of samples
//	- convert interleaved data to non-interleaved
//	- convert bit depth for int signals
package signal

import (
	"math"
	"time"
)

// Block is a fixed-size mono batch of samples. All engine ports exchange
// blocks of the same size within one graph.
type Block []float64

// Float64 is a non-interleaved float64 signal.
type Float64 [][]float64

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// InterInt is an interleaved int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// BitDepth contains values required for int-to-float and backward conversion.
type BitDepth int

// devider is used when int to float conversion is done.
func (bitDepth BitDepth) devider() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// New returns a zeroed block of the provided size.
func New(size int) Block {
	return make(Block, size)
}

// Zero sets all samples of the block to silence.
func (b Block) Zero() {
	for i := range b {
		b[i] = 0
	}
}

// CopyFrom copies src into the block. Blocks are expected to have equal
// sizes; the shorter one bounds the copy.
func (b Block) CopyFrom(src Block) {
	copy(b, src)
}

// IsSilent returns true if every sample of the block is zero.
func (b Block) IsSilent() bool {
	for i := range b {
		if b[i] != 0 {
			return false
		}
	}
	return true
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// AsFloat64 converts interleaved int signal to float64.
func (ints InterInt) AsFloat64() Float64 {
	if ints.Data == nil || ints.NumChannels == 0 {
		return nil
	}
	floats := make([][]float64, ints.NumChannels)
	bufSize := int(math.Ceil(float64(len(ints.Data)) / float64(ints.NumChannels)))

	// determine the devider for bit depth conversion
	devider := float64(ints.BitDepth.devider())

	for i := range floats {
		floats[i] = make([]float64, bufSize)
		pos := 0
		for j := i; j < len(ints.Data); j = j + ints.NumChannels {
			floats[i][pos] = float64(ints.Data[j]) / devider
			pos++
		}
	}
	return floats
}

// AsInterInt converts float64 signal to interleaved int.
func (floats Float64) AsInterInt(bitDepth BitDepth) []int {
	var numChannels int
	if numChannels = len(floats); numChannels == 0 {
		return nil
	}

	// determine the multiplier for bit depth conversion
	multiplier := float64(bitDepth.multiplier())

	ints := make([]int, len(floats[0])*numChannels)

	for j := range floats {
		for i := range floats[j] {
			ints[i*numChannels+j] = int(floats[j][i] * multiplier)
		}
	}
	return ints
}

// NumChannels returns number of channels in this sample slice.
func (floats Float64) NumChannels() int {
	return len(floats)
}

// Size returns number of samples in single channel of this sample slice.
func (floats Float64) Size() int {
	if floats.NumChannels() == 0 {
		return 0
	}
	return len(floats[0])
}

// Mono sums the signal down to a single channel. A mono signal is returned
// as is, a multichannel signal is averaged sample by sample.
func (floats Float64) Mono() Block {
	if floats.NumChannels() == 0 {
		return nil
	}
	if floats.NumChannels() == 1 {
		return Block(floats[0])
	}
	mono := make(Block, floats.Size())
	for i := range mono {
		var sum float64
		for c := range floats {
			sum += floats[c][i]
		}
		mono[i] = sum / float64(floats.NumChannels())
	}
	return mono
}
