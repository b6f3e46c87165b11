// Package wav provides the wav decoding collaborator for Player modules
// and a block writer for offline rendering.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pipelined/rack/modules"
	"github.com/pipelined/rack/signal"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

const decodeFrames = 2048

type (
	// Decoder pulls frames from a wav file and implements
	// modules.Decoder. Multichannel content is summed down to mono.
	Decoder struct {
		file    *os.File
		decoder *wav.Decoder
		buf     *audio.IntBuffer

		sampleRate  int
		numChannels int
		bitDepth    signal.BitDepth
	}

	// Writer saves rendered blocks to a wav file.
	Writer struct {
		file    *os.File
		encoder *wav.Encoder

		bitDepth    signal.BitDepth
		sampleRate  int
		numChannels int
	}
)

// Open opens a wav file for decoding. It is a modules.Opener for paths
// with the .wav extension; other extensions fail with
// modules.ErrUnsupportedFormat.
func Open(path string) (modules.Decoder, error) {
	if strings.ToLower(filepath.Ext(path)) != ".wav" {
		return nil, fmt.Errorf("%w: %q", modules.ErrUnsupportedFormat, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %q is not a valid wav", modules.ErrCorruptStream, path)
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %v", modules.ErrUnsupportedFormat, ErrUnsupportedBitDepth)
	}
	d := &Decoder{
		file:        file,
		decoder:     decoder,
		sampleRate:  int(decoder.SampleRate),
		numChannels: decoder.Format().NumChannels,
		bitDepth:    bitDepth,
		buf: &audio.IntBuffer{
			Format:         decoder.Format(),
			Data:           make([]int, decodeFrames*decoder.Format().NumChannels),
			SourceBitDepth: int(decoder.BitDepth),
		},
	}
	return d, nil
}

// SampleRate returns the native sample rate of the stream.
func (d *Decoder) SampleRate() int {
	return d.sampleRate
}

// DecodeNext returns the next batch of mono frames at the stream's native
// rate. It returns io.EOF at the end of the stream.
func (d *Decoder) DecodeNext() (modules.FrameBuffer, error) {
	read, err := d.decoder.PCMBuffer(d.buf)
	if err != nil {
		return modules.FrameBuffer{}, fmt.Errorf("%w: %v", modules.ErrCorruptStream, err)
	}
	if read == 0 {
		return modules.FrameBuffer{}, io.EOF
	}
	floats := signal.InterInt{
		Data:        d.buf.Data[:read],
		NumChannels: d.numChannels,
		BitDepth:    d.bitDepth,
	}.AsFloat64()
	return modules.FrameBuffer{Data: floats.Mono(), SampleRate: d.sampleRate}, nil
}

// Close closes the underlying file.
func (d *Decoder) Close() error {
	return d.file.Close()
}

// NewWriter creates a mono wav file and writes rendered blocks to it.
func NewWriter(path string, sampleRate int, bitDepth signal.BitDepth) (*Writer, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:        file,
		encoder:     wav.NewEncoder(file, sampleRate, int(bitDepth), 1, 1),
		bitDepth:    bitDepth,
		sampleRate:  sampleRate,
		numChannels: 1,
	}, nil
}

// Write appends one rendered block.
func (w *Writer) Write(block signal.Block) error {
	return w.encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: w.numChannels,
			SampleRate:  w.sampleRate,
		},
		SourceBitDepth: int(w.bitDepth),
		Data:           signal.Float64{block}.AsInterInt(w.bitDepth),
	})
}

// Close flushes the encoder and closes the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
