// Package portaudio plays rendered audio using the default output device.
package portaudio

import (
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/pipelined/rack/log"
)

// Source is pulled for samples by the playback loop. Pull must fill dst
// completely; the engine's renderer satisfies this.
type Source interface {
	Pull(dst []float64) int
}

// Playback streams a source to the default portaudio device. The device
// callback cadence drives the render context: every Write blocks until
// the device consumed the previous buffer.
type Playback struct {
	source     Source
	sampleRate int
	frames     int

	buf64  []float64
	buf32  []float32
	stream *portaudio.Stream

	log  log.Logger
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewPlayback returns a playback streaming from source with the provided
// frames per device buffer.
func NewPlayback(source Source, sampleRate, frames int) *Playback {
	return &Playback{
		source:     source,
		sampleRate: sampleRate,
		frames:     frames,
		buf64:      make([]float64, frames),
		buf32:      make([]float32, frames),
		log:        log.GetLogger(),
		done:       make(chan struct{}),
	}
}

// Start initializes portaudio, opens the default mono stream and starts
// the playback loop.
func (p *Playback) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(p.sampleRate), p.frames, &p.buf32)
	if err != nil {
		_ = portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return err
	}
	p.stream = stream

	p.wg.Add(1)
	go p.loop()
	return nil
}

func (p *Playback) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		default:
		}
		n := p.source.Pull(p.buf64)
		for i := 0; i < n; i++ {
			p.buf32[i] = float32(p.buf64[i])
		}
		// a short pull repeats the tail of the previous buffer
		if err := p.stream.Write(); err != nil {
			// device underflow is recoverable, keep feeding
			p.log.Debug("portaudio write: ", err)
		}
	}
}

// Close stops the loop and terminates portaudio structures. Closing a
// playback that never started is a no-op.
func (p *Playback) Close() error {
	p.once.Do(func() { close(p.done) })
	p.wg.Wait()
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
