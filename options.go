package rack

import (
	"github.com/sirupsen/logrus"

	"github.com/pipelined/rack/modules"
)

// Option provides a way to set functional parameters to the engine.
type Option func(e *Engine) error

// WithSampleRate sets the engine's internal sample rate.
func WithSampleRate(sampleRate int) Option {
	return func(e *Engine) error {
		if sampleRate <= 0 {
			return ErrInvalidConfig
		}
		e.sampleRate = sampleRate
		return nil
	}
}

// WithBlockSize sets the number of frames rendered per block.
func WithBlockSize(blockSize int) Option {
	return func(e *Engine) error {
		if blockSize <= 0 {
			return ErrInvalidConfig
		}
		e.blockSize = blockSize
		return nil
	}
}

// WithQueueCapacity sets the capacity of both bridge queues. Capacity is
// fixed for the engine's lifetime.
func WithQueueCapacity(capacity int) Option {
	return func(e *Engine) error {
		if capacity <= 0 {
			return ErrInvalidConfig
		}
		e.queueCapacity = capacity
		return nil
	}
}

// WithLogger sets logger to the engine. If this option is not provided,
// a default logger is used.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) error {
		e.log = logger
		return nil
	}
}

// WithOpener sets the decoder constructor used by Player modules.
func WithOpener(open modules.Opener) Option {
	return func(e *Engine) error {
		e.open = open
		return nil
	}
}

// WithResampler sets the rate-conversion collaborator used by Player
// modules.
func WithResampler(r modules.Resampler) Option {
	return func(e *Engine) error {
		e.resampler = r
		return nil
	}
}

// WithFilterMath sets the filter-math collaborator constructor used by
// Filter modules.
func WithFilterMath(maker modules.FilterMaker) Option {
	return func(e *Engine) error {
		e.newFilter = maker
		return nil
	}
}
