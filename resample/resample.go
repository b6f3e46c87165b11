// Package resample adapts the algo-dsp polyphase resampler to the
// engine's rate-conversion collaborator interface.
package resample

import (
	dsp "github.com/cwbudde/algo-dsp/dsp/resample"
)

// Converter converts sample rates with anti-aliased rational resampling.
// The underlying resampler is cached per rate pair so its filter state
// stays continuous across consecutive buffers of one stream.
type Converter struct {
	quality dsp.Quality

	from, to int
	r        *dsp.Resampler
}

// New returns a converter with the balanced quality profile.
func New() *Converter {
	return &Converter{quality: dsp.QualityBalanced}
}

// WithQuality sets the anti-aliasing quality profile.
func (c *Converter) WithQuality(q dsp.Quality) *Converter {
	c.quality = q
	return c
}

// Resample converts buf from one sample rate to another. Equal rates pass
// the buffer through unchanged.
func (c *Converter) Resample(buf []float64, from, to int) ([]float64, error) {
	if from == to {
		return buf, nil
	}
	if c.r == nil || from != c.from || to != c.to {
		r, err := dsp.NewForRates(float64(from), float64(to), dsp.WithQuality(c.quality))
		if err != nil {
			return nil, err
		}
		c.r = r
		c.from, c.to = from, to
	}
	return c.r.Process(buf), nil
}
