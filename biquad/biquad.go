// Package biquad adapts the algo-dsp biquad filter math to the engine's
// filter-math collaborator interface.
package biquad

import (
	"fmt"

	dsp "github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/modules"
)

// Math applies second-order-section coefficients per sample. One instance
// serves one Filter module and owns its delay line, so reconfiguring the
// coefficients keeps the filter continuous at block boundaries.
type Math struct {
	section *dsp.Section
}

// New constructs a filter-math instance. Until configured it passes the
// signal through unchanged.
func New() modules.FilterMath {
	return &Math{section: dsp.NewSection(dsp.Coefficients{B0: 1})}
}

// Configure designs RBJ coefficients for the requested response and
// installs them, preserving the delay-line state.
func (m *Math) Configure(typ int, cutoff, q float64, sampleRate int) error {
	var c dsp.Coefficients
	switch typ {
	case graph.FilterLowpass:
		c = design.Lowpass(cutoff, q, float64(sampleRate))
	case graph.FilterHighpass:
		c = design.Highpass(cutoff, q, float64(sampleRate))
	case graph.FilterBandpass:
		c = design.Bandpass(cutoff, q, float64(sampleRate))
	default:
		return fmt.Errorf("unknown filter type %d", typ)
	}
	m.section.Coefficients = c
	return nil
}

// Apply filters one sample.
func (m *Math) Apply(sample float64) float64 {
	return m.section.ProcessSample(sample)
}

// Reset clears the delay line.
func (m *Math) Reset() {
	m.section.Reset()
}
