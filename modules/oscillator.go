package modules

import (
	"math"

	"github.com/pipelined/rack/graph"
)

// oscillator advances a phase accumulator by frequency/sampleRate per
// frame. The phase is kept in double precision and wrapped modulo 1 so
// long-running renders do not drift.
type oscillator struct {
	sampleRate int
	phase      float64
}

func (o *oscillator) Process(ctx *Context) error {
	out := ctx.Out[0]
	freqIn := ctx.In[0]
	freq := ctx.Param("frequency")
	shape := int(ctx.Param("shape"))
	unipolar := ctx.Param("unipolar") != 0
	rate := float64(o.sampleRate)

	for i := range out {
		f := freq
		if freqIn != nil {
			f = freqIn[i]
		}

		var s float64
		switch shape {
		case graph.ShapeSine:
			s = math.Sin(2 * math.Pi * o.phase)
		case graph.ShapeSquare:
			s = math.Round(o.phase)*2 - 1
		case graph.ShapeTriangle:
			s = math.Abs((1-o.phase)*4-2) - 1
		case graph.ShapeSaw:
			s = o.phase*2 - 1
		}
		if unipolar {
			s = (s + 1) / 2
		}
		out[i] = s

		o.phase += f / rate
		o.phase -= math.Floor(o.phase)
	}
	return nil
}
