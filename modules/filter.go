package modules

import "fmt"

// filter delegates per-sample coefficient application to the FilterMath
// collaborator, which owns the delay line. Unconnected input is treated as
// silence and still runs through the filter so its state stays continuous.
type filter struct {
	math       FilterMath
	sampleRate int

	typ        int
	cutoff, q  float64
	configured bool
}

func (f *filter) Process(ctx *Context) error {
	typ := int(ctx.Param("type"))
	cutoff := ctx.Param("cutoff")
	q := ctx.Param("q")
	if !f.configured || typ != f.typ || cutoff != f.cutoff || q != f.q {
		if err := f.math.Configure(typ, cutoff, q, f.sampleRate); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
		f.typ, f.cutoff, f.q = typ, cutoff, q
		f.configured = true
	}

	in := ctx.In[0]
	out := ctx.Out[0]
	for i := range out {
		var s float64
		if in != nil {
			s = in[i]
		}
		out[i] = f.math.Apply(s)
	}
	return nil
}
