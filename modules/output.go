package modules

// output is the terminal sink. Its current block is what the renderer
// forwards to the playback sink and the telemetry queue. The level
// parameter is applied through a linear ramp so level changes don't click.
type output struct {
	damper *damper
}

func (o *output) Process(ctx *Context) error {
	in := ctx.In[0]
	out := ctx.Out[0]
	level := ctx.Param("level")
	for i := range out {
		amp := o.damper.frame(level)
		var s float64
		if in != nil {
			s = in[i]
		}
		out[i] = s * amp
	}
	return nil
}
