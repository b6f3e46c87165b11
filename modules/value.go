package modules

// value emits its value parameter as a constant control signal.
type value struct{}

func (v *value) Process(ctx *Context) error {
	val := ctx.Param("value")
	out := ctx.Out[0]
	for i := range out {
		out[i] = val
	}
	return nil
}
