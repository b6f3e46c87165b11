package modules

import "github.com/pipelined/rack/graph"

// mixer applies a fixed per-sample arithmetic combination over all
// connected inputs. Unconnected inputs are excluded from the combination.
type mixer struct{}

func (m *mixer) Process(ctx *Context) error {
	op := int(ctx.Param("op"))
	out := ctx.Out[0]

	for i := range out {
		var acc float64
		var count int
		if op == graph.OpProduct {
			acc = 1
		}
		for _, in := range ctx.In {
			if in == nil {
				continue
			}
			count++
			switch op {
			case graph.OpProduct:
				acc *= in[i]
			default:
				acc += in[i]
			}
		}
		if count == 0 {
			out[i] = 0
			continue
		}
		if op == graph.OpAverage {
			acc /= float64(count)
		}
		out[i] = acc
	}
	return nil
}
