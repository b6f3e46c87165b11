package modules

import "math/rand"

// noise emits uniform noise in [-1, 1]. The generator is seeded from the
// seed parameter so two renders with the same seed are bit-identical.
type noise struct {
	rng  *rand.Rand
	seed int64
}

func (n *noise) Process(ctx *Context) error {
	seed := int64(ctx.Param("seed"))
	if n.rng == nil || seed != n.seed {
		n.rng = rand.New(rand.NewSource(seed))
		n.seed = seed
	}
	out := ctx.Out[0]
	for i := range out {
		out[i] = n.rng.Float64()*2 - 1
	}
	return nil
}
