package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDamper(t *testing.T) {
	d := newDamper(100)

	// ramp up in bounded steps
	want := []float64{0.2, 0.4, 0.6, 0.8, 1, 1}
	for i, w := range want {
		assert.InDelta(t, w, d.frame(1), 1e-12, "frame %d", i)
	}

	// ramp down is bounded the same way
	assert.InDelta(t, 0.8, d.frame(0), 1e-12)
	assert.InDelta(t, 0.6, d.frame(0), 1e-12)

	// small steps land exactly on the target
	assert.InDelta(t, 0.55, d.frame(0.55), 1e-12)
}
