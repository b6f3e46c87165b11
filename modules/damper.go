package modules

// damper ramps an amplitude value linearly toward its target, bounded per
// frame. The step is derived from the sample rate so the full ramp takes
// 1/20 s, below the audible range.
type damper struct {
	maxDif  float64
	current float64
}

func newDamper(sampleRate int) *damper {
	return &damper{maxDif: 1 / (float64(sampleRate) / 20)}
}

func (d *damper) frame(target float64) float64 {
	dif := target - d.current
	if dif > d.maxDif {
		dif = d.maxDif
	} else if dif < -d.maxDif {
		dif = -d.maxDif
	}
	d.current += dif
	return d.current
}
