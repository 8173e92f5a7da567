package effects

// Reverb is a Schroeder reverb: four damped combs per channel into two
// allpasses. The right channel combs are offset to widen the tail.
type Reverb struct {
	combsL, combsR     [4]comb
	allpassL, allpassR [2]allpass
	wet                float32
}

const stereoSpread = 23

var (
	combRatios    = [4]int{1000, 1117, 1271, 1437}
	allpassRatios = [2]int{347, 213}
)

type comb struct {
	buf    []float32
	pos    int
	fb     float32
	damp   float32
	filter float32
}

type allpass struct {
	buf []float32
	pos int
}

// NewReverb takes room size, feedback, damping and wet mix, all in 0..1.
func NewReverb(sampleRate int, roomSize, feedback, damping, wet float32) *Reverb {
	base := int(float32(sampleRate) * clamp(roomSize, 0, 1) * 0.05)
	if base < 10 {
		base = 10
	}
	fb := clamp(feedback, 0, 0.95)
	damp := clamp(damping, 0, 1)
	r := &Reverb{wet: clamp(wet, 0, 1)}
	for i, ratio := range combRatios {
		n := base * ratio / 1000
		r.combsL[i] = comb{buf: make([]float32, n), fb: fb, damp: damp}
		r.combsR[i] = comb{buf: make([]float32, n+stereoSpread), fb: fb, damp: damp}
	}
	for i, ratio := range allpassRatios {
		n := base * ratio / 1000
		if n < 1 {
			n = 1
		}
		r.allpassL[i] = allpass{buf: make([]float32, n)}
		r.allpassR[i] = allpass{buf: make([]float32, n+stereoSpread)}
	}
	return r
}

func (r *Reverb) Process(l, rr float32) (float32, float32) {
	in := (l + rr) * 0.5
	var outL, outR float32
	for i := range r.combsL {
		outL += r.combsL[i].process(in)
		outR += r.combsR[i].process(in)
	}
	outL *= 0.25
	outR *= 0.25
	for i := range r.allpassL {
		outL = r.allpassL[i].process(outL)
		outR = r.allpassR[i].process(outR)
	}
	return l*(1-r.wet) + outL*r.wet, rr*(1-r.wet) + outR*r.wet
}

func (r *Reverb) Reset() {
	for i := range r.combsL {
		r.combsL[i].reset()
		r.combsR[i].reset()
	}
	for i := range r.allpassL {
		r.allpassL[i].reset()
		r.allpassR[i].reset()
	}
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.filter = out*(1-c.damp) + c.filter*c.damp
	c.buf[c.pos] = in + c.filter*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *comb) reset() {
	clear(c.buf)
	c.pos = 0
	c.filter = 0
}

func (a *allpass) process(in float32) float32 {
	delayed := a.buf[a.pos]
	a.buf[a.pos] = in + delayed*0.5
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return delayed - in
}

func (a *allpass) reset() {
	clear(a.buf)
	a.pos = 0
}
