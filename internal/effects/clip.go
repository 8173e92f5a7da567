package effects

// Knee is where SoftClip leaves the linear region.
const Knee = 0.75

// SoftClip is linear below Knee and bends asymptotically towards ±1 above
// it. The curve and its slope are continuous at the knee.
func SoftClip(x float32) float32 {
	a := absf(x)
	if a <= Knee {
		return x
	}
	u := (a - Knee) / (1 - Knee)
	y := Knee + (1-Knee)*u/(1+u)
	if x < 0 {
		return -y
	}
	return y
}

// Clipper applies SoftClip after a fixed gain. It is the last stage of the
// master bus.
type Clipper struct {
	gain float32
}

func NewClipper(gain float32) *Clipper { return &Clipper{gain: gain} }

func (c *Clipper) Process(l, r float32) (float32, float32) {
	return SoftClip(l * c.gain), SoftClip(r * c.gain)
}

func (c *Clipper) Reset() {}
