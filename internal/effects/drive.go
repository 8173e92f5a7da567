package effects

import "math"

// Drive is a tanh saturator followed by a one-pole lowpass that tames the
// added harmonics.
type Drive struct {
	pre, post  float32
	alpha      float32
	lpL, lpR   float32
	filterless bool
}

// NewDrive takes input gain, output gain and the lowpass cutoff in Hz. A
// cutoff of 0 or above Nyquist disables the filter.
func NewDrive(sampleRate int, preGain, postGain, cutoff float32) *Drive {
	d := &Drive{pre: preGain, post: postGain, filterless: true}
	if cutoff > 0 && cutoff < float32(sampleRate)/2 {
		rc := 1 / (2 * math.Pi * float64(cutoff))
		dt := 1 / float64(sampleRate)
		d.alpha = float32(dt / (rc + dt))
		d.filterless = false
	}
	return d
}

func (d *Drive) Process(l, r float32) (float32, float32) {
	l = float32(math.Tanh(float64(l*d.pre))) * d.post
	r = float32(math.Tanh(float64(r*d.pre))) * d.post
	if d.filterless {
		return l, r
	}
	d.lpL += d.alpha * (l - d.lpL)
	d.lpR += d.alpha * (r - d.lpR)
	return d.lpL, d.lpR
}

func (d *Drive) Reset() {
	d.lpL, d.lpR = 0, 0
}
