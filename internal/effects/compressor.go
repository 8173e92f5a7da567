package effects

import "math"

// Compressor is a stereo-linked bus compressor. Both channels share one
// envelope so the image does not shift under gain reduction.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	attack      float32
	release     float32
	makeup      float32
	env         float32
	gain        float32
}

// NewCompressor takes threshold and makeup in dB and attack and release in
// milliseconds. Ratios below 1 are treated as 1.
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float64) *Compressor {
	sr := float64(sampleRate)
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		thresholdDB: thresholdDB,
		ratio:       ratio,
		attack:      coeff(attackMs, sr),
		release:     coeff(releaseMs, sr),
		makeup:      float32(dbToLinear(makeupDB)),
		gain:        1,
	}
}

func coeff(ms, sr float64) float32 {
	if ms <= 0 {
		return 1
	}
	return float32(1 - math.Exp(-1/(ms*sr/1000)))
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	peak := absf(l)
	if ar := absf(r); ar > peak {
		peak = ar
	}
	if peak > c.env {
		c.env += c.attack * (peak - c.env)
	} else {
		c.env += c.release * (peak - c.env)
	}
	c.gain = c.computeGain(c.env)
	g := c.gain * c.makeup
	return l * g, r * g
}

func (c *Compressor) computeGain(env float32) float32 {
	if env <= 0 {
		return 1
	}
	levelDB := 20 * math.Log10(float64(env))
	over := levelDB - c.thresholdDB
	if over <= 0 {
		return 1
	}
	return float32(dbToLinear(over/c.ratio - over))
}

// Reduction is the gain applied to the last frame before makeup, 1 meaning
// no compression.
func (c *Compressor) Reduction() float32 { return c.gain }

func (c *Compressor) Reset() {
	c.env = 0
	c.gain = 1
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
