package synth

import "math"

const twoPi = math.Pi * 2

type oscillator struct {
	phase float64 // [0, 1)
	inc   float64
	amp   float64
	wave  Wave
}

func (o *oscillator) setFreq(freq, sampleRate float64) {
	o.inc = freq / sampleRate
}

func (o *oscillator) process() float64 {
	t, dt := o.phase, o.inc
	var out float64
	switch o.wave {
	case WaveTriangle:
		out = 2*math.Abs(2*t-1) - 1
	case WaveSaw:
		out = 2*t - 1
		out -= polyBLEP(t, dt)
	case WaveSquare:
		out = -1
		if t < 0.5 {
			out = 1
		}
		out += polyBLEP(t, dt)
		out -= polyBLEP(math.Mod(t+0.5, 1), dt)
	default:
		out = math.Sin(twoPi * t)
	}
	o.phase += dt
	if o.phase >= 1 {
		o.phase -= 1
	}
	return out * o.amp
}

// polyBLEP reduces aliasing at waveform discontinuities.
// t is the phase position [0,1), dt is the phase increment per sample.
func polyBLEP(t, dt float64) float64 {
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// svf is a two-pole state variable low-pass, run twice per sample so that
// cutoffs near the top of the band stay stable.
type svf struct {
	low  float64
	band float64
	f    float64
	damp float64
}

func (s *svf) set(cutoff, res, sampleRate float64) {
	cutoff = clamp(cutoff, 20, sampleRate*0.45)
	s.f = 2 * math.Sin(math.Pi*cutoff/(2*sampleRate))
	s.damp = clamp(2*(1-res), 0.1, 2)
}

func (s *svf) process(in float64) float64 {
	for i := 0; i < 2; i++ {
		high := in - s.low - s.damp*s.band
		s.band += s.f * high
		s.low += s.f * s.band
	}
	return s.low
}

func (s *svf) reset() {
	s.low = 0
	s.band = 0
}

type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

type adsr struct {
	stage   envStage
	value   float64
	attack  float64 // seconds
	decay   float64
	sustain float64 // level
	release float64
	relStep float64
}

func (a *adsr) set(attack, decay, sustain, release float64) {
	a.attack = attack
	a.decay = decay
	a.sustain = sustain
	a.release = release
}

// retrigger restarts the attack from zero.
func (a *adsr) retrigger() {
	a.value = 0
	a.stage = envAttack
}

func (a *adsr) process(gate bool, sampleRate float64) float64 {
	if !gate && a.stage != envIdle && a.stage != envRelease {
		a.stage = envRelease
		a.relStep = a.value / (a.release * sampleRate)
	}
	switch a.stage {
	case envAttack:
		a.value += 1 / (a.attack * sampleRate)
		if a.value >= 1 {
			a.value = 1
			a.stage = envDecay
		}
	case envDecay:
		a.value -= (1 - a.sustain) / (a.decay * sampleRate)
		if a.value <= a.sustain {
			a.value = a.sustain
			a.stage = envSustain
		}
	case envSustain:
		a.value = a.sustain
	case envRelease:
		a.value -= a.relStep
		if a.value <= 0 {
			a.value = 0
			a.stage = envIdle
		}
	case envIdle:
		a.value = 0
	}
	return a.value
}

func midiToFreq(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
