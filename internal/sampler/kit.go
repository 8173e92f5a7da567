package sampler

import "math"

// PadNames names the pads of the built-in kit in pad order.
var PadNames = [NumPads]string{"kick", "snare", "closed hat", "open hat", "clap", "low tom", "high tom", "rim"}

type noiseGen struct {
	lfsr uint16
}

func (n *noiseGen) next() float64 {
	bit := (n.lfsr ^ (n.lfsr >> 1)) & 1
	n.lfsr = (n.lfsr >> 1) | (bit << 15)
	if n.lfsr&1 == 1 {
		return 1
	}
	return -1
}

// Kit synthesizes the built-in drum kit at the given sample rate.
func Kit(sampleRate int) [NumPads][]float32 {
	sr := float64(sampleRate)
	if sr <= 0 {
		sr = 48000
	}
	var kit [NumPads][]float32
	kit[0] = drum(sr, 0.45, func(t float64, n *noiseGen) float64 {
		f := 45 + 110*math.Exp(-t*30)
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*7)
	})
	kit[1] = drum(sr, 0.25, func(t float64, n *noiseGen) float64 {
		body := math.Sin(2*math.Pi*190*t) * math.Exp(-t*25)
		return 0.5*body + 0.6*n.next()*math.Exp(-t*18)
	})
	kit[2] = drum(sr, 0.06, hat(60))
	kit[3] = drum(sr, 0.35, hat(9))
	kit[4] = drum(sr, 0.22, func(t float64, n *noiseGen) float64 {
		// Three quick bursts then a tail.
		burst := math.Mod(t, 0.011)
		env := math.Exp(-burst * 300)
		if t > 0.033 {
			env = math.Exp(-(t - 0.033) * 20)
		}
		return 0.7 * n.next() * env
	})
	kit[5] = drum(sr, 0.35, tom(95))
	kit[6] = drum(sr, 0.3, tom(160))
	kit[7] = drum(sr, 0.05, func(t float64, n *noiseGen) float64 {
		return (0.6*math.Sin(2*math.Pi*820*t) + 0.3*n.next()) * math.Exp(-t*90)
	})
	return kit
}

func hat(decay float64) func(float64, *noiseGen) float64 {
	var prev float64
	return func(t float64, n *noiseGen) float64 {
		x := n.next()
		hp := x - prev
		prev = x
		return 0.35 * hp * math.Exp(-t*decay)
	}
}

func tom(freq float64) func(float64, *noiseGen) float64 {
	return func(t float64, n *noiseGen) float64 {
		f := freq * (1 + 0.5*math.Exp(-t*20))
		return 0.8 * math.Sin(2*math.Pi*f*t) * math.Exp(-t*9)
	}
}

func drum(sr, seconds float64, gen func(t float64, n *noiseGen) float64) []float32 {
	n := int(sr * seconds)
	out := make([]float32, n)
	noise := &noiseGen{lfsr: 0xACE1}
	for i := range out {
		out[i] = float32(gen(float64(i)/sr, noise))
	}
	return out
}

// LoadKit loads the built-in kit onto every pad.
func (e *Engine) LoadKit(sampleRate int) {
	kit := Kit(sampleRate)
	for i := range kit {
		e.Load(i, kit[i], PadNames[i])
	}
}

// Resample converts mono data between sample rates with linear
// interpolation.
func Resample(data []float32, from, to int) []float32 {
	if from <= 0 || to <= 0 || from == to || len(data) == 0 {
		return data
	}
	n := int(int64(len(data)) * int64(to) / int64(from))
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	step := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(data)-1 {
			out[i] = data[len(data)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = data[idx] + frac*(data[idx+1]-data[idx])
	}
	return out
}
