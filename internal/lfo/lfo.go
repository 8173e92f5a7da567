// Package lfo provides the low-frequency oscillator that sweeps the synth
// filter. One LFO is shared by every voice of an engine.
package lfo

import "math"

type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
	WaveRandom // sample and hold, new value once per cycle
)

type LFO struct {
	depth    float64
	rateHz   float64
	waveform Waveform
	phase    float64 // [0, 1)
	held     float64
	seed     uint32
	last     float64
}

// Set configures depth, rate and waveform. Unknown waveforms fall back to
// sine.
func (l *LFO) Set(depth, rateHz float64, waveform Waveform) {
	l.depth = depth
	l.rateHz = rateHz
	if waveform < WaveSine || waveform > WaveRandom {
		waveform = WaveSine
	}
	l.waveform = waveform
}

func (l *LFO) SetDepth(depth float64) { l.depth = depth }
func (l *LFO) SetRate(rateHz float64) { l.rateHz = rateHz }

// Sample advances the LFO by one sample and returns a value in
// [-depth, +depth]. It returns 0 while depth or rate is zero, but the phase
// keeps running as long as the rate is set.
func (l *LFO) Sample(sampleRate float64) float64 {
	if l.rateHz <= 0 || sampleRate <= 0 {
		l.last = 0
		return 0
	}
	v := l.shape()
	prev := l.phase
	l.phase += l.rateHz / sampleRate
	for l.phase >= 1 {
		l.phase--
	}
	if l.waveform == WaveRandom && l.phase < prev {
		l.held = l.next()
	}
	l.last = v * l.depth
	return l.last
}

func (l *LFO) shape() float64 {
	p := l.phase
	switch l.waveform {
	case WaveTriangle:
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	case WaveSaw:
		return 1 - 2*p
	case WaveSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case WaveRandom:
		return l.held
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// next is a xorshift32 step mapped to [-1, 1).
func (l *LFO) next() float64 {
	if l.seed == 0 {
		l.seed = 0x9E3779B9
	}
	x := l.seed
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	l.seed = x
	return float64(x)/float64(1<<31) - 1
}

// Value returns the most recent output without advancing.
func (l *LFO) Value() float64 { return l.last }

func (l *LFO) Active() bool { return l.depth != 0 && l.rateHz != 0 }

// Reset restarts the cycle from phase zero.
func (l *LFO) Reset() {
	l.phase = 0
	l.held = 0
	l.last = 0
}
