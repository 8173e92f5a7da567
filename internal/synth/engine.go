// Package synth is the polyphonic subtractive voice engine: two oscillators,
// a resonant low-pass filter and two envelopes per voice, sharing one
// parameter block.
package synth

import (
	"math"

	"github.com/cbegin/groovebox-go/internal/effects"
	"github.com/cbegin/groovebox-go/internal/lfo"
)

const (
	NumVoices = 6

	DefaultFilterUpdateInterval = 64

	voiceMix       = 0.15
	silenceFloor   = 0.01
	stuckSeconds   = 3.0
	maxCutoff      = 12000
	maxResonance   = 0.7
	velFilterRange = 1500
	envFilterRange = 2000
	lfoFilterRange = 2000
)

// VoiceInfo is a read-only view of one voice.
type VoiceInfo struct {
	Active   bool
	Gate     bool
	Note     uint8
	Velocity uint8
	Env      float32
}

type voice struct {
	active     bool
	gate       bool
	note       uint8
	velocity   uint8
	startOrder uint32
	releaseAge int
	osc1       oscillator
	osc2       oscillator
	filter     svf
	ampEnv     adsr
	filtEnv    adsr
	lastEnv    float64
}

func (v *voice) kill() {
	v.active = false
	v.gate = false
	v.releaseAge = 0
	v.filter.reset()
}

type Option func(*Engine)

// WithFilterUpdateInterval sets how many samples pass between filter
// coefficient updates. Values below 1 update every sample.
func WithFilterUpdateInterval(samples int) Option {
	return func(e *Engine) {
		if samples < 1 {
			samples = 1
		}
		e.filterInterval = samples
	}
}

type Engine struct {
	sampleRate     float64
	params         Params
	preset         int
	voices         [NumVoices]voice
	order          uint32
	filterInterval int
	filterCounter  int
	stuckLimit     int
	lfo            lfo.LFO
	hadNaN         bool
	hadStuck       bool
}

func New(sampleRate int, opts ...Option) *Engine {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	e := &Engine{
		sampleRate:     float64(sampleRate),
		params:         InitPatch(),
		filterInterval: DefaultFilterUpdateInterval,
		stuckLimit:     int(float64(sampleRate) * stuckSeconds),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.applyParams()
	return e
}

// NoteOn starts a note on a free voice, stealing the oldest voice when the
// pool is full. A zero velocity releases the note instead.
func (e *Engine) NoteOn(note, velocity uint8) {
	if velocity == 0 {
		e.NoteOff(note)
		return
	}
	v := &e.voices[e.findVoice()]
	if v.active && v.gate {
		v.gate = false
		v.filter.reset()
	}
	p := &e.params
	v.note = note & 0x7F
	v.velocity = velocity & 0x7F
	v.active = true
	v.gate = true
	v.releaseAge = 0
	v.startOrder = e.order
	e.order++

	freq := midiToFreq(v.note)
	v.osc1.phase = 0
	v.osc2.phase = 0
	v.osc1.setFreq(freq, e.sampleRate)
	v.osc2.setFreq(freq*math.Pow(2, float64(p.Osc2Detune)/12), e.sampleRate)
	v.osc1.wave = p.Osc1Wave
	v.osc2.wave = p.Osc2Wave
	scale := 1.0
	if sum := p.Osc1Level + p.Osc2Level; sum > 1 {
		scale = 1 / sum
	}
	v.osc1.amp = p.Osc1Level * scale
	v.osc2.amp = p.Osc2Level * scale

	v.ampEnv.retrigger()
	v.filtEnv.retrigger()
	// Coefficients must be valid before the first control-rate update.
	v.filter.set(p.FilterCutoff, math.Min(p.FilterRes, maxResonance), e.sampleRate)
}

// NoteOff releases every gated voice holding note.
func (e *Engine) NoteOff(note uint8) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.active && v.gate && v.note == note {
			v.gate = false
		}
	}
}

// AllNotesOff releases every gate. Voices finish their release tails.
func (e *Engine) AllNotesOff() {
	for i := range e.voices {
		e.voices[i].gate = false
	}
}

// Reset silences every voice immediately.
func (e *Engine) Reset() {
	for i := range e.voices {
		e.voices[i].kill()
		e.voices[i].ampEnv.stage = envIdle
		e.voices[i].filtEnv.stage = envIdle
	}
	e.filterCounter = 0
	e.lfo.Reset()
}

func (e *Engine) findVoice() int {
	for i := range e.voices {
		if !e.voices[i].active {
			return i
		}
	}
	oldest := 0
	for i := 1; i < len(e.voices); i++ {
		if e.voices[i].startOrder < e.voices[oldest].startOrder {
			oldest = i
		}
	}
	return oldest
}

// SetParam clamps and stores one parameter. It reports false for an unknown
// id.
func (e *Engine) SetParam(id ParamID, value float64) bool {
	if !e.params.Set(id, value) {
		return false
	}
	if paramSpecs[id].envelope {
		e.applyEnvelopes()
	}
	if id == ParamLFORate || id == ParamLFODepth {
		e.applyLFO()
	}
	return true
}

func (e *Engine) Param(id ParamID) float64 { return e.params.Get(id) }

func (e *Engine) Params() Params { return e.params }

// LoadPreset switches to a factory preset. It reports false for an index
// outside the factory bank.
func (e *Engine) LoadPreset(index int) bool {
	p, ok := Preset(index)
	if !ok {
		return false
	}
	e.params = p
	e.preset = index
	e.applyParams()
	return true
}

// SetPreset installs a complete parameter block.
func (e *Engine) SetPreset(p Params) {
	e.params = p.Sanitized()
	e.applyParams()
}

func (e *Engine) CurrentPreset() int { return e.preset }

func (e *Engine) applyParams() {
	e.applyEnvelopes()
	e.applyLFO()
}

func (e *Engine) applyEnvelopes() {
	p := &e.params
	for i := range e.voices {
		v := &e.voices[i]
		v.ampEnv.set(p.AmpAttack, p.AmpDecay, p.AmpSustain, p.AmpRelease)
		v.filtEnv.set(p.FilterAttack, p.FilterDecay, p.FilterSustain, p.FilterRelease)
	}
}

func (e *Engine) applyLFO() {
	e.lfo.Set(e.params.LFODepth, e.params.LFORate, lfo.WaveTriangle)
}

// Process renders one stereo sample.
func (e *Engine) Process() (float32, float32) {
	mono := e.processMono()
	p := &e.params
	l := mono * (1 - p.Pan) * 0.5 * p.MasterLevel
	r := mono * (1 + p.Pan) * 0.5 * p.MasterLevel
	return float32(l), float32(r)
}

func (e *Engine) processMono() float64 {
	update := e.filterCounter == 0
	e.filterCounter++
	if e.filterCounter >= e.filterInterval {
		e.filterCounter = 0
	}
	lfoMod := e.lfo.Sample(e.sampleRate)
	p := &e.params

	var mix float64
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			continue
		}
		osc := v.osc1.process() + v.osc2.process()
		filtEnv := v.filtEnv.process(v.gate, e.sampleRate)
		vel := float64(v.velocity) / 127
		if update {
			cutoff := p.FilterCutoff +
				(vel-0.5)*p.VelToFilter*velFilterRange +
				filtEnv*p.FilterEnvAmount*envFilterRange +
				lfoMod*lfoFilterRange
			v.filter.set(clamp(cutoff, 20, maxCutoff), math.Min(p.FilterRes, maxResonance), e.sampleRate)
		}
		out := v.filter.process(osc)
		amp := v.ampEnv.process(v.gate, e.sampleRate)
		v.lastEnv = amp

		if !v.gate {
			v.releaseAge++
			if v.releaseAge > e.stuckLimit {
				v.kill()
				e.hadStuck = true
				continue
			}
		} else {
			v.releaseAge = 0
		}
		if !v.gate && amp < silenceFloor {
			v.kill()
			continue
		}
		if math.IsNaN(out) || math.IsInf(out, 0) {
			v.kill()
			e.hadNaN = true
			continue
		}
		velAmp := 1 - p.VelToAmp + vel*p.VelToAmp
		mix += out * amp * velAmp * voiceMix
	}
	return float64(effects.SoftClip(float32(mix * p.Level)))
}

// ActiveCount returns the number of sounding voices, including release tails.
func (e *Engine) ActiveCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

func (e *Engine) Voices() [NumVoices]VoiceInfo {
	var out [NumVoices]VoiceInfo
	for i := range e.voices {
		v := &e.voices[i]
		out[i] = VoiceInfo{
			Active:   v.active,
			Gate:     v.gate,
			Note:     v.note,
			Velocity: v.velocity,
			Env:      float32(v.lastEnv),
		}
	}
	return out
}

// TakeNaN reports and clears the non-finite output flag.
func (e *Engine) TakeNaN() bool {
	v := e.hadNaN
	e.hadNaN = false
	return v
}

// TakeStuckVoice reports and clears the stuck voice flag.
func (e *Engine) TakeStuckVoice() bool {
	v := e.hadStuck
	e.hadStuck = false
	return v
}
