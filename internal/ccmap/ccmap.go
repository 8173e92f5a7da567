// Package ccmap turns raw controller numbers into engine parameter writes.
package ccmap

import (
	"math"

	"github.com/cbegin/groovebox-go/internal/synth"
)

const (
	Cutoff      = 74
	Resonance   = 71
	Osc1Wave    = 76
	Osc2Wave    = 77
	AmpAttack   = 93
	AmpDecay    = 18
	AmpSustain  = 19
	AmpRelease  = 16
	Osc1Level   = 73
	Osc2Level   = 75
	FilterEnv   = 79
	LFODepth    = 72
	SynthLevel  = 85
	Pan         = 10
	Drum1Level  = 80
	Drum4Level  = 83
	DetuneCC    = 94
	SynthMaster = 7
)

// SynthTarget receives synth parameter writes.
type SynthTarget interface {
	SetParam(id synth.ParamID, value float64) bool
}

// DrumTarget receives per-pad level writes.
type DrumTarget interface {
	SetLevel(pad int, level float32)
}

type kind uint8

const (
	kindNone kind = iota
	kindSynth
	kindDrumLevel
)

type conv uint8

const (
	convNorm conv = iota
	convFreq
	convTime
	convWave
	convSemitones
	convPan
)

type target struct {
	kind  kind
	param synth.ParamID
	pad   int
	conv  conv
}

var table [128]target

func init() {
	syn := func(cc uint8, id synth.ParamID, c conv) {
		table[cc] = target{kind: kindSynth, param: id, conv: c}
	}
	syn(Cutoff, synth.ParamFilterCutoff, convFreq)
	syn(Resonance, synth.ParamFilterRes, convNorm)
	syn(Osc1Wave, synth.ParamOsc1Wave, convWave)
	syn(Osc2Wave, synth.ParamOsc2Wave, convWave)
	syn(AmpAttack, synth.ParamAmpAttack, convTime)
	syn(AmpDecay, synth.ParamAmpDecay, convTime)
	syn(AmpSustain, synth.ParamAmpSustain, convNorm)
	syn(AmpRelease, synth.ParamAmpRelease, convTime)
	syn(Osc1Level, synth.ParamOsc1Level, convNorm)
	syn(Osc2Level, synth.ParamOsc2Level, convNorm)
	syn(FilterEnv, synth.ParamFilterEnvAmount, convNorm)
	syn(LFODepth, synth.ParamLFODepth, convNorm)
	syn(SynthLevel, synth.ParamLevel, convNorm)
	syn(Pan, synth.ParamPan, convPan)
	syn(DetuneCC, synth.ParamOsc2Detune, convSemitones)
	syn(SynthMaster, synth.ParamMasterLevel, convNorm)
	for cc := Drum1Level; cc <= Drum4Level; cc++ {
		table[cc] = target{kind: kindDrumLevel, pad: cc - Drum1Level, conv: convNorm}
	}
}

// Mapped reports whether cc drives a parameter.
func Mapped(cc uint8) bool {
	return cc < 128 && table[cc].kind != kindNone
}

// SynthParam returns the synth parameter driven by cc, if any.
func SynthParam(cc uint8) (synth.ParamID, bool) {
	if cc >= 128 || table[cc].kind != kindSynth {
		return 0, false
	}
	return table[cc].param, true
}

type Map struct {
	synth SynthTarget
	drums DrumTarget
}

func New(s SynthTarget, d DrumTarget) *Map {
	return &Map{synth: s, drums: d}
}

// Apply writes the parameter mapped to cc. It reports false for unmapped
// controllers.
func (m *Map) Apply(cc, value uint8) bool {
	if !Mapped(cc) {
		return false
	}
	t := table[cc]
	switch t.kind {
	case kindSynth:
		if m.synth == nil {
			return false
		}
		return m.synth.SetParam(t.param, convert(t.conv, value))
	case kindDrumLevel:
		if m.drums == nil {
			return false
		}
		m.drums.SetLevel(t.pad, float32(Norm(value)))
		return true
	}
	return false
}

func convert(c conv, value uint8) float64 {
	switch c {
	case convFreq:
		return Freq(value)
	case convTime:
		return Time(value)
	case convWave:
		return Wave(value)
	case convSemitones:
		return Semitones(value)
	case convPan:
		return PanValue(value)
	}
	return Norm(value)
}

// Norm maps 0..127 onto 0..1.
func Norm(v uint8) float64 {
	if v > 127 {
		v = 127
	}
	return float64(v) / 127
}

// Freq maps a controller value logarithmically onto 20 Hz..20 kHz.
func Freq(v uint8) float64 {
	return 20 * math.Pow(1000, Norm(v))
}

// Time maps a controller value logarithmically onto 1 ms..5 s.
func Time(v uint8) float64 {
	return 0.001 * math.Pow(5000, Norm(v))
}

// Wave splits the controller range into four equal zones.
func Wave(v uint8) float64 {
	if v > 127 {
		v = 127
	}
	return float64(int(v) * int(synth.NumWaves) / 128)
}

// Semitones maps the controller onto -24..+24 around 64.
func Semitones(v uint8) float64 {
	if v > 127 {
		v = 127
	}
	return math.Round(float64(int(v)-64) * 24 / 64)
}

// PanValue maps the controller onto -1..1 with 64 as center.
func PanValue(v uint8) float64 {
	if v > 127 {
		v = 127
	}
	p := float64(int(v)-64) / 64
	if p > 1 {
		p = 1
	}
	return p
}
