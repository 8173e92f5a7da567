package ccmap

import (
	"math"
	"testing"

	"github.com/cbegin/groovebox-go/internal/synth"
)

type synthWrite struct {
	id    synth.ParamID
	value float64
}

type fakeSynth struct {
	writes []synthWrite
}

func (f *fakeSynth) SetParam(id synth.ParamID, value float64) bool {
	f.writes = append(f.writes, synthWrite{id, value})
	return true
}

type fakeDrums struct {
	pad   int
	level float32
	calls int
}

func (f *fakeDrums) SetLevel(pad int, level float32) {
	f.pad, f.level = pad, level
	f.calls++
}

func TestApplySynth(t *testing.T) {
	for _, tc := range []struct {
		name  string
		cc    uint8
		value uint8
		id    synth.ParamID
		want  float64
	}{
		{"cutoff min", Cutoff, 0, synth.ParamFilterCutoff, 20},
		{"cutoff max", Cutoff, 127, synth.ParamFilterCutoff, 20000},
		{"resonance", Resonance, 127, synth.ParamFilterRes, 1},
		{"attack min", AmpAttack, 0, synth.ParamAmpAttack, 0.001},
		{"release max", AmpRelease, 127, synth.ParamAmpRelease, 5},
		{"sustain", AmpSustain, 0, synth.ParamAmpSustain, 0},
		{"wave saw", Osc1Wave, 64, synth.ParamOsc1Wave, float64(synth.WaveSaw)},
		{"wave top", Osc2Wave, 127, synth.ParamOsc2Wave, float64(synth.WaveSquare)},
		{"pan center", Pan, 64, synth.ParamPan, 0},
		{"pan left", Pan, 0, synth.ParamPan, -1},
		{"detune down", DetuneCC, 0, synth.ParamOsc2Detune, -24},
		{"lfo depth", LFODepth, 127, synth.ParamLFODepth, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &fakeSynth{}
			m := New(s, nil)
			if !m.Apply(tc.cc, tc.value) {
				t.Fatalf("Apply(%d) rejected", tc.cc)
			}
			if len(s.writes) != 1 {
				t.Fatalf("writes = %d, want 1", len(s.writes))
			}
			w := s.writes[0]
			if w.id != tc.id || math.Abs(w.value-tc.want) > 1e-9*math.Max(1, tc.want) {
				t.Fatalf("write = %v %v, want %v %v", w.id, w.value, tc.id, tc.want)
			}
		})
	}
}

func TestApplyDrumLevel(t *testing.T) {
	d := &fakeDrums{}
	m := New(&fakeSynth{}, d)
	if !m.Apply(Drum1Level+2, 127) {
		t.Fatalf("drum level rejected")
	}
	if d.pad != 2 || d.level != 1 {
		t.Fatalf("drum write pad=%d level=%v", d.pad, d.level)
	}
}

func TestUnmapped(t *testing.T) {
	s := &fakeSynth{}
	d := &fakeDrums{}
	m := New(s, d)
	for _, cc := range []uint8{0, 1, 64, 84, 127, 200} {
		if m.Apply(cc, 10) {
			t.Fatalf("Apply(%d) accepted", cc)
		}
	}
	if len(s.writes) != 0 || d.calls != 0 {
		t.Fatalf("unmapped controllers wrote parameters")
	}
}

func TestSynthParam(t *testing.T) {
	if id, ok := SynthParam(Cutoff); !ok || id != synth.ParamFilterCutoff {
		t.Fatalf("SynthParam(cutoff) = %v,%v", id, ok)
	}
	if _, ok := SynthParam(Drum1Level); ok {
		t.Fatalf("drum controller reported as synth parameter")
	}
}

func TestConversionsMonotonic(t *testing.T) {
	for v := 1; v < 128; v++ {
		if Freq(uint8(v)) <= Freq(uint8(v-1)) || Time(uint8(v)) <= Time(uint8(v-1)) {
			t.Fatalf("conversion not increasing at %d", v)
		}
	}
}
