package sampler

import (
	"math"
	"testing"
)

func constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestTriggerNote(t *testing.T) {
	e := New()
	e.Load(2, constant(100, 1), "snare")
	for _, tc := range []struct {
		name    string
		channel uint8
		note    uint8
		ok      bool
	}{
		{"pad 2", DrumChannel, FirstPadNote + 2, true},
		{"empty pad", DrumChannel, FirstPadNote, true},
		{"wrong channel", 0, FirstPadNote + 2, false},
		{"below", DrumChannel, FirstPadNote - 1, false},
		{"above", DrumChannel, LastPadNote + 1, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.TriggerNote(tc.channel, tc.note, 127); got != tc.ok {
				t.Fatalf("TriggerNote = %v, want %v", got, tc.ok)
			}
		})
	}
	if !e.Playing(2) || e.Playing(0) {
		t.Fatalf("playing: pad2=%v pad0=%v", e.Playing(2), e.Playing(0))
	}
}

func TestPlaysToEnd(t *testing.T) {
	e := New()
	e.SetDecay(0, 1)
	e.Load(0, constant(4, 0.5), "x")
	e.Trigger(0, 1)
	for i := 0; i < 4; i++ {
		l, r := e.Process()
		if l != 0.25 || r != 0.25 {
			t.Fatalf("frame %d = (%v,%v), want centered 0.25", i, l, r)
		}
	}
	if e.ActiveCount() != 0 || e.Playing(0) {
		t.Fatalf("voice still active after sample end")
	}
	if l, r := e.Process(); l != 0 || r != 0 {
		t.Fatalf("output after end (%v,%v)", l, r)
	}
}

func TestDecayStopsVoice(t *testing.T) {
	e := New()
	e.SetDecay(0, 0.5)
	e.Load(0, constant(1000, 1), "x")
	e.Trigger(0, 1)
	frames := 0
	for e.Process(); e.Playing(0); e.Process() {
		frames++
		if frames > 100 {
			t.Fatalf("voice never decayed")
		}
	}
	// 0.5^10 < 0.001 <= 0.5^9
	if frames != 9 {
		t.Fatalf("voice stopped after %d further frames, want 9", frames)
	}
}

func TestRetriggerRestarts(t *testing.T) {
	e := New()
	e.SetDecay(0, 1)
	data := []float32{1, 2, 3, 4, 5, 6}
	e.Load(0, data, "ramp")
	e.Trigger(0, 1)
	e.Process()
	e.Process()
	e.Trigger(0, 1)
	l, r := e.Process()
	if l+r != 1 {
		t.Fatalf("retrigger sum = %v, want first sample 1", l+r)
	}
}

func TestPanAndLevel(t *testing.T) {
	e := New()
	e.SetDecay(0, 1)
	e.Load(0, constant(10, 1), "x")
	e.SetPan(0, -1)
	e.SetLevel(0, 0.5)
	e.Trigger(0, 1)
	l, r := e.Process()
	if l != 0.5 || r != 0 {
		t.Fatalf("hard left = (%v,%v), want (0.5,0)", l, r)
	}
	e.SetPan(0, 5)
	if e.Pan(0) != 1 {
		t.Fatalf("pan not clamped: %v", e.Pan(0))
	}
	e.SetMasterLevel(0)
	if l, r := e.Process(); l != 0 || r != 0 {
		t.Fatalf("master 0 output (%v,%v)", l, r)
	}
}

func TestPitchInterpolates(t *testing.T) {
	e := New()
	e.SetDecay(0, 1)
	e.Load(0, []float32{0, 1, 2, 3}, "ramp")
	e.SetPitch(0, 0.5)
	e.Trigger(0, 1)
	want := []float32{0, 0.5, 1, 1.5}
	for i, w := range want {
		l, r := e.Process()
		if l+r != w {
			t.Fatalf("frame %d = %v, want %v", i, l+r, w)
		}
	}
}

func TestKit(t *testing.T) {
	kit := Kit(48000)
	for i, d := range kit {
		if len(d) == 0 {
			t.Fatalf("pad %d empty", i)
		}
		for j, v := range d {
			if math.IsNaN(float64(v)) || v > 1.5 || v < -1.5 {
				t.Fatalf("pad %d sample %d = %v", i, j, v)
			}
		}
	}
	e := New()
	e.LoadKit(48000)
	if e.SampleName(0) != "kick" || e.SampleLength(0) != len(kit[0]) {
		t.Fatalf("kit not loaded: %q %d", e.SampleName(0), e.SampleLength(0))
	}
}

func TestResample(t *testing.T) {
	got := Resample([]float32{0, 1, 2, 3}, 1, 2)
	want := []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	same := []float32{1, 2}
	if out := Resample(same, 44100, 44100); &out[0] != &same[0] {
		t.Fatalf("equal rates copied data")
	}
}
