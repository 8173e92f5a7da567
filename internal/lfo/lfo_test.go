package lfo

import (
	"math"
	"testing"
)

func TestLFOSineShape(t *testing.T) {
	var l LFO
	l.Set(1, 1, WaveSine)
	sr := 100.0
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = l.Sample(sr)
	}
	for _, tc := range []struct {
		idx  int
		want float64
	}{
		{0, 0}, {25, 1}, {50, 0}, {75, -1},
	} {
		if math.Abs(samples[tc.idx]-tc.want) > 0.01 {
			t.Errorf("sine sample %d = %f, want %f", tc.idx, samples[tc.idx], tc.want)
		}
	}
}

func TestLFOTriangleShape(t *testing.T) {
	var l LFO
	l.Set(1, 1, WaveTriangle)
	sr := 100.0
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = l.Sample(sr)
	}
	if math.Abs(samples[0]+1) > 0.05 {
		t.Errorf("triangle at phase 0: got %f, want -1", samples[0])
	}
	if math.Abs(samples[25]) > 0.05 {
		t.Errorf("triangle at phase 0.25: got %f, want 0", samples[25])
	}
	if math.Abs(samples[50]-1) > 0.05 {
		t.Errorf("triangle at phase 0.5: got %f, want 1", samples[50])
	}
}

func TestLFOSquareScalesByDepth(t *testing.T) {
	var l LFO
	l.Set(2, 1, WaveSquare)
	sr := 8.0
	if v := l.Sample(sr); math.Abs(v-2) > 1e-9 {
		t.Errorf("square first half: got %f, want 2", v)
	}
	for i := 1; i < 4; i++ {
		l.Sample(sr)
	}
	if v := l.Sample(sr); math.Abs(v+2) > 1e-9 {
		t.Errorf("square second half: got %f, want -2", v)
	}
}

func TestLFOZeroDepthOrRate(t *testing.T) {
	var l LFO
	l.Set(0, 5, WaveSine)
	for i := 0; i < 100; i++ {
		if v := l.Sample(44100); v != 0 {
			t.Fatalf("zero depth should return 0, got %f", v)
		}
	}
	l.Set(1, 0, WaveSine)
	if v := l.Sample(44100); v != 0 {
		t.Fatalf("zero rate should return 0, got %f", v)
	}
	if l.Active() {
		t.Fatalf("zero rate LFO should not be active")
	}
}

func TestLFORandomHoldsPerCycle(t *testing.T) {
	var l LFO
	l.Set(1, 1, WaveRandom)
	sr := 8.0
	for i := 0; i < 8; i++ {
		l.Sample(sr)
	}
	// One cycle in: the held value must stay constant for the next cycle.
	first := l.Sample(sr)
	if first == 0 {
		t.Fatalf("expected a fresh held value after the first cycle")
	}
	for i := 0; i < 6; i++ {
		if v := l.Sample(sr); v != first {
			t.Fatalf("random value changed within a cycle at %d: %f != %f", i, v, first)
		}
	}
	for i := 0; i < 1000; i++ {
		if v := l.Sample(sr); math.Abs(v) > 1 {
			t.Fatalf("random sample exceeds depth: %f", v)
		}
	}
}

func TestLFOUnknownWaveformFallsBackToSine(t *testing.T) {
	var l LFO
	l.Set(1, 1, Waveform(42))
	l.Sample(4)
	if v := l.Sample(4); math.Abs(v-1) > 1e-9 {
		t.Fatalf("quarter cycle of fallback sine = %f, want 1", v)
	}
}
