package transport

import "testing"

func TestClockStaysStillWhileStopped(t *testing.T) {
	c := New(48000)
	for i := 0; i < 1000; i++ {
		if c.Advance() {
			t.Fatalf("stopped clock reported a tick at sample %d", i)
		}
	}
	if got := c.Tick(); got != 0 {
		t.Fatalf("tick = %d, want 0", got)
	}
}

func TestClockTickRate(t *testing.T) {
	// 9600 Hz at 120 BPM is exactly 50 samples per tick.
	c := New(9600)
	if got := c.SamplesPerTick(); got != 50 {
		t.Fatalf("samples per tick = %v, want 50", got)
	}
	c.Play()
	ticks := 0
	for i := 0; i < 50*10; i++ {
		if c.Advance() {
			ticks++
		}
	}
	if ticks != 10 {
		t.Fatalf("ticks = %d, want 10", ticks)
	}
	if got := c.Tick(); got != 10 {
		t.Fatalf("clock tick = %d, want 10", got)
	}
}

func TestClockWrapsOncePerPattern(t *testing.T) {
	c := New(9600)
	c.SetPatternBars(1)
	c.Play()
	c.TakeStateChanged()

	loops := 0
	samples := 50 * TicksPerBar
	for i := 0; i < samples-1; i++ {
		c.Advance()
		if c.TakePatternLooped() {
			loops++
		}
	}
	if loops != 0 {
		t.Fatalf("looped before pattern end, loops=%d", loops)
	}
	if got := c.Tick(); got != TicksPerBar-1 {
		t.Fatalf("tick = %d, want %d", got, TicksPerBar-1)
	}
	if !c.Advance() {
		t.Fatalf("expected a tick on the wrapping sample")
	}
	if got := c.Tick(); got != 0 {
		t.Fatalf("tick after wrap = %d, want 0", got)
	}
	if !c.TakePatternLooped() {
		t.Fatalf("expected pattern looped flag")
	}
	if c.TakePatternLooped() {
		t.Fatalf("pattern looped flag should clear after read")
	}
	for i := 0; i < samples*2; i++ {
		c.Advance()
		if c.TakePatternLooped() {
			loops++
		}
	}
	if loops != 2 {
		t.Fatalf("loops over two patterns = %d, want 2", loops)
	}
}

func TestClockPosition(t *testing.T) {
	for _, tc := range []struct {
		tick  uint32
		bar   uint16
		beat  uint8
		pulse uint8
	}{
		{0, 1, 1, 0},
		{95, 1, 1, 95},
		{96, 1, 2, 0},
		{383, 1, 4, 95},
		{384, 2, 1, 0},
		{384*3 + 96*2 + 7, 4, 3, 7},
	} {
		p := positionAt(tc.tick)
		if p.Bar != tc.bar || p.Beat != tc.beat || p.Pulse != tc.pulse {
			t.Fatalf("tick %d: got bar=%d beat=%d pulse=%d, want %d/%d/%d",
				tc.tick, p.Bar, p.Beat, p.Pulse, tc.bar, tc.beat, tc.pulse)
		}
	}
}

func TestClockBPMClamp(t *testing.T) {
	c := New(48000)
	c.TakeStateChanged()
	c.SetBPM(10)
	if got := c.BPM(); got != MinBPM {
		t.Fatalf("bpm = %d, want %d", got, MinBPM)
	}
	if !c.TakeStateChanged() {
		t.Fatalf("expected state change on tempo change")
	}
	c.SetBPM(1000)
	if got := c.BPM(); got != MaxBPM {
		t.Fatalf("bpm = %d, want %d", got, MaxBPM)
	}
	c.TakeStateChanged()
	c.SetBPM(MaxBPM)
	if c.TakeStateChanged() {
		t.Fatalf("unchanged tempo should not raise state change")
	}
	c.AdjustBPM(-100)
	if got := c.BPM(); got != MaxBPM-100 {
		t.Fatalf("bpm after adjust = %d, want %d", got, MaxBPM-100)
	}
}

func TestClockStopKeepsPosition(t *testing.T) {
	c := New(9600)
	c.Play()
	for i := 0; i < 50*7; i++ {
		c.Advance()
	}
	c.Stop()
	if got := c.Tick(); got != 7 {
		t.Fatalf("tick after stop = %d, want 7", got)
	}
	c.Play()
	c.StopAndReset()
	if got := c.Tick(); got != 0 {
		t.Fatalf("tick after stop-and-reset = %d, want 0", got)
	}
}

func TestClockToggleRecord(t *testing.T) {
	c := New(9600)
	c.Play()
	for i := 0; i < 50*3; i++ {
		c.Advance()
	}
	c.ToggleRecord()
	if c.State() != Recording {
		t.Fatalf("state = %v, want recording", c.State())
	}
	if got := c.Tick(); got != 3 {
		t.Fatalf("entering record while playing should keep position, tick=%d", got)
	}
	c.ToggleRecord()
	if c.State() != Playing {
		t.Fatalf("state = %v, want playing", c.State())
	}
	c.Stop()
	c.ToggleRecord()
	if c.State() != Recording || c.Tick() != 0 {
		t.Fatalf("record from stopped should rewind, state=%v tick=%d", c.State(), c.Tick())
	}
}

func TestClockPatternBarsWrapsTick(t *testing.T) {
	c := New(9600)
	c.Play()
	for i := 0; i < 50*(TicksPerBar+10); i++ {
		c.Advance()
	}
	c.SetPatternBars(1)
	if got := c.Tick(); got != 10 {
		t.Fatalf("tick after shrinking pattern = %d, want 10", got)
	}
	c.SetPatternBars(99)
	if got := c.PatternBars(); got != MaxBars {
		t.Fatalf("bars = %d, want %d", got, MaxBars)
	}
}
