// Package transport implements the musical clock shared by every engine.
// The clock advances once per audio sample and reports elapsed ticks,
// state changes and pattern loops through edge-triggered flags.
package transport

const (
	PPQN        = 96
	BeatsPerBar = 4
	TicksPerBar = PPQN * BeatsPerBar

	DefaultBPM  = 120
	MinBPM      = 30
	MaxBPM      = 300
	DefaultBars = 4
	MaxBars     = 16
)

type State int

const (
	Stopped State = iota
	Playing
	Recording
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Recording:
		return "recording"
	default:
		return "stopped"
	}
}

// Position is derived from the current tick within the pattern.
type Position struct {
	Tick  uint32
	Bar   uint16 // 1-based
	Beat  uint8  // 1-based
	Pulse uint8  // 0..PPQN-1
}

func positionAt(tick uint32) Position {
	return Position{
		Tick:  tick,
		Bar:   uint16(tick/TicksPerBar) + 1,
		Beat:  uint8((tick%TicksPerBar)/PPQN) + 1,
		Pulse: uint8(tick % PPQN),
	}
}

type Clock struct {
	sampleRate     float64
	state          State
	bpm            int
	bars           int
	tick           uint32
	acc            float64
	samplesPerTick float64
	stateChanged   bool
	looped         bool
}

func New(sampleRate int) *Clock {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	c := &Clock{
		sampleRate: float64(sampleRate),
		bpm:        DefaultBPM,
		bars:       DefaultBars,
	}
	c.updateSamplesPerTick()
	return c
}

func (c *Clock) updateSamplesPerTick() {
	ticksPerSecond := float64(c.bpm) * PPQN / 60.0
	c.samplesPerTick = c.sampleRate / ticksPerSecond
}

func (c *Clock) setState(s State) {
	if c.state != s {
		c.state = s
		c.stateChanged = true
	}
}

func (c *Clock) Play() { c.setState(Playing) }

// Stop halts the clock and keeps the current position.
func (c *Clock) Stop() { c.setState(Stopped) }

// StopAndReset halts the clock and rewinds to the pattern start.
func (c *Clock) StopAndReset() {
	c.setState(Stopped)
	c.tick = 0
	c.acc = 0
}

// Record enters Recording. Starting from Stopped rewinds to the pattern start.
func (c *Clock) Record() {
	if c.state == Stopped {
		c.tick = 0
		c.acc = 0
	}
	c.setState(Recording)
}

// ToggleRecord leaves Recording for Playing, otherwise enters Recording.
func (c *Clock) ToggleRecord() {
	if c.state == Recording {
		c.setState(Playing)
		return
	}
	c.Record()
}

// SetBPM clamps bpm to [MinBPM, MaxBPM].
func (c *Clock) SetBPM(bpm int) {
	bpm = clampInt(bpm, MinBPM, MaxBPM)
	if bpm == c.bpm {
		return
	}
	c.bpm = bpm
	c.updateSamplesPerTick()
	c.stateChanged = true
}

func (c *Clock) AdjustBPM(delta int) { c.SetBPM(c.bpm + delta) }

// SetPatternBars clamps bars to [1, MaxBars] and wraps the current tick into
// the new pattern length.
func (c *Clock) SetPatternBars(bars int) {
	bars = clampInt(bars, 1, MaxBars)
	if bars == c.bars {
		return
	}
	c.bars = bars
	if c.tick >= c.PatternTicks() {
		c.tick %= c.PatternTicks()
	}
	c.stateChanged = true
}

// Advance moves the clock forward by one sample and reports whether a tick
// elapsed. It is a no-op while stopped.
func (c *Clock) Advance() bool {
	if c.state == Stopped {
		return false
	}
	c.acc++
	if c.acc < c.samplesPerTick {
		return false
	}
	c.acc -= c.samplesPerTick
	c.tick++
	if c.tick >= c.PatternTicks() {
		c.tick = 0
		c.looped = true
	}
	return true
}

// TakeStateChanged reports and clears the state-changed flag.
func (c *Clock) TakeStateChanged() bool {
	v := c.stateChanged
	c.stateChanged = false
	return v
}

// TakePatternLooped reports and clears the pattern-looped flag.
func (c *Clock) TakePatternLooped() bool {
	v := c.looped
	c.looped = false
	return v
}

func (c *Clock) Position() Position      { return positionAt(c.tick) }
func (c *Clock) Tick() uint32            { return c.tick }
func (c *Clock) State() State            { return c.state }
func (c *Clock) Running() bool           { return c.state != Stopped }
func (c *Clock) Recording() bool         { return c.state == Recording }
func (c *Clock) BPM() int                { return c.bpm }
func (c *Clock) PatternBars() int        { return c.bars }
func (c *Clock) PatternTicks() uint32    { return uint32(c.bars) * TicksPerBar }
func (c *Clock) SamplesPerTick() float64 { return c.samplesPerTick }

// OnBeat reports whether the current tick is the first pulse of a beat.
func (c *Clock) OnBeat() bool { return c.tick%PPQN == 0 }

// OnBar reports whether the current tick is the first pulse of a bar.
func (c *Clock) OnBar() bool { return c.tick%TicksPerBar == 0 }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
