// Package effects holds the master-bus processors of the groovebox.
package effects

// Effector processes one stereo frame.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// TempoSynced is implemented by effects whose timing follows the transport.
type TempoSynced interface {
	SetTempo(bpm float64)
}

// Chain applies a sequence of effects in order. It is assembled before
// playback starts and never grows while processing.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int { return len(c.effects) }

// SetTempo forwards a tempo change to every tempo-synced effect.
func (c *Chain) SetTempo(bpm float64) {
	for _, e := range c.effects {
		if ts, ok := e.(TempoSynced); ok {
			ts.SetTempo(bpm)
		}
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
