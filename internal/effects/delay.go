package effects

const maxDelaySeconds = 2

// Delay is a stereo delay with feedback and cross-channel bleed. When built
// with NewSyncedDelay the delay time follows the transport tempo.
type Delay struct {
	bufL, bufR []float32
	write      int
	length     int
	sampleRate int
	division   float64 // fraction of a whole note, 0 when free running
	feedback   float32
	cross      float32
	wet        float32
}

// NewDelay builds a free-running delay. feedback is capped at 0.95.
func NewDelay(sampleRate int, delayMs float64, feedback, cross, wet float32) *Delay {
	size := sampleRate * maxDelaySeconds
	if size < 2 {
		size = 2
	}
	d := &Delay{
		bufL:       make([]float32, size),
		bufR:       make([]float32, size),
		sampleRate: sampleRate,
		feedback:   clamp(feedback, 0, 0.95),
		cross:      clamp(cross, 0, 1),
		wet:        clamp(wet, 0, 1),
	}
	d.SetTime(delayMs)
	return d
}

// NewSyncedDelay builds a delay whose time is division of a whole note at the
// given tempo, e.g. 0.125 for eighth notes.
func NewSyncedDelay(sampleRate int, division, bpm float64, feedback, cross, wet float32) *Delay {
	d := NewDelay(sampleRate, 0, feedback, cross, wet)
	d.division = division
	d.SetTempo(bpm)
	return d
}

// SetTime sets the delay in milliseconds, limited to the buffer length.
func (d *Delay) SetTime(ms float64) {
	n := int(ms * float64(d.sampleRate) / 1000)
	if n < 1 {
		n = 1
	}
	if n > len(d.bufL)-1 {
		n = len(d.bufL) - 1
	}
	d.length = n
}

func (d *Delay) SetTempo(bpm float64) {
	if d.division <= 0 || bpm <= 0 {
		return
	}
	d.SetTime(d.division * 4 * 60000 / bpm)
}

// Samples is the current delay length.
func (d *Delay) Samples() int { return d.length }

func (d *Delay) Process(l, r float32) (float32, float32) {
	read := d.write - d.length
	if read < 0 {
		read += len(d.bufL)
	}
	delL, delR := d.bufL[read], d.bufR[read]
	keep := d.feedback * (1 - d.cross)
	bleed := d.feedback * d.cross
	d.bufL[d.write] = l + delL*keep + delR*bleed
	d.bufR[d.write] = r + delR*keep + delL*bleed
	d.write++
	if d.write >= len(d.bufL) {
		d.write = 0
	}
	return l*(1-d.wet) + delL*d.wet, r*(1-d.wet) + delR*d.wet
}

func (d *Delay) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.write = 0
}
