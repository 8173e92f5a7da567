// Package sampler plays one-shot drum samples on eight pads.
package sampler

const (
	NumPads      = 8
	FirstPadNote = 36
	LastPadNote  = 43
	DrumChannel  = 9
	DefaultDecay = 0.9999
	silenceFloor = 0.001
	maxPitch     = 4
	minPitch     = 0.25
)

type sample struct {
	data []float32
	name string
}

type voice struct {
	pos       float64
	amplitude float32
	velocity  float32
	decay     float32
	pitch     float32
	level     float32
	pan       float32
	playing   bool
}

type Engine struct {
	voices  [NumPads]voice
	samples [NumPads]sample
	master  float32
	active  int
}

func New() *Engine {
	e := &Engine{master: 1}
	for i := range e.voices {
		e.voices[i] = voice{decay: DefaultDecay, pitch: 1, level: 1}
	}
	return e
}

// Load assigns sample data to a pad. The slice is referenced, not copied.
func (e *Engine) Load(pad int, data []float32, name string) bool {
	if pad < 0 || pad >= NumPads {
		return false
	}
	e.voices[pad].playing = false
	e.samples[pad] = sample{data: data, name: name}
	return true
}

func (e *Engine) SampleName(pad int) string {
	if pad < 0 || pad >= NumPads {
		return ""
	}
	return e.samples[pad].name
}

func (e *Engine) SampleLength(pad int) int {
	if pad < 0 || pad >= NumPads {
		return 0
	}
	return len(e.samples[pad].data)
}

// Trigger restarts a pad from the top of its sample.
func (e *Engine) Trigger(pad int, velocity float32) {
	if pad < 0 || pad >= NumPads || len(e.samples[pad].data) == 0 {
		return
	}
	v := &e.voices[pad]
	v.pos = 0
	v.amplitude = 1
	v.velocity = clamp(velocity, 0, 1)
	v.playing = true
}

// TriggerNote handles a note on the drum channel and reports whether the note
// addressed a pad.
func (e *Engine) TriggerNote(channel, note, velocity uint8) bool {
	if channel != DrumChannel || note < FirstPadNote || note > LastPadNote {
		return false
	}
	e.Trigger(int(note-FirstPadNote), float32(velocity)/127)
	return true
}

func (e *Engine) Process() (float32, float32) {
	var left, right float32
	active := 0
	for i := range e.voices {
		v := &e.voices[i]
		if !v.playing {
			continue
		}
		data := e.samples[i].data
		idx := int(v.pos)
		var out float32
		if idx < len(data) {
			out = data[idx]
			if idx+1 < len(data) {
				frac := float32(v.pos - float64(idx))
				out += frac * (data[idx+1] - out)
			}
		}
		out *= v.amplitude * v.level * v.velocity
		v.pos += float64(v.pitch)
		v.amplitude *= v.decay
		if int(v.pos) >= len(data) || v.amplitude < silenceFloor {
			v.playing = false
		} else {
			active++
		}
		left += out * (1 - v.pan) * 0.5
		right += out * (1 + v.pan) * 0.5
	}
	e.active = active
	return left * e.master, right * e.master
}

// ActiveCount is the number of pads still sounding after the last Process.
func (e *Engine) ActiveCount() int { return e.active }

func (e *Engine) Playing(pad int) bool {
	return pad >= 0 && pad < NumPads && e.voices[pad].playing
}

func (e *Engine) Level(pad int) float32 {
	if pad < 0 || pad >= NumPads {
		return 1
	}
	return e.voices[pad].level
}

func (e *Engine) SetLevel(pad int, level float32) {
	if pad >= 0 && pad < NumPads {
		e.voices[pad].level = clamp(level, 0, 1)
	}
}

func (e *Engine) Pan(pad int) float32 {
	if pad < 0 || pad >= NumPads {
		return 0
	}
	return e.voices[pad].pan
}

func (e *Engine) SetPan(pad int, pan float32) {
	if pad >= 0 && pad < NumPads {
		e.voices[pad].pan = clamp(pan, -1, 1)
	}
}

// SetDecay sets the per-sample amplitude multiplier of a pad.
func (e *Engine) SetDecay(pad int, decay float32) {
	if pad >= 0 && pad < NumPads {
		e.voices[pad].decay = clamp(decay, 0, 1)
	}
}

// SetPitch sets the playback rate of a pad, 1 being the recorded pitch.
func (e *Engine) SetPitch(pad int, pitch float32) {
	if pad >= 0 && pad < NumPads {
		e.voices[pad].pitch = clamp(pitch, minPitch, maxPitch)
	}
}

func (e *Engine) MasterLevel() float32 { return e.master }

func (e *Engine) SetMasterLevel(level float32) { e.master = clamp(level, 0, 1) }

// Stop silences every pad.
func (e *Engine) Stop() {
	for i := range e.voices {
		e.voices[i].playing = false
	}
	e.active = 0
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
