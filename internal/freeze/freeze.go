// Package freeze renders synth tracks into fixed stereo buffers and plays
// them back in place of the voice engine.
//
// A track moves through Midi, Pending, Rendering and Audio. Pending waits for
// the next pattern loop; Rendering captures exactly one pattern pass; Audio
// loops the captured pass until Unfreeze returns the track to Midi.
package freeze

import "fmt"

const (
	NumSlots  = 3
	NumTracks = 4

	DefaultSlotFrames = 48000 * 32
)

type Status uint8

const (
	Midi Status = iota
	Pending
	Rendering
	Audio
)

func (s Status) String() string {
	switch s {
	case Midi:
		return "midi"
	case Pending:
		return "pending"
	case Rendering:
		return "rendering"
	case Audio:
		return "audio"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

type slot struct {
	left, right []float32
	length      int
	write       int
	playhead    int
	owner       int
	inUse       bool
}

func (s *slot) release() {
	s.length = 0
	s.write = 0
	s.playhead = 0
	s.owner = -1
	s.inUse = false
}

type Option func(*Manager)

// WithSlotFrames sets the per-slot capacity in stereo frames.
func WithSlotFrames(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.frames = n
		}
	}
}

type Manager struct {
	slots  [NumSlots]slot
	status [NumTracks]Status
	slotOf [NumTracks]int
	render int
	frames int
}

// New preallocates every slot buffer.
func New(opts ...Option) *Manager {
	m := &Manager{frames: DefaultSlotFrames, render: -1}
	for _, opt := range opts {
		opt(m)
	}
	for i := range m.slots {
		m.slots[i].left = make([]float32, m.frames)
		m.slots[i].right = make([]float32, m.frames)
		m.slots[i].owner = -1
	}
	for i := range m.slotOf {
		m.slotOf[i] = -1
	}
	return m
}

// RequestFreeze reserves a slot for track and marks it Pending. It fails when
// the track is not in Midi status or every slot is taken.
func (m *Manager) RequestFreeze(track int) bool {
	if track < 0 || track >= NumTracks || m.status[track] != Midi {
		return false
	}
	for i := range m.slots {
		s := &m.slots[i]
		if s.inUse {
			continue
		}
		s.inUse = true
		s.owner = track
		s.length = 0
		s.write = 0
		s.playhead = 0
		m.slotOf[track] = i
		m.status[track] = Pending
		return true
	}
	return false
}

// OnPatternLoop finalizes the track being rendered, then starts rendering the
// lowest-numbered pending track.
func (m *Manager) OnPatternLoop() {
	if m.render >= 0 {
		t := m.render
		s := &m.slots[m.slotOf[t]]
		s.length = s.write
		s.playhead = 0
		m.status[t] = Audio
		m.render = -1
	}
	for t := range m.status {
		if m.status[t] == Pending {
			s := &m.slots[m.slotOf[t]]
			s.write = 0
			m.status[t] = Rendering
			m.render = t
			return
		}
	}
}

// Unfreeze releases the slot of a track in Audio status.
func (m *Manager) Unfreeze(track int) bool {
	if track < 0 || track >= NumTracks || m.status[track] != Audio {
		return false
	}
	m.slots[m.slotOf[track]].release()
	m.slotOf[track] = -1
	m.status[track] = Midi
	return true
}

// WriteRenderSample appends a frame to the active render. Frames past the
// slot capacity are dropped.
func (m *Manager) WriteRenderSample(l, r float32) {
	if m.render < 0 {
		return
	}
	s := &m.slots[m.slotOf[m.render]]
	if s.write >= len(s.left) {
		return
	}
	s.left[s.write] = l
	s.right[s.write] = r
	s.write++
}

// ReadFrozenSample returns the next frame of a track in Audio status and
// advances its playhead, wrapping at the rendered length.
func (m *Manager) ReadFrozenSample(track int) (float32, float32) {
	if track < 0 || track >= NumTracks || m.status[track] != Audio {
		return 0, 0
	}
	s := &m.slots[m.slotOf[track]]
	if s.length == 0 {
		return 0, 0
	}
	l, r := s.left[s.playhead], s.right[s.playhead]
	s.playhead++
	if s.playhead >= s.length {
		s.playhead = 0
	}
	return l, r
}

func (m *Manager) Status(track int) Status {
	if track < 0 || track >= NumTracks {
		return Midi
	}
	return m.status[track]
}

// Slot returns the slot index held by track.
func (m *Manager) Slot(track int) (int, bool) {
	if track < 0 || track >= NumTracks || m.slotOf[track] < 0 {
		return -1, false
	}
	return m.slotOf[track], true
}

func (m *Manager) RenderTarget() (int, bool) {
	return m.render, m.render >= 0
}

func (m *Manager) HasFrozen() bool {
	for _, st := range m.status {
		if st == Audio {
			return true
		}
	}
	return false
}

func (m *Manager) AvailableSlots() int {
	n := 0
	for i := range m.slots {
		if !m.slots[i].inUse {
			n++
		}
	}
	return n
}

// UsedBytes is the memory held by finalized renders.
func (m *Manager) UsedBytes() int {
	n := 0
	for i := range m.slots {
		if m.slots[i].inUse {
			n += m.slots[i].length * 4 * 2
		}
	}
	return n
}

func (m *Manager) SlotLength(slot int) int {
	if slot < 0 || slot >= NumSlots {
		return 0
	}
	return m.slots[slot].length
}

func (m *Manager) SlotFrames() int { return m.frames }

// ResetPlayheads rewinds every frozen track to the start of its render.
func (m *Manager) ResetPlayheads() {
	for i := range m.slots {
		m.slots[i].playhead = 0
	}
}

// Seek places every frozen playhead at frame, wrapped into its render.
func (m *Manager) Seek(frame int) {
	if frame < 0 {
		frame = 0
	}
	for i := range m.slots {
		s := &m.slots[i]
		if s.length > 0 {
			s.playhead = frame % s.length
		} else {
			s.playhead = 0
		}
	}
}

// Frames returns an interleaved stereo copy of a frozen track's render.
func (m *Manager) Frames(track int) []float32 {
	if track < 0 || track >= NumTracks || m.status[track] != Audio {
		return nil
	}
	s := &m.slots[m.slotOf[track]]
	out := make([]float32, s.length*2)
	for i := 0; i < s.length; i++ {
		out[2*i] = s.left[i]
		out[2*i+1] = s.right[i]
	}
	return out
}
