// Package sequencer records note events against the pattern clock and plays
// them back tick by tick.
package sequencer

import "github.com/cbegin/groovebox-go/internal/midi"

const (
	MaxEventsPerTrack = 512

	NumDrumTracks  = 8
	NumSynthTracks = 4
	NumTracks      = NumDrumTracks + NumSynthTracks

	DrumChannel  = 9
	SynthChannel = 0
	FirstPadNote = 36
	LastPadNote  = FirstPadNote + NumDrumTracks - 1
)

// Stamped is an event placed on the pattern timeline.
type Stamped struct {
	Tick  uint32
	Event midi.Event
}

// Handler receives playback events together with the track they came from.
type Handler func(track int, ev midi.Event)

type track struct {
	events [MaxEventsPerTrack]Stamped
	count  int
	cursor int
}

func (t *track) clear() {
	t.count = 0
	t.cursor = 0
}

type Sequencer struct {
	tracks   [NumTracks]track
	overdub  bool
	lastTick uint32
	handler  Handler
	// firstNoteInPass is set by StartRecordPass and cleared by the first
	// note start recorded in replace mode.
	firstNoteInPass bool
}

func New() *Sequencer {
	return &Sequencer{overdub: true}
}

// SetHandler installs the playback callback. It runs on the audio path.
func (s *Sequencer) SetHandler(h Handler) { s.handler = h }

// Route returns the track an event belongs to. Drum pads on the drum channel
// map to tracks 0..7, synth notes on the synth channel spread over the synth
// tracks by note number.
func Route(ev midi.Event) (int, bool) {
	if ev.Kind != midi.KindNoteOn && ev.Kind != midi.KindNoteOff {
		return 0, false
	}
	switch ev.Channel {
	case DrumChannel:
		if ev.Note() < FirstPadNote || ev.Note() > LastPadNote {
			return 0, false
		}
		return int(ev.Note() - FirstPadNote), true
	case SynthChannel:
		return NumDrumTracks + int(ev.Note()%NumSynthTracks), true
	}
	return 0, false
}

// IsSynthTrack reports whether idx addresses one of the synth tracks.
func IsSynthTrack(idx int) bool {
	return idx >= NumDrumTracks && idx < NumTracks
}

// Record inserts ev at tick, keeping the track sorted. Events that route
// nowhere are ignored and a full track drops the event.
func (s *Sequencer) Record(tick uint32, ev midi.Event) {
	idx, ok := Route(ev)
	if !ok {
		return
	}
	t := &s.tracks[idx]
	if !s.overdub && s.firstNoteInPass && ev.IsNoteStart() {
		t.clear()
		s.firstNoteInPass = false
	}
	if t.count >= MaxEventsPerTrack {
		return
	}
	pos := t.count
	for i := 0; i < t.count; i++ {
		if t.events[i].Tick > tick {
			pos = i
			break
		}
	}
	copy(t.events[pos+1:t.count+1], t.events[pos:t.count])
	t.events[pos] = Stamped{Tick: tick, Event: ev}
	t.count++
	if pos < t.cursor {
		t.cursor++
	}
}

// Process dispatches every event stamped exactly at tick. A tick lower than
// the previous one means the pattern wrapped and rewinds all cursors.
func (s *Sequencer) Process(tick uint32) {
	if tick < s.lastTick {
		s.ResetPlayback()
	}
	s.lastTick = tick
	for idx := range s.tracks {
		t := &s.tracks[idx]
		for t.cursor < t.count {
			st := &t.events[t.cursor]
			if st.Tick > tick {
				break
			}
			if st.Tick == tick && s.handler != nil && playable(idx, st.Event) {
				s.handler(idx, st.Event)
			}
			t.cursor++
		}
	}
}

// Drum tracks only fire note starts; the sampler ignores releases.
func playable(idx int, ev midi.Event) bool {
	if idx < NumDrumTracks {
		return ev.IsNoteStart()
	}
	return ev.Kind == midi.KindNoteOn || ev.Kind == midi.KindNoteOff
}

func (s *Sequencer) ResetPlayback() {
	for i := range s.tracks {
		s.tracks[i].cursor = 0
	}
	s.lastTick = 0
}

// StartRecordPass arms replace mode: the first note start recorded during
// the pass clears its target track. Later notes layer, on any track.
func (s *Sequencer) StartRecordPass() { s.firstNoteInPass = true }

func (s *Sequencer) SetOverdub(on bool) { s.overdub = on }
func (s *Sequencer) Overdub() bool      { return s.overdub }

func (s *Sequencer) Clear() {
	for i := range s.tracks {
		s.tracks[i].clear()
	}
}

func (s *Sequencer) ClearTrack(idx int) bool {
	if idx < 0 || idx >= NumTracks {
		return false
	}
	s.tracks[idx].clear()
	return true
}

func (s *Sequencer) TrackEventCount(idx int) int {
	if idx < 0 || idx >= NumTracks {
		return 0
	}
	return s.tracks[idx].count
}

func (s *Sequencer) EventCount() int {
	return s.countRange(0, NumTracks)
}

func (s *Sequencer) DrumEventCount() int {
	return s.countRange(0, NumDrumTracks)
}

func (s *Sequencer) SynthEventCount() int {
	return s.countRange(NumDrumTracks, NumTracks)
}

func (s *Sequencer) countRange(from, to int) int {
	n := 0
	for i := from; i < to; i++ {
		n += s.tracks[i].count
	}
	return n
}

// Events returns a copy of a track's events.
func (s *Sequencer) Events(idx int) []Stamped {
	if idx < 0 || idx >= NumTracks {
		return nil
	}
	t := &s.tracks[idx]
	out := make([]Stamped, t.count)
	copy(out, t.events[:t.count])
	return out
}
