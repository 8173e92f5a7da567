package groovebox

import (
	"github.com/cbegin/groovebox-go/internal/automation"
	"github.com/cbegin/groovebox-go/internal/freeze"
	"github.com/cbegin/groovebox-go/internal/sequencer"
	"github.com/cbegin/groovebox-go/internal/synth"
	"github.com/cbegin/groovebox-go/internal/transport"
)

// Snapshot is a copy of the core state published by the audio context at
// the end of every block.
type Snapshot struct {
	Position    transport.Position
	State       transport.State
	BPM         int
	PatternBars int

	Voices      [synth.NumVoices]synth.VoiceInfo
	SynthActive int
	DrumActive  int
	Preset      int

	TrackEvents      [sequencer.NumTracks]int
	AutomationPoints [automation.NumTracks]int
	Overdub          bool
	Blend            bool

	Freeze      [freeze.NumTracks]freeze.Status
	FreeSlots   int
	FrozenBytes int

	Frames int64
}

// EventCount is the total number of sequenced events.
func (s Snapshot) EventCount() int {
	n := 0
	for _, c := range s.TrackEvents {
		n += c
	}
	return n
}

func (s Snapshot) AutomationCount() int {
	n := 0
	for _, c := range s.AutomationPoints {
		n += c
	}
	return n
}
