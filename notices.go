package groovebox

import (
	"fmt"

	"github.com/cbegin/groovebox-go/internal/freeze"
	"github.com/cbegin/groovebox-go/internal/midi"
)

// NoticeKind tags a message from the audio context to the control context.
type NoticeKind uint8

const (
	NoticeNone NoticeKind = iota
	// NoticeMIDI is a sequencer playback event, for monitors.
	NoticeMIDI
	// NoticeRejected is a posted command the audio context refused.
	NoticeRejected
	// NoticeNaN means a voice produced a non-finite sample and was reset.
	NoticeNaN
	// NoticeStuckVoice means a released voice exceeded the age ceiling.
	NoticeStuckVoice
	// NoticeLoop marks a pattern loop boundary.
	NoticeLoop
	// NoticeFreeze reports a freeze status change of a synth track.
	NoticeFreeze
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeMIDI:
		return "midi"
	case NoticeRejected:
		return "rejected"
	case NoticeNaN:
		return "nan"
	case NoticeStuckVoice:
		return "stuck-voice"
	case NoticeLoop:
		return "loop"
	case NoticeFreeze:
		return "freeze"
	}
	return "none"
}

type Notice struct {
	Kind    NoticeKind
	Tick    uint32
	Track   int
	Event   midi.Event
	Command Op
	Status  freeze.Status
}

func (n Notice) String() string {
	switch n.Kind {
	case NoticeMIDI:
		return fmt.Sprintf("%s tick=%d track=%d %s", n.Kind, n.Tick, n.Track, n.Event)
	case NoticeRejected:
		return fmt.Sprintf("%s %s", n.Kind, n.Command)
	case NoticeFreeze:
		return fmt.Sprintf("%s track=%d %s", n.Kind, n.Track, n.Status)
	}
	return fmt.Sprintf("%s tick=%d", n.Kind, n.Tick)
}
