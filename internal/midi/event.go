// Package midi defines the note and controller events exchanged between the
// engines. Raw status bytes are only decoded at the wire edge.
package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindNoteOn
	KindNoteOff
	KindControlChange
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note-on"
	case KindNoteOff:
		return "note-off"
	case KindControlChange:
		return "control-change"
	default:
		return "none"
	}
}

// Event is a tagged value. Data1 is the note or controller number and Data2
// the velocity or controller value, depending on Kind.
type Event struct {
	Kind    Kind
	Channel uint8
	Data1   uint8
	Data2   uint8
}

func NoteOn(channel, note, velocity uint8) Event {
	return Event{Kind: KindNoteOn, Channel: channel & 0x0F, Data1: note & 0x7F, Data2: velocity & 0x7F}
}

func NoteOff(channel, note uint8) Event {
	return Event{Kind: KindNoteOff, Channel: channel & 0x0F, Data1: note & 0x7F}
}

func ControlChange(channel, controller, value uint8) Event {
	return Event{Kind: KindControlChange, Channel: channel & 0x0F, Data1: controller & 0x7F, Data2: value & 0x7F}
}

func (e Event) Note() uint8       { return e.Data1 }
func (e Event) Velocity() uint8   { return e.Data2 }
func (e Event) Controller() uint8 { return e.Data1 }
func (e Event) Value() uint8      { return e.Data2 }

// IsNoteStart reports a note-on with non-zero velocity.
func (e Event) IsNoteStart() bool { return e.Kind == KindNoteOn && e.Data2 > 0 }

// IsNoteEnd reports a note-off or a zero-velocity note-on.
func (e Event) IsNoteEnd() bool {
	return e.Kind == KindNoteOff || (e.Kind == KindNoteOn && e.Data2 == 0)
}

// Status returns the legacy status byte (type nibble | channel).
func (e Event) Status() uint8 {
	switch e.Kind {
	case KindNoteOn:
		return 0x90 | e.Channel
	case KindNoteOff:
		return 0x80 | e.Channel
	case KindControlChange:
		return 0xB0 | e.Channel
	}
	return 0
}

// Message encodes the event for the wire. It allocates, so the audio path
// must not call it.
func (e Event) Message() gomidi.Message {
	switch e.Kind {
	case KindNoteOn:
		return gomidi.NoteOn(e.Channel, e.Data1, e.Data2)
	case KindNoteOff:
		return gomidi.NoteOff(e.Channel, e.Data1)
	case KindControlChange:
		return gomidi.ControlChange(e.Channel, e.Data1, e.Data2)
	}
	return nil
}

func (e Event) String() string {
	if e.Kind == KindNone {
		return "none"
	}
	return fmt.Sprintf("%s ch=%d %d %d", e.Kind, e.Channel, e.Data1, e.Data2)
}

// Decode parses a raw channel message. A note-on with zero velocity decodes
// as a note-off. Anything other than note and controller messages is
// rejected.
func Decode(raw []byte) (Event, bool) {
	if len(raw) < 3 {
		return Event{}, false
	}
	msg := gomidi.Message(raw[:3])
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return NoteOn(ch, key, vel), true
	case msg.GetNoteEnd(&ch, &key):
		return NoteOff(ch, key), true
	case msg.GetControlChange(&ch, &key, &vel):
		return ControlChange(ch, key, vel), true
	}
	return Event{}, false
}

// FromBytes builds an event from a status byte and two data bytes without
// touching the heap. It mirrors Decode for the audio path.
func FromBytes(status, data1, data2 uint8) (Event, bool) {
	ch := status & 0x0F
	switch status & 0xF0 {
	case 0x90:
		if data2 == 0 {
			return NoteOff(ch, data1), true
		}
		return NoteOn(ch, data1, data2), true
	case 0x80:
		return NoteOff(ch, data1), true
	case 0xB0:
		return ControlChange(ch, data1, data2), true
	}
	return Event{}, false
}
