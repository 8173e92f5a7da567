package groovebox

import (
	"fmt"

	"github.com/cbegin/groovebox-go/internal/midi"
	"github.com/cbegin/groovebox-go/internal/synth"
)

// Op names a command for the audio context.
type Op uint8

const (
	OpNone Op = iota
	OpPlay
	OpStop
	OpStopAndReset
	OpToggleRecord
	OpSetTempo       // Arg: BPM
	OpAdjustTempo    // Arg: BPM delta
	OpSetParam       // Param, Value
	OpLoadPreset     // Arg: preset index
	OpRequestFreeze  // Arg: synth track
	OpUnfreeze       // Arg: synth track
	OpMIDI           // Event
	OpSetOverdub     // On
	OpSetBlend       // On
	OpSetPatternBars // Arg: bars
	OpClear
	OpClearTrack // Arg: sequencer track
	OpClearAutomation
	OpLoadSample // Arg: pad, Samples, Name
	OpAllNotesOff
	OpSetMasterLevel // Value
)

var opNames = [...]string{
	OpNone:            "none",
	OpPlay:            "play",
	OpStop:            "stop",
	OpStopAndReset:    "stop-and-reset",
	OpToggleRecord:    "toggle-record",
	OpSetTempo:        "set-tempo",
	OpAdjustTempo:     "adjust-tempo",
	OpSetParam:        "set-param",
	OpLoadPreset:      "load-preset",
	OpRequestFreeze:   "request-freeze",
	OpUnfreeze:        "unfreeze",
	OpMIDI:            "midi",
	OpSetOverdub:      "set-overdub",
	OpSetBlend:        "set-blend",
	OpSetPatternBars:  "set-pattern-bars",
	OpClear:           "clear",
	OpClearTrack:      "clear-track",
	OpClearAutomation: "clear-automation",
	OpLoadSample:      "load-sample",
	OpAllNotesOff:     "all-notes-off",
	OpSetMasterLevel:  "set-master-level",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Command is a request posted from the control context. Only the fields the
// Op documents are read.
type Command struct {
	Op      Op
	Arg     int
	Value   float64
	On      bool
	Param   synth.ParamID
	Event   midi.Event
	Samples []float32
	Name    string
}

func (c Command) String() string {
	switch c.Op {
	case OpSetParam:
		return fmt.Sprintf("%s %s=%g", c.Op, c.Param, c.Value)
	case OpMIDI:
		return fmt.Sprintf("%s %s", c.Op, c.Event)
	case OpSetOverdub, OpSetBlend:
		return fmt.Sprintf("%s %t", c.Op, c.On)
	case OpSetMasterLevel:
		return fmt.Sprintf("%s %g", c.Op, c.Value)
	case OpSetTempo, OpAdjustTempo, OpLoadPreset, OpRequestFreeze, OpUnfreeze, OpSetPatternBars, OpClearTrack, OpLoadSample:
		return fmt.Sprintf("%s %d", c.Op, c.Arg)
	}
	return c.Op.String()
}

func ParamCommand(id synth.ParamID, value float64) Command {
	return Command{Op: OpSetParam, Param: id, Value: value}
}

func MIDICommand(ev midi.Event) Command {
	return Command{Op: OpMIDI, Event: ev}
}

// SampleCommand replaces a drum pad's sample. data must already be at the
// core's sample rate and must not be modified afterwards.
func SampleCommand(pad int, data []float32, name string) Command {
	return Command{Op: OpLoadSample, Arg: pad, Samples: data, Name: name}
}
