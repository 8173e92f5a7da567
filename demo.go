package groovebox

import (
	"fmt"
	"slices"

	"github.com/cbegin/groovebox-go/internal/midi"
	"github.com/cbegin/groovebox-go/internal/sequencer"
	"github.com/cbegin/groovebox-go/internal/transport"
)

// Step is a performance event placed at a pattern tick.
type Step struct {
	Tick  uint32
	Event midi.Event
}

// RecordSteps records steps into the pattern the way a performer would: the
// core runs in record mode and each step is applied as live input when the
// clock reaches its tick. Audio is discarded. The core is left stopped at the
// pattern start. Call it only while nothing else calls Process.
func RecordSteps(c *Core, steps []Step) error {
	sorted := slices.Clone(steps)
	slices.SortStableFunc(sorted, func(a, b Step) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		}
		return 0
	})
	limit := c.clock.PatternTicks()
	if len(sorted) > 0 && sorted[len(sorted)-1].Tick >= limit {
		return fmt.Errorf("groovebox: step at tick %d outside a %d tick pattern", sorted[len(sorted)-1].Tick, limit)
	}

	c.Apply(Command{Op: OpStopAndReset})
	c.Apply(Command{Op: OpToggleRecord})
	for i, st := range sorted {
		for c.clock.Tick() < st.Tick {
			c.Frame()
		}
		if !c.Apply(MIDICommand(st.Event)) {
			return fmt.Errorf("groovebox: step %d (%s) rejected", i, st.Event)
		}
	}
	c.Apply(Command{Op: OpStopAndReset})
	c.Apply(Command{Op: OpAllNotesOff})
	c.Process(nil)
	c.logger.Debug("pattern recorded", "steps", len(sorted), "events", c.seq.EventCount())
	return nil
}

// DemoPattern is a one bar groove repeated over bars: four on the floor
// drums, a two note bass line and a filter sweep.
func DemoPattern(bars int) []Step {
	const (
		eighth  = transport.PPQN / 2
		quarter = transport.PPQN
	)
	drum := func(tick uint32, pad, vel uint8) Step {
		return Step{Tick: tick, Event: midi.NoteOn(sequencer.DrumChannel, sequencer.FirstPadNote+pad, vel)}
	}
	var steps []Step
	for bar := 0; bar < bars; bar++ {
		base := uint32(bar * transport.TicksPerBar)
		for beat := uint32(0); beat < transport.BeatsPerBar; beat++ {
			t := base + beat*quarter
			steps = append(steps, drum(t, 0, 110))
			if beat%2 == 1 {
				steps = append(steps, drum(t, 1, 100))
			}
			steps = append(steps, drum(t+eighth, 2, 70))
		}
		steps = append(steps,
			Step{Tick: base, Event: midi.NoteOn(sequencer.SynthChannel, 36, 100)},
			Step{Tick: base + quarter - 12, Event: midi.NoteOff(sequencer.SynthChannel, 36)},
			Step{Tick: base + 2*quarter, Event: midi.NoteOn(sequencer.SynthChannel, 43, 90)},
			Step{Tick: base + 3*quarter - 12, Event: midi.NoteOff(sequencer.SynthChannel, 43)},
		)
		for i := uint32(0); i < 8; i++ {
			steps = append(steps, Step{
				Tick:  base + i*eighth,
				Event: midi.ControlChange(sequencer.SynthChannel, 74, uint8(40+i*10)),
			})
		}
	}
	return steps
}
