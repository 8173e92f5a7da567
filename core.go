// Package groovebox is the real-time core of a groovebox: a musical clock
// driving a polyphonic synth, a drum sampler, a tick-accurate event
// sequencer, controller automation and track freezing.
//
// A Core has two sides. Process and Apply belong to the audio context and
// never block or allocate. Post, PostRaw, Poll, Snapshot and the Take
// methods belong to the control context and only exchange messages with the
// audio side through lock-free queues, flags and a triple buffer.
package groovebox

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cbegin/groovebox-go/internal/automation"
	"github.com/cbegin/groovebox-go/internal/ccmap"
	"github.com/cbegin/groovebox-go/internal/effects"
	"github.com/cbegin/groovebox-go/internal/freeze"
	"github.com/cbegin/groovebox-go/internal/midi"
	"github.com/cbegin/groovebox-go/internal/ring"
	"github.com/cbegin/groovebox-go/internal/sampler"
	"github.com/cbegin/groovebox-go/internal/sequencer"
	"github.com/cbegin/groovebox-go/internal/synth"
	"github.com/cbegin/groovebox-go/internal/transport"
)

type Core struct {
	sampleRate int
	logger     *slog.Logger

	clock  *transport.Clock
	synth  *synth.Engine
	drums  *sampler.Engine
	seq    *sequencer.Sequencer
	auto   *automation.Engine
	frz    *freeze.Manager
	ccs    *ccmap.Map
	eq     *effects.EQ
	bus    *effects.Chain
	clip   *effects.Clipper
	master float32

	commands *ring.Queue[Command]
	notices  *ring.Queue[Notice]
	snap     *ring.Latest[Snapshot]
	postMu   sync.Mutex
	pollMu   sync.Mutex
	snapMu   sync.Mutex

	transportChanged ring.Flag
	voicesChanged    ring.Flag

	starting  bool
	frames    int64
	lastSynth int
	lastDrums int
}

// New builds a core for the given sample rate with the factory preset and
// the built-in drum kit loaded.
func New(sampleRate int, opts ...Option) (*Core, error) {
	if sampleRate <= 0 || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var synthOpts []synth.Option
	if cfg.filterInterval > 0 {
		synthOpts = append(synthOpts, synth.WithFilterUpdateInterval(cfg.filterInterval))
	}
	var freezeOpts []freeze.Option
	if cfg.slotFrames > 0 {
		freezeOpts = append(freezeOpts, freeze.WithSlotFrames(cfg.slotFrames))
	}

	c := &Core{
		sampleRate: sampleRate,
		logger:     cfg.logger,
		clock:      transport.New(sampleRate),
		synth:      synth.New(sampleRate, synthOpts...),
		drums:      sampler.New(),
		seq:        sequencer.New(),
		auto:       automation.New(),
		frz:        freeze.New(freezeOpts...),
		eq:         effects.NewEQ(sampleRate),
		clip:       effects.NewClipper(1),
		master:     clampf(cfg.masterLevel, 0, 1),
		commands:   ring.NewQueue[Command](cfg.commandQueue),
		notices:    ring.NewQueue[Notice](cfg.noticeQueue),
		snap:       ring.NewLatest[Snapshot](),
	}
	c.ccs = ccmap.New(c.synth, c.drums)
	c.seq.SetHandler(c.onSequencerEvent)
	c.auto.SetHandler(c.onAutomation)

	if cfg.bpm > 0 {
		c.clock.SetBPM(cfg.bpm)
	}
	if cfg.bars > 0 {
		c.clock.SetPatternBars(cfg.bars)
	}
	if cfg.preset != 0 && !c.synth.LoadPreset(cfg.preset) {
		return nil, fmt.Errorf("groovebox: unknown preset %d", cfg.preset)
	}
	if cfg.drumKit {
		c.drums.LoadKit(sampleRate)
	}
	c.bus = effects.NewChain(c.eq)
	for _, fx := range cfg.effects {
		c.bus.Add(fx)
	}
	c.bus.SetTempo(float64(c.clock.BPM()))
	c.clock.TakeStateChanged()
	c.publish()

	c.logger.Debug("core ready",
		"sample_rate", sampleRate,
		"bpm", c.clock.BPM(),
		"bars", c.clock.PatternBars(),
		"preset", synth.PresetName(c.synth.CurrentPreset()),
		"effects", c.bus.Len(),
		"kit", cfg.drumKit,
	)
	return c, nil
}

func (c *Core) SampleRate() int { return c.sampleRate }

func (c *Core) Logger() *slog.Logger { return c.logger }

// Process renders interleaved stereo frames into dst after applying every
// pending command. A trailing odd sample is zeroed.
func (c *Core) Process(dst []float32) {
	c.drain()
	i := 0
	for ; i+1 < len(dst); i += 2 {
		dst[i], dst[i+1] = c.Frame()
	}
	if i < len(dst) {
		dst[i] = 0
	}
	c.endBlock()
}

func (c *Core) drain() {
	var cmd Command
	for c.commands.Pop(&cmd) {
		if !c.Apply(cmd) {
			c.notify(Notice{Kind: NoticeRejected, Tick: c.clock.Tick(), Command: cmd.Op})
		}
		cmd = Command{}
	}
}

// Frame renders one stereo frame: clock, then sequencer and automation on a
// new tick, then synth, frozen tracks and drums into the master bus.
func (c *Core) Frame() (float32, float32) {
	c.frames++
	if c.starting {
		c.starting = false
		if c.clock.Running() {
			c.dispatch(c.clock.Tick())
		}
	} else if c.clock.Advance() {
		if c.clock.TakePatternLooped() {
			c.onLoop()
		}
		c.dispatch(c.clock.Tick())
	}

	l, r := c.synth.Process()
	if c.clock.Running() {
		if _, ok := c.frz.RenderTarget(); ok {
			c.frz.WriteRenderSample(l, r)
		}
		for t := 0; t < freeze.NumTracks; t++ {
			if c.frz.Status(t) == freeze.Audio {
				fl, fr := c.frz.ReadFrozenSample(t)
				l += fl
				r += fr
			}
		}
	}
	dl, dr := c.drums.Process()
	l, r = c.bus.Process(l+dl, r+dr)
	return c.clip.Process(l*c.master, r*c.master)
}

func (c *Core) dispatch(tick uint32) {
	c.seq.Process(tick)
	c.auto.Process(tick)
}

func (c *Core) onLoop() {
	var before [freeze.NumTracks]freeze.Status
	for t := range before {
		before[t] = c.frz.Status(t)
	}
	c.frz.OnPatternLoop()
	c.frz.ResetPlayheads()
	c.notify(Notice{Kind: NoticeLoop})
	for t, st := range before {
		if now := c.frz.Status(t); now != st {
			c.notify(Notice{Kind: NoticeFreeze, Track: t, Status: now})
		}
	}
}

func (c *Core) onSequencerEvent(track int, ev midi.Event) {
	c.notify(Notice{Kind: NoticeMIDI, Tick: c.clock.Tick(), Track: track, Event: ev})
	if !sequencer.IsSynthTrack(track) {
		c.drums.TriggerNote(ev.Channel, ev.Note(), ev.Velocity())
		return
	}
	if !ev.IsNoteStart() {
		c.synth.NoteOff(ev.Note())
		return
	}
	st := track - sequencer.NumDrumTracks
	if c.frz.Status(st) == freeze.Audio {
		return
	}
	// Only the track being rendered may start notes during a render pass.
	if target, ok := c.frz.RenderTarget(); ok && target != st {
		return
	}
	c.synth.NoteOn(ev.Note(), ev.Velocity())
}

func (c *Core) onAutomation(cc, value uint8) {
	c.ccs.Apply(cc, value)
}

// Apply executes a command in the audio context and reports whether it was
// accepted. Process calls it for posted commands; offline callers may call
// it directly between Process calls.
func (c *Core) Apply(cmd Command) bool {
	switch cmd.Op {
	case OpPlay:
		if !c.clock.Running() {
			c.beginPlayback()
		}
		c.clock.Play()
	case OpStop:
		c.clock.Stop()
		c.halt()
	case OpStopAndReset:
		c.clock.StopAndReset()
		c.halt()
	case OpToggleRecord:
		wasStopped := !c.clock.Running()
		c.clock.ToggleRecord()
		if wasStopped {
			c.beginPlayback()
		}
		if c.clock.Recording() {
			c.seq.StartRecordPass()
		}
	case OpSetTempo:
		c.clock.SetBPM(cmd.Arg)
		c.bus.SetTempo(float64(c.clock.BPM()))
	case OpAdjustTempo:
		c.clock.AdjustBPM(cmd.Arg)
		c.bus.SetTempo(float64(c.clock.BPM()))
	case OpSetParam:
		return c.synth.SetParam(cmd.Param, cmd.Value)
	case OpLoadPreset:
		return c.synth.LoadPreset(cmd.Arg)
	case OpRequestFreeze:
		if !c.frz.RequestFreeze(cmd.Arg) {
			return false
		}
		c.notify(Notice{Kind: NoticeFreeze, Track: cmd.Arg, Status: freeze.Pending})
	case OpUnfreeze:
		if !c.frz.Unfreeze(cmd.Arg) {
			return false
		}
		c.notify(Notice{Kind: NoticeFreeze, Track: cmd.Arg, Status: freeze.Midi})
	case OpMIDI:
		return c.live(cmd.Event)
	case OpSetOverdub:
		c.seq.SetOverdub(cmd.On)
	case OpSetBlend:
		c.auto.SetBlend(cmd.On)
	case OpSetPatternBars:
		c.clock.SetPatternBars(cmd.Arg)
	case OpClear:
		c.seq.Clear()
		c.auto.Clear()
	case OpClearTrack:
		return c.seq.ClearTrack(cmd.Arg)
	case OpClearAutomation:
		c.auto.Clear()
	case OpLoadSample:
		return c.drums.Load(cmd.Arg, cmd.Samples, cmd.Name)
	case OpAllNotesOff:
		c.synth.AllNotesOff()
		c.drums.Stop()
	case OpSetMasterLevel:
		c.master = clampf(float32(cmd.Value), 0, 1)
	default:
		return false
	}
	return true
}

func (c *Core) beginPlayback() {
	c.auto.CaptureBaseValues()
	c.auto.ResetPlayback()
	c.seq.ResetPlayback()
	c.frz.Seek(int(float64(c.clock.Tick()) * c.clock.SamplesPerTick()))
	c.starting = true
}

func (c *Core) halt() {
	c.synth.AllNotesOff()
	c.seq.ResetPlayback()
	c.auto.ResetPlayback()
	c.starting = false
}

// live handles performance input: it sounds immediately and is recorded when
// the transport is recording.
func (c *Core) live(ev midi.Event) bool {
	tick := c.clock.Tick()
	switch ev.Kind {
	case midi.KindNoteOn, midi.KindNoteOff:
		switch ev.Channel {
		case sequencer.DrumChannel:
			if ev.IsNoteStart() && !c.drums.TriggerNote(ev.Channel, ev.Note(), ev.Velocity()) {
				return false
			}
		case sequencer.SynthChannel:
			if ev.IsNoteStart() {
				c.synth.NoteOn(ev.Note(), ev.Velocity())
			} else {
				c.synth.NoteOff(ev.Note())
			}
		default:
			return false
		}
		if c.clock.Recording() {
			c.seq.Record(tick, ev)
		}
		return true
	case midi.KindControlChange:
		cc, v := ev.Controller(), ev.Value()
		c.auto.UpdateCurrentValue(cc, v)
		if c.clock.Recording() {
			c.auto.RecordCC(tick, cc, v)
		}
		return c.ccs.Apply(cc, v)
	}
	return false
}

func (c *Core) notify(n Notice) {
	c.notices.Push(n)
}

func (c *Core) endBlock() {
	if c.clock.TakeStateChanged() {
		c.transportChanged.Set()
	}
	synthN, drumN := c.synth.ActiveCount(), c.drums.ActiveCount()
	if synthN != c.lastSynth || drumN != c.lastDrums {
		c.lastSynth, c.lastDrums = synthN, drumN
		c.voicesChanged.Set()
	}
	if c.synth.TakeNaN() {
		c.notify(Notice{Kind: NoticeNaN, Tick: c.clock.Tick()})
	}
	if c.synth.TakeStuckVoice() {
		c.notify(Notice{Kind: NoticeStuckVoice, Tick: c.clock.Tick()})
	}
	c.publish()
}

func (c *Core) publish() {
	s := c.snap.Back()
	s.Position = c.clock.Position()
	s.State = c.clock.State()
	s.BPM = c.clock.BPM()
	s.PatternBars = c.clock.PatternBars()
	s.Voices = c.synth.Voices()
	s.SynthActive = c.synth.ActiveCount()
	s.DrumActive = c.drums.ActiveCount()
	s.Preset = c.synth.CurrentPreset()
	for i := range s.TrackEvents {
		s.TrackEvents[i] = c.seq.TrackEventCount(i)
	}
	for i, cc := range c.auto.Controllers() {
		s.AutomationPoints[i] = c.auto.PointCount(cc)
	}
	s.Overdub = c.seq.Overdub()
	s.Blend = c.auto.Blend()
	for t := range s.Freeze {
		s.Freeze[t] = c.frz.Status(t)
	}
	s.FreeSlots = c.frz.AvailableSlots()
	s.FrozenBytes = c.frz.UsedBytes()
	s.Frames = c.frames
	c.snap.Publish()
}

// Post queues a command for the audio context. It reports false when the
// queue is full; the drop is counted.
func (c *Core) Post(cmd Command) bool {
	c.postMu.Lock()
	defer c.postMu.Unlock()
	return c.commands.Push(cmd)
}

// PostRaw decodes a three byte MIDI message and posts it as live input.
func (c *Core) PostRaw(raw []byte) bool {
	ev, ok := midi.Decode(raw)
	if !ok {
		return false
	}
	return c.Post(MIDICommand(ev))
}

// Poll takes the oldest notice from the audio context.
func (c *Core) Poll(n *Notice) bool {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()
	return c.notices.Pop(n)
}

// Snapshot returns the state published at the end of the last block.
func (c *Core) Snapshot() Snapshot {
	c.snapMu.Lock()
	defer c.snapMu.Unlock()
	return c.snap.Read()
}

func (c *Core) TakeTransportChanged() bool { return c.transportChanged.Take() }
func (c *Core) TakeVoicesChanged() bool    { return c.voicesChanged.Take() }

// Dropped reports how many commands and notices were lost to full queues.
func (c *Core) Dropped() (commands, notices uint64) {
	return c.commands.Dropped(), c.notices.Dropped()
}

// SetEQBand sets a master EQ band gain. It is safe to call while audio runs.
func (c *Core) SetEQBand(band int, gain float32) { c.eq.SetGain(band, gain) }

func (c *Core) EQBand(band int) float32 { return c.eq.Gain(band) }

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
