package groovebox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/groovebox-go/internal/audio"
)

const (
	defaultPollInterval = 10 * time.Millisecond
	watchBuffer         = 64
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	bufferSize   time.Duration
	pollInterval time.Duration
	sampleTap    func([]float32)
}

// WithBufferSize sets the device buffer length.
func WithBufferSize(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.bufferSize = d }
}

// WithPollInterval sets how often Monitor drains notices.
func WithPollInterval(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) {
		if d > 0 {
			cfg.pollInterval = d
		}
	}
}

// WithSampleTap installs a callback invoked with each rendered block. It
// runs in the audio context; keep it brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) { cfg.sampleTap = tap }
}

// Player streams a Core to the sound device and watches it from the control
// context.
type Player struct {
	mu     sync.Mutex
	core   *Core
	cfg    playerConfig
	logger *slog.Logger
	audio  *intaudio.Player

	watchMu sync.Mutex
	watch   chan Notice

	lastDropped atomic.Uint64
}

type coreSource struct {
	core *Core
	tap  func([]float32)
}

func (s coreSource) Process(dst []float32) {
	s.core.Process(dst)
	if s.tap != nil {
		s.tap(dst)
	}
}

// NewPlayer wraps core. The sound device is opened on the first Play.
func NewPlayer(core *Core, opts ...PlayerOption) (*Player, error) {
	if core == nil {
		return nil, errors.New("groovebox: nil core")
	}
	cfg := playerConfig{pollInterval: defaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Player{core: core, cfg: cfg, logger: core.Logger()}, nil
}

func (p *Player) Core() *Core { return p.core }

// Play starts the device stream and the transport.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		a, err := intaudio.NewPlayer(p.core.SampleRate(), coreSource{core: p.core, tap: p.cfg.sampleTap}, p.cfg.bufferSize)
		if err != nil {
			return err
		}
		p.audio = a
		p.logger.Info("audio stream opened", "sample_rate", p.core.SampleRate(), "buffer", p.cfg.bufferSize)
	}
	if !p.core.Post(Command{Op: OpPlay}) {
		return ErrQueueFull
	}
	p.audio.Play()
	return nil
}

// Pause suspends the device stream. The transport freezes in place because
// nothing pulls audio from the core.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

// Stop stops the transport and keeps the stream open so release tails and
// live input still sound.
func (p *Player) Stop() error {
	if !p.core.Post(Command{Op: OpStop}) {
		return ErrQueueFull
	}
	return nil
}

func (p *Player) Close() error {
	p.mu.Lock()
	a := p.audio
	p.audio = nil
	p.mu.Unlock()
	if a == nil {
		return nil
	}
	p.logger.Info("audio stream closed", "frames", a.Frames())
	return a.Close()
}

// PlaybackPosition is the device position, what the listener hears now.
func (p *Player) PlaybackPosition() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return 0
	}
	return p.audio.Position()
}

// Watch returns a channel receiving every notice Monitor drains. Notices are
// dropped when the channel is full. Only the latest channel receives.
func (p *Player) Watch() <-chan Notice {
	ch := make(chan Notice, watchBuffer)
	p.watchMu.Lock()
	p.watch = ch
	p.watchMu.Unlock()
	return ch
}

// Monitor drains notices and dirty flags until ctx is done, logging what it
// sees.
func (p *Player) Monitor(ctx context.Context) error {
	t := time.NewTicker(p.cfg.pollInterval)
	defer t.Stop()
	for {
		p.Drain()
		select {
		case <-ctx.Done():
			p.Drain()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Drain handles everything pending and returns the number of notices.
func (p *Player) Drain() int {
	n := 0
	var note Notice
	for p.core.Poll(&note) {
		n++
		p.logNotice(note)
		p.forward(note)
	}
	if p.core.TakeTransportChanged() {
		s := p.core.Snapshot()
		p.logger.Info("transport",
			"state", s.State,
			"bpm", s.BPM,
			"bars", s.PatternBars,
			"bar", s.Position.Bar,
			"beat", s.Position.Beat,
		)
	}
	if p.core.TakeVoicesChanged() {
		s := p.core.Snapshot()
		p.logger.Debug("voices", "synth", s.SynthActive, "drums", s.DrumActive)
	}
	_, dropped := p.core.Dropped()
	if prev := p.lastDropped.Load(); dropped > prev && p.lastDropped.CompareAndSwap(prev, dropped) {
		p.logger.Warn("notices dropped", "dropped", dropped-prev)
	}
	return n
}

func (p *Player) logNotice(n Notice) {
	switch n.Kind {
	case NoticeMIDI:
		p.logger.Debug("playback", "tick", n.Tick, "track", n.Track, "event", n.Event.String())
	case NoticeRejected:
		p.logger.Warn("command rejected", "command", n.Command.String(), "tick", n.Tick)
	case NoticeNaN:
		p.logger.Warn("voice reset after non-finite output", "tick", n.Tick)
	case NoticeStuckVoice:
		p.logger.Warn("stuck voice released", "tick", n.Tick)
	case NoticeLoop:
		p.logger.Debug("pattern loop")
	case NoticeFreeze:
		p.logger.Info("freeze", "track", n.Track, "status", n.Status.String())
	}
}

func (p *Player) forward(n Notice) {
	p.watchMu.Lock()
	ch := p.watch
	p.watchMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- n:
	default:
	}
}
