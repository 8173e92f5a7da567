package groovebox

import (
	"io"
	"log/slog"

	"github.com/cbegin/groovebox-go/internal/effects"
)

const (
	DefaultCommandQueue = 256
	DefaultNoticeQueue  = 1024
	MaxSampleRate       = 192000
)

type Option func(*config)

type config struct {
	logger         *slog.Logger
	commandQueue   int
	noticeQueue    int
	slotFrames     int
	filterInterval int
	effects        []effects.Effector
	bpm            int
	bars           int
	preset         int
	drumKit        bool
	masterLevel    float32
}

func defaultConfig() config {
	return config{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		commandQueue: DefaultCommandQueue,
		noticeQueue:  DefaultNoticeQueue,
		drumKit:      true,
		masterLevel:  1,
	}
}

// WithLogger sets the logger used by control context code. The audio path
// never logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithQueueSizes sets the capacities of the inbound command queue and the
// outbound notice queue.
func WithQueueSizes(commands, notices int) Option {
	return func(c *config) {
		if commands > 0 {
			c.commandQueue = commands
		}
		if notices > 0 {
			c.noticeQueue = notices
		}
	}
}

// WithSlotFrames sets the capacity of each freeze slot in frames.
func WithSlotFrames(frames int) Option {
	return func(c *config) { c.slotFrames = frames }
}

// WithFilterUpdateInterval sets how many samples pass between filter
// coefficient updates in the synth.
func WithFilterUpdateInterval(samples int) Option {
	return func(c *config) { c.filterInterval = samples }
}

// WithEffects inserts effects on the master bus ahead of the final clipper.
func WithEffects(fx ...effects.Effector) Option {
	return func(c *config) { c.effects = append(c.effects, fx...) }
}

func WithTempo(bpm int) Option {
	return func(c *config) { c.bpm = bpm }
}

func WithPatternBars(bars int) Option {
	return func(c *config) { c.bars = bars }
}

func WithPreset(index int) Option {
	return func(c *config) { c.preset = index }
}

// WithDrumKit controls whether the built-in drum kit is loaded at start.
func WithDrumKit(load bool) Option {
	return func(c *config) { c.drumKit = load }
}

func WithMasterLevel(level float32) Option {
	return func(c *config) { c.masterLevel = level }
}
