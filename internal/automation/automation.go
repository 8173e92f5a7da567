// Package automation records controller movements per tick and replays them,
// optionally offset by the live position of the physical control.
package automation

const (
	NumTracks = 8
	MaxPoints = 256

	DefaultThinInterval = 6 // ticks
	DefaultThinDelta    = 2
	CenterValue         = 64
)

var controllers = [NumTracks]uint8{74, 71, 93, 18, 19, 16, 79, 85}

type Point struct {
	Tick  uint32
	Value uint8
}

// Handler receives the effective controller value during playback.
type Handler func(cc, value uint8)

type track struct {
	points    [MaxPoints]Point
	count     int
	cursor    int
	lastTick  uint32
	lastValue uint8
	base      uint8
	current   uint8
}

func (t *track) clear() {
	t.count = 0
	t.cursor = 0
	t.lastTick = 0
	t.lastValue = 0
}

type Option func(*Engine)

// WithThinning sets the record-time thinning window: a point closer than
// interval ticks to the previous one and within delta of its value is
// dropped.
func WithThinning(interval uint32, delta int) Option {
	return func(e *Engine) {
		e.thinInterval = interval
		e.thinDelta = delta
	}
}

type Engine struct {
	tracks       [NumTracks]track
	blend        bool
	thinInterval uint32
	thinDelta    int
	lastTick     uint32
	handler      Handler
}

func New(opts ...Option) *Engine {
	e := &Engine{
		blend:        true,
		thinInterval: DefaultThinInterval,
		thinDelta:    DefaultThinDelta,
	}
	for i := range e.tracks {
		e.tracks[i].base = CenterValue
		e.tracks[i].current = CenterValue
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index returns the track index for a controller number.
func Index(cc uint8) (int, bool) {
	for i, c := range controllers {
		if c == cc {
			return i, true
		}
	}
	return 0, false
}

func Automated(cc uint8) bool {
	_, ok := Index(cc)
	return ok
}

func (e *Engine) SetHandler(h Handler) { e.handler = h }

// Controllers lists the automatable controller numbers in track order.
func (e *Engine) Controllers() [NumTracks]uint8 { return controllers }

// RecordCC stores a controller value at tick unless thinning rejects it. The
// live value is updated either way.
func (e *Engine) RecordCC(tick uint32, cc, value uint8) {
	idx, ok := Index(cc)
	if !ok {
		return
	}
	t := &e.tracks[idx]
	t.current = value
	if t.count > 0 {
		// Wrapped ticks produce a large difference and are always kept.
		dt := tick - t.lastTick
		dv := absInt(int(value) - int(t.lastValue))
		if dt < e.thinInterval && dv < e.thinDelta {
			return
		}
	}
	if t.count >= MaxPoints {
		return
	}
	pos := t.count
	for i := 0; i < t.count; i++ {
		if t.points[i].Tick > tick {
			pos = i
			break
		}
	}
	copy(t.points[pos+1:t.count+1], t.points[pos:t.count])
	t.points[pos] = Point{Tick: tick, Value: value}
	t.count++
	if pos < t.cursor {
		t.cursor++
	}
	t.lastTick = tick
	t.lastValue = value
}

// UpdateCurrentValue tracks the physical control whether or not recording.
func (e *Engine) UpdateCurrentValue(cc, value uint8) {
	if idx, ok := Index(cc); ok {
		e.tracks[idx].current = value
	}
}

// CaptureBaseValues makes the current live positions the zero offset for
// blending.
func (e *Engine) CaptureBaseValues() {
	for i := range e.tracks {
		e.tracks[i].base = e.tracks[i].current
	}
}

// Process emits every point stamped exactly at tick.
func (e *Engine) Process(tick uint32) {
	if tick < e.lastTick {
		e.ResetPlayback()
	}
	e.lastTick = tick
	for i := range e.tracks {
		t := &e.tracks[i]
		for t.cursor < t.count {
			p := t.points[t.cursor]
			if p.Tick > tick {
				break
			}
			if p.Tick == tick && e.handler != nil {
				e.handler(controllers[i], e.effective(t, p.Value))
			}
			t.cursor++
		}
	}
}

func (e *Engine) effective(t *track, recorded uint8) uint8 {
	if !e.blend {
		return recorded
	}
	v := int(recorded) + int(t.current) - int(t.base)
	if v < 0 {
		v = 0
	}
	if v > 127 {
		v = 127
	}
	return uint8(v)
}

// ValueAt returns the effective value of cc at tick: the latest point at or
// before tick, or the final point of the pattern when tick precedes every
// point. It reports false when cc has no automation.
func (e *Engine) ValueAt(cc uint8, tick uint32) (uint8, bool) {
	idx, ok := Index(cc)
	if !ok {
		return 0, false
	}
	t := &e.tracks[idx]
	if t.count == 0 {
		return 0, false
	}
	v := t.points[t.count-1].Value
	for i := 0; i < t.count && t.points[i].Tick <= tick; i++ {
		v = t.points[i].Value
	}
	return e.effective(t, v), true
}

func (e *Engine) ResetPlayback() {
	for i := range e.tracks {
		e.tracks[i].cursor = 0
	}
	e.lastTick = 0
}

func (e *Engine) SetBlend(on bool) { e.blend = on }
func (e *Engine) Blend() bool      { return e.blend }

func (e *Engine) Clear() {
	for i := range e.tracks {
		e.tracks[i].clear()
	}
}

func (e *Engine) ClearCC(cc uint8) bool {
	idx, ok := Index(cc)
	if !ok {
		return false
	}
	e.tracks[idx].clear()
	return true
}

func (e *Engine) TotalPoints() int {
	n := 0
	for i := range e.tracks {
		n += e.tracks[i].count
	}
	return n
}

func (e *Engine) PointCount(cc uint8) int {
	idx, ok := Index(cc)
	if !ok {
		return 0
	}
	return e.tracks[idx].count
}

// Points returns a copy of the points recorded for cc.
func (e *Engine) Points(cc uint8) []Point {
	idx, ok := Index(cc)
	if !ok {
		return nil
	}
	t := &e.tracks[idx]
	out := make([]Point, t.count)
	copy(out, t.points[:t.count])
	return out
}

func (e *Engine) BaseValue(cc uint8) uint8 {
	if idx, ok := Index(cc); ok {
		return e.tracks[idx].base
	}
	return CenterValue
}

func (e *Engine) CurrentValue(cc uint8) uint8 {
	if idx, ok := Index(cc); ok {
		return e.tracks[idx].current
	}
	return CenterValue
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
