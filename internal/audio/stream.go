// Package audio connects a frame renderer to the sound device through
// ebiten's float32 audio player.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Source renders interleaved stereo frames into dst.
type Source interface {
	Process(dst []float32)
}

// FinishingSource ends the stream once Finished reports true.
type FinishingSource interface {
	Source
	Finished() bool
}

// Stream adapts a Source to the byte reader the device player pulls from.
// Read is only ever called from the player's goroutine.
type Stream struct {
	source Source
	buf    []float32
	frames atomic.Int64
}

func NewStream(source Source) *Stream {
	return &Stream{source: source}
}

func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(s.buf) < need {
		s.buf = make([]float32, need)
	}
	s.buf = s.buf[:need]
	s.source.Process(s.buf)
	for i, v := range s.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	s.frames.Add(int64(frames))
	n := frames * 8
	if fs, ok := s.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

// Frames is the number of frames handed to the device so far.
func (s *Stream) Frames() int64 { return s.frames.Load() }

func (s *Stream) Close() error { return nil }

var (
	contextOnce       sync.Once
	audioContext      *ebitaudio.Context
	contextSampleRate int
)

// sharedContext returns the process-wide audio context. ebiten allows only
// one, so a second sample rate is an error.
func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if contextSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already running at %d Hz (requested %d Hz)", contextSampleRate, sampleRate)
	}
	return audioContext, nil
}

type Player struct {
	player *ebitaudio.Player
	stream *Stream
}

// NewPlayer opens a device player pulling from source. A positive
// bufferSize sets the device buffer, trading latency for underrun safety.
func NewPlayer(sampleRate int, source Source, bufferSize time.Duration) (*Player, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	stream := NewStream(source)
	pl, err := ctx.NewPlayerF32(stream)
	if err != nil {
		return nil, fmt.Errorf("open player: %w", err)
	}
	if bufferSize > 0 {
		pl.SetBufferSize(bufferSize)
	}
	return &Player{player: pl, stream: stream}, nil
}

func (p *Player) Play()           { p.player.Play() }
func (p *Player) Pause()          { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Position is what the listener currently hears.
func (p *Player) Position() time.Duration { return p.player.Position() }

func (p *Player) Frames() int64 { return p.stream.Frames() }

func (p *Player) Close() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.stream.Close()
}
