package groovebox

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"testing"

	"github.com/cbegin/groovebox-go/internal/effects"
)

func renderDemo(t *testing.T, opts ...Option) []float32 {
	t.Helper()
	c := newTestCore(t, append([]Option{WithPatternBars(1)}, opts...)...)
	if err := RecordSteps(c, DemoPattern(1)); err != nil {
		t.Fatalf("record: %v", err)
	}
	c.Apply(Command{Op: OpPlay})
	out, err := Render(c, PatternFrames(c, 1))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRenderIsDeterministic(t *testing.T) {
	cases := []struct {
		name string
		opts func() []Option
	}{
		{name: "dry", opts: func() []Option { return nil }},
		{
			name: "effects",
			opts: func() []Option {
				fx, err := effects.ParseChain([]string{"delay 1/8,0.3", "reverb", "comp"}, testRate, 120)
				if err != nil {
					t.Fatalf("parse chain: %v", err)
				}
				return []Option{WithEffects(fx)}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := EncodeFloatWAV(renderDemo(t, tc.opts()...), testRate)
			b := EncodeFloatWAV(renderDemo(t, tc.opts()...), testRate)
			sa, sb := sha256.Sum256(a), sha256.Sum256(b)
			if sa != sb {
				t.Fatalf("renders differ\nfirst:  %s\nsecond: %s", hex.EncodeToString(sa[:]), hex.EncodeToString(sb[:]))
			}
		})
	}
}

func TestRenderProducesAudio(t *testing.T) {
	out := renderDemo(t)
	var energy float64
	for _, s := range out {
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		t.Fatalf("demo pattern rendered silence")
	}
}

func TestRenderRejectsNegativeFrames(t *testing.T) {
	c := newTestCore(t)
	if _, err := Render(c, -1); !errors.Is(err, ErrBufferSize) {
		t.Fatalf("err = %v, want ErrBufferSize", err)
	}
	out, err := Render(c, 0)
	if err != nil || len(out) != 0 {
		t.Fatalf("Render(0) = %d samples, %v", len(out), err)
	}
}

func TestPatternFrames(t *testing.T) {
	c := newTestCore(t)
	if got, want := PatternFrames(c, 1), 4*384*framesPerTick; got != want {
		t.Fatalf("PatternFrames = %d, want %d", got, want)
	}
	if got, want := PatternFrames(c, 3), 3*4*384*framesPerTick; got != want {
		t.Fatalf("PatternFrames(3) = %d, want %d", got, want)
	}
}

func TestEncodeFloatWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeFloatWAV(samples, 44100)
	if len(wav) != 44+len(samples)*4 {
		t.Fatalf("length = %d", len(wav))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) || !bytes.Equal(wav[36:40], []byte("data")) {
		t.Fatalf("bad chunk ids")
	}
	le := binary.LittleEndian
	if got := le.Uint16(wav[20:]); got != 3 {
		t.Fatalf("format = %d, want IEEE float", got)
	}
	if got := le.Uint32(wav[24:]); got != 44100 {
		t.Fatalf("sample rate = %d", got)
	}
	if got := le.Uint16(wav[34:]); got != 32 {
		t.Fatalf("bits = %d", got)
	}
	if got := math.Float32frombits(le.Uint32(wav[44+4:])); got != 0.5 {
		t.Fatalf("second sample = %v, want 0.5", got)
	}
}
