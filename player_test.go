package groovebox

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/cbegin/groovebox-go/internal/freeze"
	"github.com/cbegin/groovebox-go/internal/synth"
)

func newLoggedPlayer(t *testing.T, opts ...Option) (*Player, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestCore(t, append([]Option{WithLogger(logger)}, opts...)...)
	p, err := NewPlayer(c)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	return p, &buf
}

func TestNewPlayerRequiresCore(t *testing.T) {
	if _, err := NewPlayer(nil); err == nil {
		t.Fatalf("expected error for nil core")
	}
}

func TestPlayerLogsNotices(t *testing.T) {
	p, buf := newLoggedPlayer(t)
	c := p.Core()
	c.Post(ParamCommand(synth.ParamCount, 0))
	c.Post(Command{Op: OpRequestFreeze, Arg: 2})
	c.Post(Command{Op: OpPlay})
	render(c, 64)

	if n := p.Drain(); n != 2 {
		t.Fatalf("drained %d notices, want 2", n)
	}
	out := buf.String()
	for _, want := range []string{
		"command rejected",
		"freeze",
		"track=2",
		"status=pending",
		"state=playing",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
	if n := p.Drain(); n != 0 {
		t.Fatalf("second drain = %d notices, want 0", n)
	}
}

func TestPlayerWatchReceivesNotices(t *testing.T) {
	p, _ := newLoggedPlayer(t)
	ch := p.Watch()
	c := p.Core()
	c.Post(Command{Op: OpRequestFreeze, Arg: 0})
	render(c, 1)
	p.Drain()
	select {
	case n := <-ch:
		if n.Kind != NoticeFreeze || n.Status != freeze.Pending {
			t.Fatalf("notice = %s, want freeze pending", n)
		}
	default:
		t.Fatalf("no notice forwarded")
	}
}

func TestPlayerReportsDroppedNotices(t *testing.T) {
	p, buf := newLoggedPlayer(t, WithQueueSizes(0, 2))
	c := p.Core()
	for i := 0; i < 3; i++ {
		c.Post(Command{Op: OpNone})
	}
	render(c, 1)
	p.Drain()
	if !strings.Contains(buf.String(), "notices dropped") {
		t.Fatalf("expected drop warning:\n%s", buf.String())
	}
}

func TestConcurrentDrainsReportDropsOnce(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := newTestCore(t, WithLogger(logger), WithQueueSizes(0, 2))
	p, err := NewPlayer(c)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	for i := 0; i < 5; i++ {
		c.Post(Command{Op: OpNone})
	}
	render(c, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Drain()
		}()
	}
	wg.Wait()
	if n := strings.Count(buf.String(), "notices dropped"); n != 1 {
		t.Fatalf("drop warning logged %d times, want 1:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "dropped=4") {
		t.Fatalf("expected dropped=4:\n%s", buf.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestMonitorStopsOnCancel(t *testing.T) {
	p, buf := newLoggedPlayer(t)
	c := p.Core()
	c.Post(Command{Op: OpLoadPreset, Arg: 99})
	render(c, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Monitor(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Monitor err = %v, want context.Canceled", err)
	}
	if !strings.Contains(buf.String(), "load-preset") {
		t.Fatalf("pending notice was not logged:\n%s", buf.String())
	}
}

func TestPlayerWithoutDevice(t *testing.T) {
	p, _ := newLoggedPlayer(t)
	if got := p.PlaybackPosition(); got != 0 {
		t.Fatalf("position = %v before play", got)
	}
	p.Pause()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestSampleTap(t *testing.T) {
	c := newTestCore(t)
	var frames int
	src := coreSource{core: c, tap: func(buf []float32) { frames += len(buf) / 2 }}
	src.Process(make([]float32, 256))
	if frames != 128 {
		t.Fatalf("tap saw %d frames, want 128", frames)
	}
}
