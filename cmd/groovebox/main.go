package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	"github.com/cbegin/groovebox-go"
	"github.com/cbegin/groovebox-go/internal/effects"
	"github.com/cbegin/groovebox-go/internal/freeze"
	"github.com/cbegin/groovebox-go/internal/sampler"
)

func main() {
	var (
		out        string
		bars       int
		bpm        int
		preset     int
		sampleRate int
		passes     int
		play       bool
		dump       bool
		kitDir     string
		freezeAt   int
		fx         []string
		float      bool
		verbose    bool
		bufferSize time.Duration
	)
	pflag.StringVarP(&out, "out", "o", "groovebox.wav", "output WAV path for offline rendering")
	pflag.IntVarP(&bars, "bars", "b", 2, "pattern length in bars (1-16)")
	pflag.IntVarP(&bpm, "bpm", "t", 120, "tempo in BPM (30-300)")
	pflag.IntVarP(&preset, "preset", "p", 0, "synth preset (0-3)")
	pflag.IntVarP(&sampleRate, "rate", "r", 48000, "sample rate")
	pflag.IntVarP(&passes, "loops", "n", 2, "pattern passes to render offline")
	pflag.BoolVar(&play, "play", false, "play through the sound device until interrupted")
	pflag.BoolVarP(&dump, "dump", "d", false, "dump the final core snapshot")
	pflag.StringVarP(&kitDir, "kit", "k", "", "directory holding pad0.wav..pad7.wav")
	pflag.IntVarP(&freezeAt, "freeze", "f", -1, "freeze a synth track (0-3) before rendering")
	pflag.StringArrayVar(&fx, "fx", nil, `master effect, e.g. "delay 1/8,0.4" or "reverb 0.6" (repeatable)`)
	pflag.BoolVar(&float, "float", false, "write 32-bit float WAV instead of 16-bit PCM")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "log playback events")
	pflag.DurationVar(&bufferSize, "buffer", 20*time.Millisecond, "device buffer length")
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(logger, options{
		out: out, bars: bars, bpm: bpm, preset: preset, sampleRate: sampleRate,
		passes: passes, play: play, dump: dump, kitDir: kitDir, freezeAt: freezeAt,
		fx: fx, float: float, bufferSize: bufferSize,
	}); err != nil {
		logger.Error("groovebox failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	out        string
	bars       int
	bpm        int
	preset     int
	sampleRate int
	passes     int
	play       bool
	dump       bool
	kitDir     string
	freezeAt   int
	fx         []string
	float      bool
	bufferSize time.Duration
}

func run(logger *slog.Logger, o options) error {
	chain, err := effects.ParseChain(o.fx, o.sampleRate, float64(o.bpm))
	if err != nil {
		return fmt.Errorf("parse --fx: %w", err)
	}
	core, err := groovebox.New(o.sampleRate,
		groovebox.WithLogger(logger),
		groovebox.WithTempo(o.bpm),
		groovebox.WithPatternBars(o.bars),
		groovebox.WithPreset(o.preset),
		groovebox.WithEffects(chain),
	)
	if err != nil {
		return err
	}
	if o.kitDir != "" {
		if err := loadKit(core, o.kitDir, logger); err != nil {
			return err
		}
	}
	if err := groovebox.RecordSteps(core, groovebox.DemoPattern(o.bars)); err != nil {
		return err
	}
	if o.freezeAt >= 0 {
		if !core.Apply(groovebox.Command{Op: groovebox.OpRequestFreeze, Arg: o.freezeAt}) {
			return fmt.Errorf("cannot freeze track %d", o.freezeAt)
		}
	}

	player, err := groovebox.NewPlayer(core, groovebox.WithBufferSize(o.bufferSize))
	if err != nil {
		return err
	}
	defer player.Close()

	if o.play {
		err = playLive(player)
	} else {
		err = renderOffline(player, o, logger)
	}
	if err != nil {
		return err
	}
	if o.dump {
		spew.Dump(core.Snapshot())
	}
	return nil
}

func loadKit(core *groovebox.Core, dir string, logger *slog.Logger) error {
	for pad := 0; pad < sampler.NumPads; pad++ {
		path := filepath.Join(dir, fmt.Sprintf("pad%d.wav", pad))
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("pad keeps built-in sample", "pad", pad)
			continue
		}
		if err != nil {
			return err
		}
		err = core.LoadDrumWAV(pad, f, filepath.Base(path))
		f.Close()
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	// Apply the queued samples before recording starts.
	core.Process(nil)
	return nil
}

func playLive(player *groovebox.Player) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := player.Play(); err != nil {
		return err
	}
	if err := player.Monitor(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return player.Stop()
}

func renderOffline(player *groovebox.Player, o options, logger *slog.Logger) error {
	core := player.Core()
	// A freeze arms on the first loop and completes on the second.
	if o.freezeAt >= 0 && o.passes < 3 {
		o.passes = 3
	}
	core.Apply(groovebox.Command{Op: groovebox.OpPlay})
	var samples []float32
	for pass := 0; pass < o.passes; pass++ {
		block, err := groovebox.Render(core, groovebox.PatternFrames(core, 1))
		if err != nil {
			return err
		}
		samples = append(samples, block...)
		player.Drain()
	}
	core.Apply(groovebox.Command{Op: groovebox.OpStop})

	if err := writeOutput(o.out, samples, o.sampleRate, o.float); err != nil {
		return err
	}
	logger.Info("rendered", "path", o.out, "frames", len(samples)/2, "passes", o.passes)

	if o.freezeAt >= 0 {
		if st := core.Snapshot().Freeze[o.freezeAt]; st != freeze.Audio {
			logger.Warn("track not frozen yet; render more passes", "track", o.freezeAt, "status", st)
			return nil
		}
		path := strings.TrimSuffix(o.out, filepath.Ext(o.out)) + fmt.Sprintf("-track%d.wav", o.freezeAt)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := core.ExportFrozen(o.freezeAt, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("exported frozen track", "path", path, "track", o.freezeAt)
	}
	return nil
}

func writeOutput(path string, samples []float32, sampleRate int, float bool) error {
	if float {
		return os.WriteFile(path, groovebox.EncodeFloatWAV(samples, sampleRate), 0o644)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := groovebox.WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
