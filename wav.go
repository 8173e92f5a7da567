package groovebox

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cbegin/groovebox-go/internal/sampler"
)

const wavBitDepth = 16

// WriteWAV encodes interleaved stereo samples as 16-bit PCM.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if len(samples)%2 != 0 {
		return fmt.Errorf("%w: %d samples", ErrBufferSize, len(samples))
	}
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: wavBitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(math.Round(float64(clampf(s, -1, 1)) * 32767))
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}

// Clip is decoded PCM audio, interleaved, scaled to -1..1.
type Clip struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

func (c Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Mono averages all channels.
func (c Clip) Mono() []float32 {
	if c.Channels <= 1 {
		return c.Samples
	}
	out := make([]float32, c.Frames())
	for i := range out {
		var sum float32
		for ch := 0; ch < c.Channels; ch++ {
			sum += c.Samples[i*c.Channels+ch]
		}
		out[i] = sum / float32(c.Channels)
	}
	return out
}

// ReadWAV decodes a PCM WAV file.
func ReadWAV(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("read wav: not a valid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return Clip{}, fmt.Errorf("read wav: %w", err)
	}
	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())
	if bitDepth == 0 || format.NumChannels == 0 {
		return Clip{}, fmt.Errorf("read wav: unknown sample format")
	}
	bytesPerSample := (bitDepth-1)/8 + 1
	n := int(dec.PCMLen()) / bytesPerSample
	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, n),
		SourceBitDepth: bitDepth,
	}
	got, err := dec.PCMBuffer(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return Clip{}, fmt.Errorf("read wav: %w", err)
	}
	scale := math.Pow(2, float64(bitDepth-1))
	// 8-bit PCM is unsigned around 128; wider depths are signed.
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	samples := make([]float32, got)
	for i := range samples {
		samples[i] = float32(float64(buf.Data[i]-offset) / scale)
	}
	return Clip{Samples: samples, Channels: format.NumChannels, SampleRate: format.SampleRate}, nil
}

// LoadDrumWAV decodes a WAV file, folds it to mono at the core's sample rate
// and posts it to a drum pad.
func (c *Core) LoadDrumWAV(pad int, r io.ReadSeeker, name string) error {
	if pad < 0 || pad >= sampler.NumPads {
		return fmt.Errorf("groovebox: pad %d out of range", pad)
	}
	clip, err := ReadWAV(r)
	if err != nil {
		return err
	}
	data := sampler.Resample(clip.Mono(), clip.SampleRate, c.sampleRate)
	if !c.Post(SampleCommand(pad, data, name)) {
		return ErrQueueFull
	}
	c.logger.Debug("drum sample queued", "pad", pad, "name", name, "frames", len(data), "source_rate", clip.SampleRate)
	return nil
}

// ExportFrozen writes the rendered audio of a frozen synth track. Call it
// only while nothing is calling Process.
func (c *Core) ExportFrozen(track int, w io.WriteSeeker) error {
	frames := c.frz.Frames(track)
	if frames == nil {
		return fmt.Errorf("%w: track %d", ErrNotFrozen, track)
	}
	return WriteWAV(w, frames, c.sampleRate)
}
