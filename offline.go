package groovebox

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cbegin/groovebox-go/internal/transport"
)

const renderBlock = 512

// Render runs the core for frames stereo frames, in fixed blocks as an audio
// device would, and returns the interleaved output.
func Render(c *Core, frames int) ([]float32, error) {
	if frames < 0 {
		return nil, fmt.Errorf("%w: %d frames", ErrBufferSize, frames)
	}
	out := make([]float32, frames*2)
	for off := 0; off < len(out); off += renderBlock * 2 {
		end := min(off+renderBlock*2, len(out))
		c.Process(out[off:end])
	}
	return out, nil
}

// PatternFrames is the length of n pattern passes in frames at the core's
// current tempo and pattern length.
func PatternFrames(c *Core, n int) int {
	s := c.Snapshot()
	ticks := float64(s.PatternBars) * transport.TicksPerBar * float64(n)
	samplesPerTick := float64(c.sampleRate) * 60 / (float64(s.BPM) * transport.PPQN)
	return int(math.Ceil(ticks * samplesPerTick))
}

// EncodeFloatWAV encodes interleaved stereo samples as a 32-bit float WAV
// file in memory.
func EncodeFloatWAV(samples []float32, sampleRate int) []byte {
	const channels = 2
	dataSize := len(samples) * 4
	out := make([]byte, 44+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3) // IEEE float
	binary.LittleEndian.PutUint16(out[22:], channels)
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*channels*4))
	binary.LittleEndian.PutUint16(out[32:], channels*4)
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
