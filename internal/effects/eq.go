package effects

import (
	"math"
	"sync/atomic"
)

const NumBands = 5

var crossovers = [NumBands - 1]float64{200, 800, 2500, 8000}

// EQ is a five band master equalizer. Band gains are stored as float32 bit
// patterns so the control context can change them while audio runs.
type EQ struct {
	gains  [NumBands]atomic.Uint32
	alphas [NumBands - 1]float32
	lpL    [NumBands - 1]float32
	lpR    [NumBands - 1]float32
}

func NewEQ(sampleRate int) *EQ {
	eq := &EQ{}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range crossovers {
		rc := 1.0 / (2.0 * math.Pi * freq)
		eq.alphas[i] = float32(dt / (rc + dt))
	}
	for i := range eq.gains {
		eq.gains[i].Store(math.Float32bits(1))
	}
	return eq
}

// SetGain sets a linear band gain; 1 is unity. Out of range bands are
// ignored.
func (eq *EQ) SetGain(band int, gain float32) {
	if band >= 0 && band < NumBands {
		eq.gains[band].Store(math.Float32bits(clamp(gain, 0, 4)))
	}
}

func (eq *EQ) Gain(band int) float32 {
	if band >= 0 && band < NumBands {
		return math.Float32frombits(eq.gains[band].Load())
	}
	return 1
}

func (eq *EQ) Process(l, r float32) (float32, float32) {
	var outL, outR float32
	remL, remR := l, r
	for i := range eq.alphas {
		eq.lpL[i] += eq.alphas[i] * (remL - eq.lpL[i])
		eq.lpR[i] += eq.alphas[i] * (remR - eq.lpR[i])
		g := math.Float32frombits(eq.gains[i].Load())
		outL += eq.lpL[i] * g
		outR += eq.lpR[i] * g
		remL -= eq.lpL[i]
		remR -= eq.lpR[i]
	}
	top := math.Float32frombits(eq.gains[NumBands-1].Load())
	return outL + remL*top, outR + remR*top
}

func (eq *EQ) Reset() {
	for i := range eq.lpL {
		eq.lpL[i] = 0
		eq.lpR[i] = 0
	}
}
