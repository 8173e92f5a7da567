package synth

type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSaw
	WaveSquare
	NumWaves
)

func (w Wave) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	}
	return "unknown"
}

// ParamID addresses one field of the shared parameter block.
type ParamID int

const (
	ParamOsc1Wave ParamID = iota
	ParamOsc2Wave
	ParamOsc1Level
	ParamOsc2Level
	ParamOsc2Detune
	ParamFilterCutoff
	ParamFilterRes
	ParamFilterEnvAmount
	ParamAmpAttack
	ParamAmpDecay
	ParamAmpSustain
	ParamAmpRelease
	ParamFilterAttack
	ParamFilterDecay
	ParamFilterSustain
	ParamFilterRelease
	ParamVelToAmp
	ParamVelToFilter
	ParamLevel
	ParamPan
	ParamMasterLevel
	ParamLFORate
	ParamLFODepth
	ParamCount
)

type paramSpec struct {
	name     string
	min, max float64
	envelope bool
}

var paramSpecs = [ParamCount]paramSpec{
	ParamOsc1Wave:        {"osc1_wave", 0, float64(NumWaves - 1), false},
	ParamOsc2Wave:        {"osc2_wave", 0, float64(NumWaves - 1), false},
	ParamOsc1Level:       {"osc1_level", 0, 1, false},
	ParamOsc2Level:       {"osc2_level", 0, 1, false},
	ParamOsc2Detune:      {"osc2_detune", -24, 24, false},
	ParamFilterCutoff:    {"filter_cutoff", 20, 20000, false},
	ParamFilterRes:       {"filter_res", 0, 1, false},
	ParamFilterEnvAmount: {"filter_env_amt", 0, 1, false},
	ParamAmpAttack:       {"amp_attack", 0.001, 5, true},
	ParamAmpDecay:        {"amp_decay", 0.001, 5, true},
	ParamAmpSustain:      {"amp_sustain", 0, 1, true},
	ParamAmpRelease:      {"amp_release", 0.001, 5, true},
	ParamFilterAttack:    {"filt_attack", 0.001, 5, true},
	ParamFilterDecay:     {"filt_decay", 0.001, 5, true},
	ParamFilterSustain:   {"filt_sustain", 0, 1, true},
	ParamFilterRelease:   {"filt_release", 0.001, 5, true},
	ParamVelToAmp:        {"vel_to_amp", 0, 1, false},
	ParamVelToFilter:     {"vel_to_filter", 0, 1, false},
	ParamLevel:           {"level", 0, 1, false},
	ParamPan:             {"pan", -1, 1, false},
	ParamMasterLevel:     {"master_level", 0, 1, false},
	ParamLFORate:         {"lfo_rate", 0.05, 20, false},
	ParamLFODepth:        {"lfo_depth", 0, 1, false},
}

func (id ParamID) Valid() bool { return id >= 0 && id < ParamCount }

func (id ParamID) String() string {
	if !id.Valid() {
		return "invalid"
	}
	return paramSpecs[id].name
}

// Range returns the valid range of the parameter.
func (id ParamID) Range() (lo, hi float64) {
	if !id.Valid() {
		return 0, 0
	}
	return paramSpecs[id].min, paramSpecs[id].max
}

// Params is the parameter block shared by every voice.
type Params struct {
	Osc1Wave   Wave
	Osc2Wave   Wave
	Osc1Level  float64
	Osc2Level  float64
	Osc2Detune int // semitones

	FilterCutoff    float64 // Hz
	FilterRes       float64
	FilterEnvAmount float64

	AmpAttack  float64 // seconds
	AmpDecay   float64
	AmpSustain float64
	AmpRelease float64

	FilterAttack  float64
	FilterDecay   float64
	FilterSustain float64
	FilterRelease float64

	VelToAmp    float64
	VelToFilter float64

	Level       float64
	Pan         float64
	MasterLevel float64

	LFORate  float64 // Hz
	LFODepth float64
}

// InitPatch returns the neutral starting patch.
func InitPatch() Params {
	return Params{
		Osc1Wave:        WaveSaw,
		Osc2Wave:        WaveSquare,
		Osc1Level:       1.0,
		Osc2Level:       0.5,
		FilterCutoff:    2000,
		FilterRes:       0.3,
		FilterEnvAmount: 0.5,
		AmpAttack:       0.01,
		AmpDecay:        0.2,
		AmpSustain:      0.7,
		AmpRelease:      0.3,
		FilterAttack:    0.01,
		FilterDecay:     0.3,
		FilterSustain:   0.3,
		FilterRelease:   0.3,
		VelToAmp:        0.5,
		VelToFilter:     0.3,
		Level:           0.7,
		Pan:             0,
		MasterLevel:     1.0,
		LFORate:         2,
		LFODepth:        0,
	}
}

// Get returns the value of one parameter.
func (p *Params) Get(id ParamID) float64 {
	switch id {
	case ParamOsc1Wave:
		return float64(p.Osc1Wave)
	case ParamOsc2Wave:
		return float64(p.Osc2Wave)
	case ParamOsc1Level:
		return p.Osc1Level
	case ParamOsc2Level:
		return p.Osc2Level
	case ParamOsc2Detune:
		return float64(p.Osc2Detune)
	case ParamFilterCutoff:
		return p.FilterCutoff
	case ParamFilterRes:
		return p.FilterRes
	case ParamFilterEnvAmount:
		return p.FilterEnvAmount
	case ParamAmpAttack:
		return p.AmpAttack
	case ParamAmpDecay:
		return p.AmpDecay
	case ParamAmpSustain:
		return p.AmpSustain
	case ParamAmpRelease:
		return p.AmpRelease
	case ParamFilterAttack:
		return p.FilterAttack
	case ParamFilterDecay:
		return p.FilterDecay
	case ParamFilterSustain:
		return p.FilterSustain
	case ParamFilterRelease:
		return p.FilterRelease
	case ParamVelToAmp:
		return p.VelToAmp
	case ParamVelToFilter:
		return p.VelToFilter
	case ParamLevel:
		return p.Level
	case ParamPan:
		return p.Pan
	case ParamMasterLevel:
		return p.MasterLevel
	case ParamLFORate:
		return p.LFORate
	case ParamLFODepth:
		return p.LFODepth
	}
	return 0
}

// Set clamps value into the parameter's range and stores it. Wave selectors
// wrap modulo the number of waveforms. It reports false for unknown ids.
func (p *Params) Set(id ParamID, value float64) bool {
	if !id.Valid() {
		return false
	}
	spec := paramSpecs[id]
	switch id {
	case ParamOsc1Wave, ParamOsc2Wave:
		w := Wave(absInt(int(value)) % int(NumWaves))
		if id == ParamOsc1Wave {
			p.Osc1Wave = w
		} else {
			p.Osc2Wave = w
		}
		return true
	case ParamOsc2Detune:
		p.Osc2Detune = clampInt(int(value), int(spec.min), int(spec.max))
		return true
	}
	v := clamp(value, spec.min, spec.max)
	switch id {
	case ParamOsc1Level:
		p.Osc1Level = v
	case ParamOsc2Level:
		p.Osc2Level = v
	case ParamFilterCutoff:
		p.FilterCutoff = v
	case ParamFilterRes:
		p.FilterRes = v
	case ParamFilterEnvAmount:
		p.FilterEnvAmount = v
	case ParamAmpAttack:
		p.AmpAttack = v
	case ParamAmpDecay:
		p.AmpDecay = v
	case ParamAmpSustain:
		p.AmpSustain = v
	case ParamAmpRelease:
		p.AmpRelease = v
	case ParamFilterAttack:
		p.FilterAttack = v
	case ParamFilterDecay:
		p.FilterDecay = v
	case ParamFilterSustain:
		p.FilterSustain = v
	case ParamFilterRelease:
		p.FilterRelease = v
	case ParamVelToAmp:
		p.VelToAmp = v
	case ParamVelToFilter:
		p.VelToFilter = v
	case ParamLevel:
		p.Level = v
	case ParamPan:
		p.Pan = v
	case ParamMasterLevel:
		p.MasterLevel = v
	case ParamLFORate:
		p.LFORate = v
	case ParamLFODepth:
		p.LFODepth = v
	}
	return true
}

// Sanitized returns a copy with every field forced into range.
func (p Params) Sanitized() Params {
	out := p
	for id := ParamID(0); id < ParamCount; id++ {
		out.Set(id, p.Get(id))
	}
	return out
}
