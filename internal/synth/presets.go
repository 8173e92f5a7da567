package synth

const NumPresets = 4

var presetNames = [NumPresets]string{"Init Patch", "Warm Pad", "Pluck Lead", "Bass"}

// Preset returns the factory patch at index, or false when index is out of
// range.
func Preset(index int) (Params, bool) {
	if index < 0 || index >= NumPresets {
		return Params{}, false
	}
	p := InitPatch()
	switch index {
	case 1:
		p.Osc1Wave, p.Osc2Wave = WaveSaw, WaveSaw
		p.Osc1Level, p.Osc2Level = 0.7, 0.7
		p.Osc2Detune = 7
		p.FilterCutoff, p.FilterRes, p.FilterEnvAmount = 800, 0.2, 0.3
		p.AmpAttack, p.AmpDecay, p.AmpSustain, p.AmpRelease = 0.4, 0.5, 0.8, 0.8
		p.FilterAttack, p.FilterDecay, p.FilterSustain, p.FilterRelease = 0.5, 1.0, 0.4, 0.8
		p.VelToAmp, p.VelToFilter = 0.3, 0.2
		p.Level = 0.6
		p.LFORate, p.LFODepth = 0.25, 0.15
	case 2:
		p.Osc1Wave, p.Osc2Wave = WaveSaw, WaveSquare
		p.Osc1Level, p.Osc2Level = 1.0, 0.3
		p.FilterCutoff, p.FilterRes, p.FilterEnvAmount = 3000, 0.6, 0.7
		p.AmpAttack, p.AmpDecay, p.AmpSustain, p.AmpRelease = 0.001, 0.15, 0.3, 0.2
		p.FilterAttack, p.FilterDecay, p.FilterSustain, p.FilterRelease = 0.001, 0.2, 0.2, 0.15
		p.VelToAmp, p.VelToFilter = 0.8, 0.6
		p.Level = 0.7
	case 3:
		p.Osc1Wave, p.Osc2Wave = WaveSaw, WaveSquare
		p.Osc1Level, p.Osc2Level = 1.0, 0.6
		p.Osc2Detune = -12
		p.FilterCutoff, p.FilterRes, p.FilterEnvAmount = 500, 0.4, 0.6
		p.AmpAttack, p.AmpDecay, p.AmpSustain, p.AmpRelease = 0.005, 0.3, 0.6, 0.15
		p.FilterAttack, p.FilterDecay, p.FilterSustain, p.FilterRelease = 0.001, 0.25, 0.2, 0.1
		p.VelToAmp, p.VelToFilter = 0.7, 0.5
		p.Level = 0.8
	}
	return p, true
}

func PresetName(index int) string {
	if index < 0 || index >= NumPresets {
		return "Unknown"
	}
	return presetNames[index]
}
