package effects

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse builds an effect from a text description such as
// "delay 1/8,0.4,0.2,0.3" or "reverb 0.6,0.7,0.3,0.2". Missing parameters
// take defaults. A delay time written as a fraction is tempo synced.
func Parse(desc string, sampleRate int, bpm float64) (Effector, error) {
	desc = strings.TrimSpace(desc)
	desc = strings.TrimPrefix(desc, "{")
	desc = strings.TrimSuffix(desc, "}")
	parts := strings.SplitN(strings.TrimSpace(desc), " ", 2)
	kind := strings.ToLower(strings.TrimSpace(parts[0]))
	var raw []string
	if len(parts) > 1 {
		for _, p := range strings.Split(parts[1], ",") {
			raw = append(raw, strings.TrimSpace(p))
		}
	}

	division := 0.0
	if kind == "delay" && len(raw) > 0 && strings.Contains(raw[0], "/") {
		v, err := parseFraction(raw[0])
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", desc, err)
		}
		division = v
		raw[0] = "0"
	}
	params := make([]float64, len(raw))
	for i, p := range raw {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("effect %q: parameter %d: %w", desc, i, err)
		}
		params[i] = v
	}
	get := func(idx int, def float64) float64 {
		if idx < len(params) {
			return params[idx]
		}
		return def
	}

	switch kind {
	case "delay":
		fb, cross, wet := float32(get(1, 0.4)), float32(get(2, 0.2)), float32(get(3, 0.3))
		if division > 0 {
			return NewSyncedDelay(sampleRate, division, bpm, fb, cross, wet), nil
		}
		return NewDelay(sampleRate, get(0, 250), fb, cross, wet), nil
	case "reverb":
		return NewReverb(sampleRate,
			float32(get(0, 0.5)),  // room size
			float32(get(1, 0.7)),  // feedback
			float32(get(2, 0.2)),  // damping
			float32(get(3, 0.25)), // wet
		), nil
	case "drive", "dist":
		return NewDrive(sampleRate,
			float32(get(0, 2)),
			float32(get(1, 0.7)),
			float32(get(2, 8000)),
		), nil
	case "comp", "compressor":
		return NewCompressor(sampleRate, get(0, -18), get(1, 3), get(2, 5), get(3, 120), get(4, 3)), nil
	case "eq":
		eq := NewEQ(sampleRate)
		for b := 0; b < NumBands; b++ {
			eq.SetGain(b, float32(get(b, 1)))
		}
		return eq, nil
	case "clip":
		return NewClipper(float32(get(0, 1))), nil
	}
	return nil, fmt.Errorf("unknown effect %q", kind)
}

// ParseChain builds a chain from several descriptions.
func ParseChain(descs []string, sampleRate int, bpm float64) (*Chain, error) {
	c := NewChain()
	for _, d := range descs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		e, err := Parse(d, sampleRate, bpm)
		if err != nil {
			return nil, err
		}
		c.Add(e)
	}
	return c, nil
}

func parseFraction(s string) (float64, error) {
	num, den, _ := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("zero denominator in %q", s)
	}
	return n / d, nil
}
