package adaptloop

import (
	"fmt"
	"strings"
)

// Preset selects a published adaptation-loop parameter set.
type Preset int

const (
	// PresetDau1996 uses five loops with time constants of 5, 50, 129, 253 and
	// 500 ms, an overshoot limit of 10 and a 0 dB SPL minimum level.
	PresetDau1996 Preset = iota
	// PresetOsses2021 uses the Dau time constants with an overshoot limit of 5.
	PresetOsses2021
	// PresetPuschel1988 uses the Dau time constants without overshoot limiting.
	PresetPuschel1988
	// PresetBreebaart2001 uses five linearly spaced time constants between 5
	// and 500 ms without overshoot limiting.
	PresetBreebaart2001
)

// PresetParams holds the parameters a preset applies.
type PresetParams struct {
	TimeConstants []float64 // seconds, outer loop first
	Limit         float64   // overshoot limit; 1 disables limiting
	MinSPL        float64   // minimum level in dB SPL
}

func (p Preset) String() string {
	switch p {
	case PresetDau1996:
		return "dau1996"
	case PresetOsses2021:
		return "osses2021"
	case PresetPuschel1988:
		return "puschel1988"
	case PresetBreebaart2001:
		return "breebaart2001"
	default:
		return "unknown"
	}
}

// Presets returns all known presets.
func Presets() []Preset {
	return []Preset{PresetDau1996, PresetOsses2021, PresetPuschel1988, PresetBreebaart2001}
}

// ParsePreset resolves a preset from its name (case-insensitive).
func ParsePreset(name string) (Preset, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets() {
		if p.String() == want {
			return p, nil
		}
	}
	return 0, fmt.Errorf("adaptloop: unknown preset %q", name)
}

// PresetConfig returns the parameters of a preset. The returned time
// constants are a fresh copy.
func PresetConfig(preset Preset) (PresetParams, error) {
	dau := []float64{0.005, 0.050, 0.129, 0.253, 0.500}

	switch preset {
	case PresetDau1996:
		return PresetParams{TimeConstants: dau, Limit: 10, MinSPL: 0}, nil
	case PresetOsses2021:
		return PresetParams{TimeConstants: dau, Limit: 5, MinSPL: 0}, nil
	case PresetPuschel1988:
		return PresetParams{TimeConstants: dau, Limit: 1, MinSPL: 0}, nil
	case PresetBreebaart2001:
		return PresetParams{
			TimeConstants: linspace(0.005, 0.5, 5),
			Limit:         1,
			MinSPL:        0,
		}, nil
	default:
		return PresetParams{}, fmt.Errorf("adaptloop: invalid preset: %d", preset)
	}
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}
