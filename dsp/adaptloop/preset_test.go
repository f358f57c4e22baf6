package adaptloop

import (
	"math"
	"testing"
)

func TestPresetConfig(t *testing.T) {
	tests := []struct {
		preset Preset
		name   string
		limit  float64
		taus   []float64
	}{
		{PresetDau1996, "dau1996", 10, dauTaus},
		{PresetOsses2021, "osses2021", 5, dauTaus},
		{PresetPuschel1988, "puschel1988", 1, dauTaus},
		{PresetBreebaart2001, "breebaart2001", 1, []float64{0.005, 0.12875, 0.2525, 0.37625, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.preset.String() != tt.name {
				t.Fatalf("String() = %q, want %q", tt.preset.String(), tt.name)
			}

			params, err := PresetConfig(tt.preset)
			if err != nil {
				t.Fatalf("PresetConfig() error = %v", err)
			}
			if params.Limit != tt.limit || params.MinSPL != 0 {
				t.Fatalf("limit=%v minSPL=%v, want %v 0", params.Limit, params.MinSPL, tt.limit)
			}
			if len(params.TimeConstants) != len(tt.taus) {
				t.Fatalf("got %d time constants, want %d", len(params.TimeConstants), len(tt.taus))
			}
			for i, tau := range tt.taus {
				if math.Abs(params.TimeConstants[i]-tau) > 1e-15 {
					t.Fatalf("tau[%d] = %v, want %v", i, params.TimeConstants[i], tau)
				}
			}

			parsed, err := ParsePreset("  " + tt.name + " ")
			if err != nil || parsed != tt.preset {
				t.Fatalf("ParsePreset(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}
}

func TestPresetConfigReturnsCopies(t *testing.T) {
	a, _ := PresetConfig(PresetDau1996)
	a.TimeConstants[0] = 42

	b, _ := PresetConfig(PresetDau1996)
	if b.TimeConstants[0] != 0.005 {
		t.Fatalf("preset table mutated: %v", b.TimeConstants)
	}
}

func TestPresetErrors(t *testing.T) {
	if _, err := ParsePreset("dau2099"); err == nil {
		t.Fatal("ParsePreset accepted an unknown name")
	}
	if _, err := PresetConfig(Preset(99)); err == nil {
		t.Fatal("PresetConfig accepted an unknown preset")
	}
	if got := Preset(99).String(); got != "unknown" {
		t.Fatalf("String() = %q, want unknown", got)
	}
}

func TestWithPreset(t *testing.T) {
	b := mustBank(t, 1, 44100, WithPreset(PresetOsses2021))

	if b.Limit() != 5 || !b.Limiting() {
		t.Fatalf("limit = %v limiting = %v, want 5 true", b.Limit(), b.Limiting())
	}
	if math.Abs(b.MinLevel()-1e-5) > 1e-20 {
		t.Fatalf("MinLevel() = %v, want 1e-5", b.MinLevel())
	}

	if err := b.Configure(44100, WithPreset(PresetBreebaart2001)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if b.Limiting() {
		t.Fatal("breebaart2001 should not limit")
	}
	if taus := b.TimeConstants(); math.Abs(taus[1]-0.12875) > 1e-15 {
		t.Fatalf("TimeConstants() = %v", taus)
	}

	// Options after the preset override it.
	if err := b.Configure(44100, WithPreset(PresetDau1996), WithLimit(3)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if b.Limit() != 3 {
		t.Fatalf("Limit() = %v, want 3", b.Limit())
	}
}

func TestEnumStrings(t *testing.T) {
	if OutputUnit.String() != "unit" || OutputModelUnits.String() != "model_units" || OutputScale(5).String() != "unknown" {
		t.Fatal("unexpected OutputScale names")
	}
	if LimiterEquilibrium.String() != "equilibrium" || LimiterMuenkner.String() != "muenkner" || LimiterMode(5).String() != "unknown" {
		t.Fatal("unexpected LimiterMode names")
	}
}
