package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-auditory/dsp/core"
)

// Generator creates deterministic envelope stimuli from a shared configuration.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{cfg: core.ApplyProcessorOptions(opts...)}
}

// Samples converts a duration in seconds to a sample count at the configured
// sample rate, rounding to the nearest sample.
func (g *Generator) Samples(seconds float64) int {
	return int(math.Round(seconds * g.cfg.SampleRate))
}

// Constant generates samples of a fixed level.
func (g *Generator) Constant(level float64, samples int) ([]float64, error) {
	return g.Step(level, 0, samples)
}

// Step generates onset samples of silence followed by level.
func (g *Generator) Step(level float64, onset, samples int) ([]float64, error) {
	if err := g.check("step", samples); err != nil {
		return nil, err
	}
	if onset < 0 || onset > samples {
		return nil, fmt.Errorf("step onset must be in [0, %d]: %d", samples, onset)
	}
	out := make([]float64, samples)
	core.Fill(out[onset:], level)
	return out, nil
}

// SAM generates a sinusoidally amplitude-modulated envelope
// level*(1 + depth*sin(2*pi*modHz*t)), the envelope of a SAM tone after
// rectification. depth must be in [0, 1] so the envelope never goes negative.
func (g *Generator) SAM(level, modHz, depth float64, samples int) ([]float64, error) {
	if err := g.check("sam", samples); err != nil {
		return nil, err
	}
	if !(depth >= 0 && depth <= 1) {
		return nil, fmt.Errorf("sam depth must be in [0, 1]: %f", depth)
	}
	if !(modHz >= 0 && modHz < g.cfg.SampleRate/2) {
		return nil, fmt.Errorf("sam modulation frequency must be in [0, %f): %f", g.cfg.SampleRate/2, modHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * modHz / g.cfg.SampleRate
	for i := range out {
		out[i] = level * (1 + depth*math.Sin(step*float64(i)))
	}
	return out, nil
}

func (g *Generator) check(kind string, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%s samples must be > 0: %d", kind, samples)
	}
	if g.cfg.SampleRate <= 0 {
		return fmt.Errorf("%s sample rate must be > 0: %f", kind, g.cfg.SampleRate)
	}
	return nil
}
