package adaptloop

import (
	"fmt"

	"github.com/cwbudde/algo-auditory/dsp/core"
)

// OutputScale selects how the cascade output is scaled.
type OutputScale int

const (
	// OutputUnit scales the cascade output by the configured multiplier, so a
	// unit input settles to the multiplier.
	OutputUnit OutputScale = iota
	// OutputModelUnits maps the minimum level to 0 and a unit input to 100
	// model units.
	OutputModelUnits
)

func (s OutputScale) String() string {
	switch s {
	case OutputUnit:
		return "unit"
	case OutputModelUnits:
		return "model_units"
	default:
		return "unknown"
	}
}

// LimiterMode selects how the per-loop overshoot limiter sets its ceiling.
type LimiterMode int

const (
	// LimiterEquilibrium compresses each loop output relative to the loop's
	// equilibrium output for the current input sample. A step to any level V
	// then peaks below limit times the steady state for V.
	LimiterEquilibrium LimiterMode = iota
	// LimiterMuenkner uses the fixed ceiling (1-r^2)*limit per loop, where r
	// is the loop's rest level at the minimum input, as in the classic
	// Münkner limiter. The ceiling does not follow the input level.
	LimiterMuenkner
)

func (m LimiterMode) String() string {
	switch m {
	case LimiterEquilibrium:
		return "equilibrium"
	case LimiterMuenkner:
		return "muenkner"
	default:
		return "unknown"
	}
}

const (
	defaultMultiplier = 1.0
	modelUnitsScale   = 100.0
)

// Option mutates a bank configuration.
type Option func(*config) error

type config struct {
	timeConstants []float64
	limit         float64
	minLevel      float64
	outputScale   OutputScale
	multiplier    float64
	limiterMode   LimiterMode
	resetState    bool
}

func defaultConfig() config {
	params, _ := PresetConfig(PresetDau1996)

	return config{
		timeConstants: params.TimeConstants,
		limit:         params.Limit,
		minLevel:      core.SPLToLinear(params.MinSPL, core.DefaultDBOffset),
		outputScale:   OutputUnit,
		multiplier:    defaultMultiplier,
		limiterMode:   LimiterEquilibrium,
		resetState:    true,
	}
}

func (c config) clone() config {
	c.timeConstants = append([]float64(nil), c.timeConstants...)
	return c
}

// WithTimeConstants sets one time constant in seconds per loop, outer loop
// first. The count must match the bank's loop count.
func WithTimeConstants(taus ...float64) Option {
	return func(cfg *config) error {
		if err := validateTimeConstants(taus); err != nil {
			return err
		}

		cfg.timeConstants = append(cfg.timeConstants[:0:0], taus...)

		return nil
	}
}

// WithLimit sets the overshoot limit. Values in (0, 1] disable limiting.
func WithLimit(limit float64) Option {
	return func(cfg *config) error {
		if err := validateFinitePositive(limit, "overshoot limit"); err != nil {
			return err
		}

		cfg.limit = limit

		return nil
	}
}

// WithMinLevel sets the linear minimum input level in (0, 1).
func WithMinLevel(level float64) Option {
	return func(cfg *config) error {
		if err := validateMinLevel(level); err != nil {
			return err
		}

		cfg.minLevel = level

		return nil
	}
}

// WithMinSPL sets the minimum input level in dB SPL, where 100 dB SPL is a
// linear amplitude of 1.
func WithMinSPL(spl float64) Option {
	return func(cfg *config) error {
		level := core.SPLToLinear(spl, core.DefaultDBOffset)
		if err := validateMinLevel(level); err != nil {
			return fmt.Errorf("%w (from %g dB SPL)", err, spl)
		}

		cfg.minLevel = level

		return nil
	}
}

// WithPreset applies the time constants, limit and minimum level of preset.
func WithPreset(preset Preset) Option {
	return func(cfg *config) error {
		params, err := PresetConfig(preset)
		if err != nil {
			return err
		}

		cfg.timeConstants = params.TimeConstants
		cfg.limit = params.Limit
		cfg.minLevel = core.SPLToLinear(params.MinSPL, core.DefaultDBOffset)

		return nil
	}
}

// WithOutputScale selects unit or model-unit output scaling.
func WithOutputScale(scale OutputScale) Option {
	return func(cfg *config) error {
		if scale != OutputUnit && scale != OutputModelUnits {
			return fmt.Errorf("%w: invalid output scale: %d", ErrInvalidConfig, scale)
		}

		cfg.outputScale = scale

		return nil
	}
}

// WithMultiplier sets the output gain used with [OutputUnit]. Model-unit
// scaling derives its own multiplier.
func WithMultiplier(multiplier float64) Option {
	return func(cfg *config) error {
		if err := validateFinitePositive(multiplier, "multiplier"); err != nil {
			return err
		}

		cfg.multiplier = multiplier

		return nil
	}
}

// WithLimiterMode selects the limiter ceiling rule.
func WithLimiterMode(mode LimiterMode) Option {
	return func(cfg *config) error {
		if mode != LimiterEquilibrium && mode != LimiterMuenkner {
			return fmt.Errorf("%w: invalid limiter mode: %d", ErrInvalidConfig, mode)
		}

		cfg.limiterMode = mode

		return nil
	}
}

// WithResetState controls whether Configure returns the loops to their rest
// state (the default) or keeps the running state so a stream continues
// through the reconfiguration. The first Configure of a bank always resets.
func WithResetState(reset bool) Option {
	return func(cfg *config) error {
		cfg.resetState = reset
		return nil
	}
}
