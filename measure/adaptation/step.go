package adaptation

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-auditory/dsp/adaptloop"
	"github.com/cwbudde/algo-auditory/dsp/core"
	"github.com/cwbudde/algo-auditory/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the measurements.
var (
	ErrNilBank          = errors.New("adaptation: bank is nil")
	ErrInvalidLevel     = errors.New("adaptation: level must be > 0 and finite")
	ErrInvalidDuration  = errors.New("adaptation: duration must be > 0")
	ErrInvalidFrequency = errors.New("adaptation: modulation frequency out of range")
	ErrInvalidDepth     = errors.New("adaptation: modulation depth must be in (0, 1]")
	ErrNoSteadyState    = errors.New("adaptation: response settled to zero")
)

// SettlingTolerance is the relative band around the steady state used for
// [StepResult.SettlingTime].
const SettlingTolerance = 0.05

// steadyFraction is the trailing part of the response averaged for the
// steady-state estimate.
const steadyFraction = 0.1

// StepResult holds step-response metrics. Times are in seconds after onset.
type StepResult struct {
	Peak           float64
	PeakTime       float64
	SteadyState    float64 // mean over the last 10 % of the response
	Ripple         float64 // standard deviation over the same segment
	Expected       float64 // analytic steady state of the bank for the step level
	OvershootRatio float64 // Peak / SteadyState
	SettlingTime   float64 // last excursion outside SettlingTolerance ends here
	Settled        bool    // false if the response ends outside the band
	Response       []float64
}

// StepResponse resets bank, drives every channel with a step from silence to
// level lasting seconds, and analyses channel 0. Processing runs in chunks of
// the configured block size, so the measurement also exercises streaming.
// Response holds channel 0 normalized by the measured steady state.
func StepResponse(bank *adaptloop.Bank, level, seconds float64, opts ...core.ProcessorOption) (StepResult, error) {
	if err := checkBank(bank); err != nil {
		return StepResult{}, err
	}

	if !(level > 0) || math.IsInf(level, 0) {
		return StepResult{}, fmt.Errorf("%w: %g", ErrInvalidLevel, level)
	}

	fs := bank.SampleRate()
	gen := signal.NewGenerator(core.WithSampleRate(fs))

	n := gen.Samples(seconds)
	if !(seconds > 0) || n < 1 {
		return StepResult{}, fmt.Errorf("%w: %g s", ErrInvalidDuration, seconds)
	}

	stim, err := gen.Constant(level, n)
	if err != nil {
		return StepResult{}, err
	}

	cfg := core.ApplyProcessorOptions(opts...)

	bank.Reset()

	out, err := drive(bank, stim, cfg.BlockSize)
	if err != nil {
		return StepResult{}, err
	}

	var whole, settled levelStats
	whole.Update(out)
	settled.Update(out[n-max(1, int(float64(n)*steadyFraction)):])

	peak := whole.max
	steady := settled.Mean()

	if steady == 0 {
		return StepResult{}, ErrNoSteadyState
	}

	response := make([]float64, n)
	vecmath.ScaleBlock(response, out, 1/steady)

	last := -1
	for i, v := range response {
		if math.Abs(v-1) > SettlingTolerance {
			last = i
		}
	}

	return StepResult{
		Peak:           peak,
		PeakTime:       float64(whole.maxPos) / fs,
		SteadyState:    steady,
		Ripple:         settled.StdDev(),
		Expected:       bank.SteadyState(level),
		OvershootRatio: peak / steady,
		SettlingTime:   float64(last+1) / fs,
		Settled:        last < n-1,
		Response:       response,
	}, nil
}

func checkBank(bank *adaptloop.Bank) error {
	if bank == nil {
		return ErrNilBank
	}

	if !bank.Configured() {
		return fmt.Errorf("adaptation: %w", adaptloop.ErrNotConfigured)
	}

	return nil
}

// drive feeds stim to every channel of bank in blocks and returns the output
// of channel 0.
func drive(bank *adaptloop.Bank, stim []float64, blockSize int) ([]float64, error) {
	if blockSize < 1 {
		blockSize = len(stim)
	}

	channels := bank.Channels()
	out := make([]float64, len(stim))
	buf := make([]float64, channels*blockSize)

	for start := 0; start < len(stim); start += blockSize {
		m := min(blockSize, len(stim)-start)
		block := buf[:channels*m]

		for c := range channels {
			copy(block[c*m:(c+1)*m], stim[start:start+m])
		}

		if err := bank.ProcessInPlace(block); err != nil {
			return nil, fmt.Errorf("adaptation: %w", err)
		}

		copy(out[start:start+m], block[:m])
	}

	return out, nil
}
