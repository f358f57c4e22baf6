package adaptation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-auditory/dsp/adaptloop"
	"github.com/cwbudde/algo-auditory/dsp/core"
	"github.com/cwbudde/algo-auditory/dsp/signal"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// settlePeriods is the length of the discarded lead-in in analysis frames.
const settlePeriods = 2

// MTFPoint is the modulation transfer at one modulation frequency.
type MTFPoint struct {
	Frequency   float64 // requested modulation frequency in Hz
	Actual      float64 // frequency used, snapped to an analysis bin
	InputDepth  float64
	Mean        float64 // mean output over the analysis frame
	RMS         float64
	OutputDepth float64 // modulation amplitude / mean of the output
	GainDB      float64 // 20*log10(OutputDepth/InputDepth)
	Distortion  float64 // rms of the 2nd and 3rd envelope harmonics relative to the fundamental
}

// ModulationTransfer measures the modulation transfer of bank for each
// frequency in freqs. The stimulus is a SAM envelope of mean level and the
// given depth. After a lead-in of two analysis frames, one frame of at least
// one second (a power of two in samples) is analysed with an FFT. Each
// frequency is snapped to the nearest bin, so the frame holds an integer
// number of modulation periods and no window is needed.
func ModulationTransfer(bank *adaptloop.Bank, freqs []float64, depth, level float64, opts ...core.ProcessorOption) ([]MTFPoint, error) {
	if err := checkBank(bank); err != nil {
		return nil, err
	}

	if !(depth > 0 && depth <= 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidDepth, depth)
	}

	if !(level > 0) || math.IsInf(level, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidLevel, level)
	}

	fs := bank.SampleRate()
	frame := nextPowerOf2(int(math.Ceil(fs)))
	binHz := fs / float64(frame)

	bins := make([]int, len(freqs))
	for i, f := range freqs {
		k := int(math.Round(f / binHz))
		if !(f > 0) || k < 1 || k >= frame/2 {
			return nil, fmt.Errorf("%w: %g Hz (resolution %g Hz, nyquist %g Hz)",
				ErrInvalidFrequency, f, binHz, fs/2)
		}
		bins[i] = k
	}

	plan, err := algofft.NewPlan64(frame)
	if err != nil {
		return nil, fmt.Errorf("adaptation: fft plan: %w", err)
	}

	cfg := core.ApplyProcessorOptions(opts...)
	gen := signal.NewGenerator(core.WithSampleRate(fs))

	in := make([]complex128, frame)
	spectrum := make([]complex128, frame)
	half := frame/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	mag := make([]float64, half)
	pow := make([]float64, half)

	points := make([]MTFPoint, len(freqs))
	for i, k := range bins {
		actual := float64(k) * binHz

		stim, err := gen.SAM(level, actual, depth, (settlePeriods+1)*frame)
		if err != nil {
			return nil, fmt.Errorf("adaptation: %w", err)
		}

		bank.Reset()

		out, err := drive(bank, stim, cfg.BlockSize)
		if err != nil {
			return nil, err
		}

		analysed := out[settlePeriods*frame:]
		for t, v := range analysed {
			in[t] = complex(v, 0)
		}

		var stats levelStats
		stats.Update(analysed)

		if err := plan.Forward(spectrum, in); err != nil {
			return nil, fmt.Errorf("adaptation: fft: %w", err)
		}

		for b := range half {
			re[b] = real(spectrum[b])
			im[b] = imag(spectrum[b])
		}

		vecmath.Magnitude(mag, re, im)
		vecmath.Power(pow, re, im)

		mean := stats.Mean()
		if mean == 0 || mag[0] == 0 {
			return nil, ErrNoSteadyState
		}

		// Bin k over the DC bin is independent of the transform scaling.
		outDepth := 2 * mag[k] / mag[0]

		harmonics := 0.0
		for h := 2; h <= 3 && h*k < half; h++ {
			harmonics += pow[h*k]
		}

		distortion := 0.0
		if pow[k] > 0 {
			distortion = math.Sqrt(harmonics / pow[k])
		}

		points[i] = MTFPoint{
			Frequency:   freqs[i],
			Actual:      actual,
			InputDepth:  depth,
			Mean:        mean,
			RMS:         stats.RMS(),
			OutputDepth: outDepth,
			GainDB:      core.LinearToDB(outDepth / depth),
			Distortion:  distortion,
		}
	}

	return points, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
