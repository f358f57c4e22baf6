package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// RectifiedNoise generates half-wave rectified deterministic noise, a stand-in
// for an inner-hair-cell envelope.
func RectifiedNoise(seed int64, amplitude float64, length int) []float64 {
	out := DeterministicNoise(seed, amplitude, length)
	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out
}

// Step generates onset zeros followed by level until length.
func Step(level float64, onset, length int) []float64 {
	out := make([]float64, length)
	for i := max(onset, 0); i < length; i++ {
		out[i] = level
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	return Step(value, 0, length)
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
