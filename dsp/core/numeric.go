package core

import "math"

// DefaultDBOffset is the level in dB SPL that corresponds to a linear
// amplitude of 1.
const DefaultDBOffset = 100.0

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// SPLToLinear converts a sound pressure level in dB SPL to a linear
// amplitude, where dbOffset dB SPL maps to 1.
func SPLToLinear(spl, dbOffset float64) float64 {
	return DBToLinear(spl - dbOffset)
}

// LinearToSPL converts a linear amplitude to dB SPL, where 1 maps to
// dbOffset dB SPL. Returns -Inf for zero and NaN for negative values.
func LinearToSPL(linear, dbOffset float64) float64 {
	return LinearToDB(linear) + dbOffset
}
