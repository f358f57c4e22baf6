package adaptation

import "math"

// levelStats accumulates the maximum and a Welford running mean/variance over
// consecutive blocks of a bank output. Feeding a signal in blocks gives the
// same result as feeding it at once.
type levelStats struct {
	n      int
	mean   float64
	m2     float64
	sumSq  float64
	max    float64
	maxPos int
}

// Update adds a block of samples.
func (s *levelStats) Update(samples []float64) {
	for _, x := range samples {
		if s.n == 0 || x > s.max {
			s.max, s.maxPos = x, s.n
		}

		s.n++
		delta := x - s.mean
		s.mean += delta / float64(s.n)
		s.m2 += delta * (x - s.mean)
		s.sumSq += x * x
	}
}

// Mean returns the running mean, 0 before any sample.
func (s *levelStats) Mean() float64 { return s.mean }

// StdDev returns the population standard deviation.
func (s *levelStats) StdDev() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.n))
}

// RMS returns the root mean square.
func (s *levelStats) RMS() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.sumSq / float64(s.n))
}
