package core

import (
	"math"
	"unsafe"
)

// Float is the set of sample types the processors are instantiated for.
type Float interface {
	~float32 | ~float64
}

// Fill sets all values in buf to v.
func Fill[F Float](buf []F, v F) {
	for i := range buf {
		buf[i] = v
	}
}

// MaxFinite returns the largest finite value of F.
func MaxFinite[F Float]() F {
	var zero F
	if unsafe.Sizeof(zero) == 4 {
		return F(math.MaxFloat32)
	}

	m := math.MaxFloat64

	return F(m)
}
