package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-auditory/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=256
}

func ExampleSPLToLinear() {
	fmt.Printf("%.0e %.1f\n", core.SPLToLinear(0, core.DefaultDBOffset), core.SPLToLinear(100, core.DefaultDBOffset))

	// Output:
	// 1e-05 1.0
}
