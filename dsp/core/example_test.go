package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(96000),
		core.WithBlockSize(4096),
	)

	fmt.Printf("rate=%.0f block=%d valid=%v\n",
		cfg.SampleRate, cfg.BlockSize, cfg.Validate() == nil)

	// Output:
	// rate=96000 block=4096 valid=true
}

func ExampleClamp() {
	for _, v := range []float64{3.5, -2, 0.25} {
		fmt.Println(core.Clamp(v, -1, 1))
	}

	// Output:
	// 1
	// -1
	// 0.25
}
