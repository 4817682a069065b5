package reversedelay_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reversedelay/dsp/reversedelay"
)

func ExampleEngine_ProcessInPlace() {
	engine, err := reversedelay.New(48000)
	if err != nil {
		fmt.Println("error")
		return
	}

	_ = engine.SetTime(0.3)
	_ = engine.SetMix(0.6)
	_ = engine.SetFeedback(0.2)

	buf := make([]float64, 512)
	for i := range 128 {
		buf[i] = math.Sin(2 * math.Pi * 330 * float64(i) / 48000)
	}

	engine.ProcessInPlace(buf)
	fmt.Printf("len=%d\n", len(buf))
	// Output:
	// len=512
}

func ExampleNew() {
	engine, err := reversedelay.New(48000, reversedelay.WithFadeSeconds(0.1))
	if err != nil {
		fmt.Println("error")
		return
	}

	fmt.Printf("capacity=%d fade=%d window=[%d %d]\n",
		engine.BufferCapacity(), engine.FadeSamples(),
		engine.MinDelaySamples(), engine.MaxDelaySamples())
	// Output:
	// capacity=96000 fade=4800 window=[5280 90720]
}
