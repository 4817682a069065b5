package signal_test

import (
	"fmt"

	"github.com/cwbudde/algo-reversedelay/dsp/core"
	"github.com/cwbudde/algo-reversedelay/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(core.WithSampleRate(8000))
	x, err := g.Sine(1000, 1, 4)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.3f %.3f %.3f %.3f\n", x[0], x[1], x[2], x[3])

	// Output:
	// 0.000 0.707 1.000 0.707
}

func ExampleGenerator_Impulse() {
	g := signal.NewGenerator()
	x, err := g.Impulse(1, 5, 2)
	if err != nil {
		panic(err)
	}
	fmt.Println(x)

	// Output:
	// [0 0 1 0 0]
}

func ExampleNormalize() {
	x, err := signal.Normalize([]float64{0.1, -0.4, 0.2}, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(x)

	// Output:
	// [0.25 -1 0.5]
}

func ExampleClip() {
	x, err := signal.Clip([]float64{-1.5, 0.25, 3}, -1, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(x)

	// Output:
	// [-1 0.25 1]
}
