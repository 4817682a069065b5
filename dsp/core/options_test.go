package core

import (
	"math"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(44100), WithBlockSize(512))

	want := ProcessorConfig{SampleRate: 44100, BlockSize: 512}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestOptionsIgnoreUnusableValues(t *testing.T) {
	tests := map[string]ProcessorOption{
		"zero rate":      WithSampleRate(0),
		"negative rate":  WithSampleRate(-48000),
		"NaN rate":       WithSampleRate(math.NaN()),
		"Inf rate":       WithSampleRate(math.Inf(1)),
		"zero block":     WithBlockSize(0),
		"negative block": WithBlockSize(-1),
		"nil option":     nil,
	}

	for name, opt := range tests {
		t.Run(name, func(t *testing.T) {
			if cfg := ApplyProcessorOptions(opt); cfg != DefaultProcessorConfig() {
				t.Fatalf("cfg = %+v, want defaults", cfg)
			}
		})
	}
}

func TestProcessorConfigValidate(t *testing.T) {
	if err := DefaultProcessorConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := []ProcessorConfig{
		{SampleRate: 0, BlockSize: 256},
		{SampleRate: math.Inf(1), BlockSize: 256},
		{SampleRate: 48000, BlockSize: 0},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("Validate(%#v) expected error", cfg)
		}
	}
}
