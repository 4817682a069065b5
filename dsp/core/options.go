package core

import (
	"fmt"
	"math"
)

// ProcessorConfig carries the settings shared by the signal generator and
// the offline front-ends.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns defaults suitable for offline and
// streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, BlockSize: 1024}
}

// validRate reports whether r is a usable sample rate: positive and finite.
func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}

// WithSampleRate sets the processing sample rate. Non-finite or
// non-positive rates leave the config unchanged.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if !validRate(sampleRate) {
			return
		}
		cfg.SampleRate = sampleRate
	}
}

// WithBlockSize sets the processing block size. Non-positive sizes leave
// the config unchanged.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize <= 0 {
			return
		}
		cfg.BlockSize = blockSize
	}
}

// ApplyProcessorOptions applies options on top of the default config. Nil
// options are skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Validate reports whether the configuration can drive a processor.
func (cfg ProcessorConfig) Validate() error {
	if !validRate(cfg.SampleRate) {
		return fmt.Errorf("sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", cfg.BlockSize)
	}
	return nil
}
