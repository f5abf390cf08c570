package upload

import (
	"time"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config controls how a Lifecycle simulates the transfer.
type Config struct {
	// SlowMode enables chunked stepping with progress events. When false the
	// whole upload commits synchronously inside Start and cannot be paused
	// or cancelled. Default is false.
	SlowMode bool `yaml:"slow_mode" default:"false"`

	// ChunkDelay is the simulated transfer time of one chunk.
	// Default is 10ms.
	ChunkDelay time.Duration `yaml:"chunk_delay" default:"10ms"`

	// ChunkSize is the number of bytes transferred per step.
	// Default is 64KiB.
	ChunkSize int `yaml:"chunk_size" default:"65536" validate:"min=1"`
}

// withDefaults returns the config with defaults applied and validated.
func (c Config) withDefaults() (Config, error) {
	if err := defaults.Set(&c); err != nil {
		return c, errx.Wrap(err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return c, errx.New("invalid upload config", errx.WithDetails(errx.D{"error": err}))
	}
	return c, nil
}
