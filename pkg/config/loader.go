package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load populates the configuration struct from environment variables based on
// its `env` field tags. A .env file in the working directory, if present, is
// loaded into the process environment once per process before the first parse;
// a missing file is not an error.
//
// Example:
//
//	type DispatchConfig struct {
//		Workers     int           `env:"DISPATCH_WORKERS" envDefault:"4"`
//		SendTimeout time.Duration `env:"DISPATCH_SEND_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg DispatchConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
