// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: a .env
// file in the working directory is loaded once per process, then env.Parse
// populates any struct annotated with `env` field tags.
//
// # Usage
//
//	type DispatchConfig struct {
//	    Workers     int           `env:"DISPATCH_WORKERS" envDefault:"4"`
//	    SendTimeout time.Duration `env:"DISPATCH_SEND_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg DispatchConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors comparable with errors.Is:
//
//   - ErrParsingConfig – env vars could not be parsed into the struct.
//   - ErrNilPointer    – nil pointer passed to Load/MustLoad.
package config
