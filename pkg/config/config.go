// pkg/config/config.go
package config

import (
	"fmt"
)

// Config is the top-level configuration for the solver and its CLI.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Solver  SolverConfig  `koanf:"solver"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// AppConfig holds general application metadata.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
}

// SolverConfig holds default tuning parameters for the lambda search. The
// CLI uses the lambda bracket and iteration cap as its flag defaults;
// emdflow.Solve reads no configuration, and Epsilon and
// ReinitIntervalDivisor are only loaded and validated.
type SolverConfig struct {
	DefaultLambdaLow      float64 `koanf:"default_lambda_low"`
	DefaultLambdaHigh     float64 `koanf:"default_lambda_high"`
	DefaultNumIterations  int     `koanf:"default_num_iterations"`
	Epsilon               float64 `koanf:"epsilon"`
	ReinitIntervalDivisor int     `koanf:"reinit_interval_divisor"`
}

// LogConfig holds structured logging settings, bound through pkg/elog.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error
	Format     string `koanf:"format"` // json, text
	Output     string `koanf:"output"` // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int  `koanf:"max_size"` // MB
	MaxBackups int  `koanf:"max_backups"`
	MaxAge     int  `koanf:"max_age"` // days
	Compress   bool `koanf:"compress"`
}

// MetricsConfig holds Prometheus registration settings.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// Validate checks the loaded configuration for internally-consistent values.
// It does not validate a particular solve call's Args; that happens at the
// solver boundary.
func (c *Config) Validate() error {
	var errs []string

	if c.Solver.DefaultLambdaLow <= 0 || c.Solver.DefaultLambdaHigh <= 0 {
		errs = append(errs, "solver.default_lambda_low and default_lambda_high must be > 0")
	}
	if c.Solver.DefaultLambdaLow > c.Solver.DefaultLambdaHigh {
		errs = append(errs, "solver.default_lambda_low must be <= default_lambda_high")
	}
	if c.Solver.DefaultNumIterations < 1 {
		errs = append(errs, "solver.default_num_iterations must be >= 1")
	}
	if c.Solver.Epsilon <= 0 {
		errs = append(errs, "solver.epsilon must be > 0")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug|info|warn|error", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %v", errs)
	}
	return nil
}
