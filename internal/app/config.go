package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath string // .hcl plan file or directory

	LogFormat string
	LogLevel  string

	// Workers selects the execution mode: 0 or 1 runs the deterministic
	// sequential engine, anything higher opts in to the parallel mode.
	Workers int
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
