package app

import (
	"errors"
	"fmt"
	"time"
)

// Modes accepted by Config.Mode.
const (
	ModeStrict  = "strict"
	ModeRelaxed = "relaxed"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath    string // .json or .hcl plan files
	CatalogPath string // .hcl table manifests

	Mode string

	// Serve starts the autocomplete server on Port instead of compiling.
	Serve bool
	Port  int
	// Remote sends the plans to a running server instead of compiling them
	// locally.
	Remote        string
	RemoteTimeout time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeStrict
	}
	switch {
	case cfg.Serve && cfg.Remote != "":
		return nil, errors.New("serve and remote cannot be used together")
	case cfg.Serve && cfg.Port <= 0:
		return nil, fmt.Errorf("serve needs a positive port, got %d", cfg.Port)
	case !cfg.Serve && cfg.PlanPath == "":
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	case cfg.Mode != ModeStrict && cfg.Mode != ModeRelaxed:
		return nil, fmt.Errorf("invalid mode %q: must be '%s' or '%s'", cfg.Mode, ModeStrict, ModeRelaxed)
	}
	return &cfg, nil
}
