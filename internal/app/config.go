package app

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string `validate:"dive,required"` // hcl files or directories, merged over the built-ins

	BrokerURL string `validate:"omitempty,url"`
	ClientID  string

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	LogFile         string
	HealthcheckPort int `validate:"gte=0,lte=65535"`

	Headless     bool
	SnapshotPath string
	Watch        bool
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if cfg.Watch && len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("--watch needs at least one --config path")
	}
	return &cfg, nil
}
