package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/profile"
	"github.com/kbukum/xfer/validation"
)

// Config is the content of an xfer configuration file.
type Config struct {
	// Library selects the registered native library by name.
	Library string `yaml:"library" mapstructure:"library"`

	Logging   logger.Config `yaml:"logging" mapstructure:"logging"`
	Telemetry Telemetry     `yaml:"telemetry" mapstructure:"telemetry"`
	Retry     Retry         `yaml:"retry" mapstructure:"retry"`

	// Profile applies to every transfer; Profiles are merged over it by name.
	Profile  profile.Profile            `yaml:"profile" mapstructure:"profile"`
	Profiles map[string]profile.Profile `yaml:"profiles" mapstructure:"profiles"`
}

// Telemetry configures OTLP export of transfer spans and metrics.
type Telemetry struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"`
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// Retry configures retries of transient transfer failures.
type Retry struct {
	Attempts       int           `yaml:"attempts" mapstructure:"attempts" validate:"gte=0"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gte=0"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gte=0"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.Library == "" {
		c.Library = "engine"
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "xfer"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Profile.UserAgent == "" {
		c.Profile.UserAgent = profile.Default().UserAgent
	}
}

// Validate validates the configuration and every profile in it.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := validation.Validate(c.Telemetry); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	if err := validation.Validate(c.Retry); err != nil {
		return fmt.Errorf("config.retry: %w", err)
	}
	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("config.profile: %w", err)
	}
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		p := c.Profiles[name]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("config.profiles.%s: %w", name, err)
		}
	}
	return nil
}

// Select returns the base profile with the named one merged over it. An
// empty name returns the base profile.
func (c *Config) Select(name string) (profile.Profile, error) {
	p := c.Profile
	p.Headers = slices.Clone(p.Headers)
	p.Resolve = slices.Clone(p.Resolve)
	if name == "" {
		return p, nil
	}
	named, ok := c.Profiles[name]
	if !ok {
		return profile.Profile{}, fmt.Errorf("config: unknown profile %q", name)
	}
	p.Merge(named)
	return p, nil
}
