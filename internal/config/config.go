// Package config loads and saves scenario files describing one rocket launch.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/aquasim/internal/airframe"
	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/sim"
)

const DefaultName = "default"

// Config is a launch scenario. All quantities are SI.
type Config struct {
	Name string `yaml:"name"`

	// DragTable is a path to a drag CSV. Empty selects the built-in table.
	DragTable string `yaml:"drag_table,omitempty"`

	Propulsion propulsion.Params    `yaml:"propulsion"`
	Constants  propulsion.Constants `yaml:"constants"`
	Limits     sim.Limits           `yaml:"limits"`
	Rocket     flight.Rocket        `yaml:"rocket"`
	Tank       airframe.Tank        `yaml:"tank"`
	Flight     flight.Config        `yaml:"flight"`
}

func DefaultConfig() *Config {
	return GetPreset(DefaultName)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FrontalArea returns the rocket's frontal area, falling back to the tank
// cross-section when none is set.
func (c *Config) FrontalArea() float64 {
	if c.Rocket.FrontalArea > 0 {
		return c.Rocket.FrontalArea
	}
	return c.Tank.FrontalArea()
}

// ResolvedRocket is the rocket with its frontal area filled in.
func (c *Config) ResolvedRocket() flight.Rocket {
	r := c.Rocket
	r.FrontalArea = c.FrontalArea()
	return r
}

func (c *Config) Validate() error {
	if err := c.Propulsion.Validate(); err != nil {
		return fmt.Errorf("propulsion: %w", err)
	}
	if err := c.Constants.Validate(); err != nil {
		return fmt.Errorf("constants: %w", err)
	}
	if err := c.ResolvedRocket().Validate(); err != nil {
		return fmt.Errorf("rocket: %w", err)
	}
	if err := c.Tank.Validate(); err != nil {
		return fmt.Errorf("tank: %w", err)
	}
	if err := c.Flight.Validate(); err != nil {
		return fmt.Errorf("flight: %w", err)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
