package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFramerate  = 60.0
	DefaultEnd        = 10.0
	DefaultStepper    = "rk45"
	DefaultInternalDt = 1e-3
	DefaultTolerance  = 1e-6
)

// Config describes one run: which example model to wire, how to drive
// it, and optional overrides for initial values and model parameters.
type Config struct {
	Model      string               `yaml:"model"`
	Stepper    string               `yaml:"stepper"`
	End        float64              `yaml:"end"`
	Framerate  float64              `yaml:"framerate"`
	InternalDt float64              `yaml:"internal_dt"`
	Tolerance  float64              `yaml:"tolerance"`
	StopAfter  float64              `yaml:"stop_after,omitempty"`
	Inits      map[string][]float64 `yaml:"inits,omitempty"`
	Params     map[string]float64   `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "oscillator",
		Stepper:    DefaultStepper,
		End:        DefaultEnd,
		Framerate:  DefaultFramerate,
		InternalDt: DefaultInternalDt,
		Tolerance:  DefaultTolerance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model is required")
	}
	if c.End <= 0 {
		return fmt.Errorf("config: end must be positive, got %f", c.End)
	}
	if c.Framerate <= 0 {
		return fmt.Errorf("config: framerate must be positive, got %f", c.Framerate)
	}
	return nil
}
