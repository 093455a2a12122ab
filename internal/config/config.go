package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/spring"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultTarget   = 100.0
)

type Config struct {
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	// From and To hold one number for a scalar spring, more for a vector.
	From   []float64    `yaml:"from"`
	To     []float64    `yaml:"to"`
	Spring SpringConfig `yaml:"spring"`
}

type SpringConfig struct {
	Tension     float64 `yaml:"tension"`
	Friction    float64 `yaml:"friction"`
	Mass        float64 `yaml:"mass"`
	Precision   float64 `yaml:"precision"`
	StepRate    float64 `yaml:"step_rate"`
	MaxSubsteps int     `yaml:"max_substeps"`
}

func DefaultSpring() SpringConfig {
	return SpringConfig{
		Tension:     physics.DefaultTension,
		Friction:    physics.DefaultFriction,
		Mass:        physics.DefaultMass,
		Precision:   spring.DefaultPrecision,
		StepRate:    integrators.DefaultStepRate,
		MaxSubsteps: integrators.DefaultMaxSubsteps,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "semi",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		From:       []float64{0},
		To:         []float64{DefaultTarget},
		Spring:     DefaultSpring(),
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

// ApplyPreset replaces the spring parameters with the named preset's.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	c.Spring = p
	return nil
}

// SpringOptions converts the config into spring options. The result is
// validated by spring.New, not here.
func (c *Config) SpringOptions() (spring.Options, error) {
	from, err := toValue("from", c.From)
	if err != nil {
		return spring.Options{}, err
	}
	to, err := toValue("to", c.To)
	if err != nil {
		return spring.Options{}, err
	}

	opts := spring.DefaultOptions()
	opts.Value = from
	opts.Target = to
	opts.Tension = c.Spring.Tension
	opts.Friction = c.Spring.Friction
	opts.Mass = c.Spring.Mass
	opts.Precision = c.Spring.Precision
	opts.StepRate = c.Spring.StepRate
	opts.MaxSubsteps = c.Spring.MaxSubsteps
	return opts, nil
}

func toValue(name string, xs []float64) (dynamo.Value, error) {
	switch len(xs) {
	case 0:
		return dynamo.Value{}, &dynamo.ParamError{Param: name + " length", Value: 0, Wrapped: dynamo.ErrShapeMismatch}
	case 1:
		return dynamo.Scalar(xs[0]), nil
	default:
		return dynamo.Vector(xs...), nil
	}
}
