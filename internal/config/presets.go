package config

import "sort"

// Presets are named spring feels, all stable at the default step rate.
var Presets = map[string]SpringConfig{
	"default":  {Tension: 170, Friction: 26, Mass: 1, Precision: 0.01, StepRate: 120, MaxSubsteps: 1200},
	"gentle":   {Tension: 120, Friction: 14, Mass: 1, Precision: 0.01, StepRate: 120, MaxSubsteps: 1200},
	"wobbly":   {Tension: 180, Friction: 12, Mass: 1, Precision: 0.01, StepRate: 120, MaxSubsteps: 1200},
	"stiff":    {Tension: 210, Friction: 20, Mass: 1, Precision: 0.01, StepRate: 120, MaxSubsteps: 1200},
	"slow":     {Tension: 280, Friction: 60, Mass: 1, Precision: 0.01, StepRate: 120, MaxSubsteps: 1200},
	"molasses": {Tension: 280, Friction: 120, Mass: 1, Precision: 0.01, StepRate: 120, MaxSubsteps: 1200},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Spring = p
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
