package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Energy is the mean stored energy over the observed samples.
type Energy struct {
	name        string
	model       dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(model dynamo.Hamiltonian) *Energy {
	return &Energy{
		name:  "energy",
		model: model,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Sample) {
	e.totalEnergy += e.model.Energy(s.Phase, s.Target)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative gain in energy over the first
// sample. A damped spring only loses energy, so anything above zero was
// injected by the integrator.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	model         dynamo.Hamiltonian
}

func NewEnergyDrift(model dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		model: model,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Sample) {
	energy := e.model.Energy(s.Phase, s.Target)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := (energy - e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
