package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TestOscillatorAcceleration_Equilibrium(t *testing.T) {
	osc := NewOscillator()

	if a := osc.Acceleration(5, 5, 0); a != 0 {
		t.Errorf("acceleration at target should be 0, got %f", a)
	}
}

func TestOscillatorAcceleration_Displaced(t *testing.T) {
	osc := NewOscillator()

	a := osc.Acceleration(0, 100, 0)
	expected := DefaultTension * 100 / DefaultMass
	if math.Abs(a-expected) > 1e-9 {
		t.Errorf("expected acceleration %f, got %f", expected, a)
	}
}

func TestOscillatorAcceleration_Damping(t *testing.T) {
	osc := &Oscillator{Tension: 1, Friction: 2, Mass: 4}

	// force 0, damping -2*3, over mass 4
	if a := osc.Acceleration(0, 0, 3); math.Abs(a-(-1.5)) > 1e-12 {
		t.Errorf("expected -1.5, got %f", a)
	}
}

func TestAcceleration_MassDomain(t *testing.T) {
	for _, mass := range []float64{0, -1} {
		_, err := Acceleration(1, 0, 0, 170, 26, mass)
		if !errors.Is(err, dynamo.ErrDomain) {
			t.Errorf("mass %v: expected ErrDomain, got %v", mass, err)
		}
	}

	a, err := Acceleration(1, 0, 0, 170, 26, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != -85 {
		t.Errorf("expected -85, got %f", a)
	}
}

func TestOscillatorValidate(t *testing.T) {
	tests := []struct {
		name  string
		osc   Oscillator
		param string
	}{
		{"defaults", *NewOscillator(), ""},
		{"frictionless", Oscillator{Tension: 10, Friction: 0, Mass: 1}, ""},
		{"zero tension", Oscillator{Tension: 0, Friction: 1, Mass: 1}, "tension"},
		{"negative friction", Oscillator{Tension: 1, Friction: -1, Mass: 1}, "friction"},
		{"zero mass", Oscillator{Tension: 1, Friction: 1, Mass: 0}, "mass"},
		{"nan tension", Oscillator{Tension: math.NaN(), Friction: 1, Mass: 1}, "tension"},
		{"inf mass", Oscillator{Tension: 1, Friction: 1, Mass: math.Inf(1)}, "mass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.osc.Validate()
			if tt.param == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var pe *dynamo.ParamError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParamError, got %v", err)
			}
			if pe.Param != tt.param {
				t.Errorf("expected param %s, got %s", tt.param, pe.Param)
			}
		})
	}
}

func TestOscillatorEnergy(t *testing.T) {
	osc := &Oscillator{Tension: 10, Friction: 0, Mass: 1}

	pe := osc.Energy(dynamo.Phase{Pos: 1}, 0)
	ke := osc.Energy(dynamo.Phase{Vel: math.Sqrt(10)}, 0)

	if math.Abs(pe-5) > 1e-12 {
		t.Errorf("expected potential 5, got %f", pe)
	}
	if math.Abs(pe-ke) > 1e-9 {
		t.Errorf("energy should be conserved: PE=%f, KE=%f", pe, ke)
	}
}

func TestOscillatorDampingRatio(t *testing.T) {
	osc := NewOscillator()
	zeta := osc.DampingRatio()
	if zeta >= 1 || zeta < 0.99 {
		t.Errorf("default spring should be just under critical, got zeta=%f", zeta)
	}

	if w := osc.AngularFrequency(); math.Abs(w-math.Sqrt(170)) > 1e-12 {
		t.Errorf("unexpected angular frequency %f", w)
	}
}

func TestOscillatorSetParam(t *testing.T) {
	osc := NewOscillator()

	if err := osc.SetParam("friction", 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if osc.GetParams()["friction"] != 12 {
		t.Error("friction not updated")
	}

	if err := osc.SetParam("mass", 0); !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}
	if osc.Mass != DefaultMass {
		t.Error("rejected mass was stored")
	}

	if err := osc.SetParam("gravity", 9.81); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
