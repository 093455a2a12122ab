package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func TestClampRate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{120, 120},
		{15, 15},
		{5, MinStepRate},
		{0, MinStepRate},
		{-60, MinStepRate},
	}

	for _, tt := range tests {
		if got := ClampRate(tt.in); got != tt.want {
			t.Errorf("ClampRate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if s := NewSubstepper(1, 0); s.Rate() != MinStepRate {
		t.Errorf("NewSubstepper did not clamp: %v", s.Rate())
	}
}

func TestSubstepperDue(t *testing.T) {
	s := NewSubstepper(120, 0)

	tests := []struct {
		name     string
		elapsed  float64
		wantN    int
		consumed float64
	}{
		{"zero", 0, 0, 0},
		{"negative", -1, 0, 0},
		{"half step", 1.0 / 240, 0, 0},
		{"one step", 1.0 / 120, 1, 1.0 / 120},
		{"one and a half", 1.5 / 120, 1, 1.0 / 120},
		{"frame at 60hz", 1.0 / 60, 2, 2.0 / 120},
		{"one second", 1, 120, 1},
		{"nan", math.NaN(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, consumed := s.Due(tt.elapsed)
			if n != tt.wantN {
				t.Errorf("Due(%v) n = %d, want %d", tt.elapsed, n, tt.wantN)
			}
			if math.Abs(consumed-tt.consumed) > 1e-12 {
				t.Errorf("Due(%v) consumed = %v, want %v", tt.elapsed, consumed, tt.consumed)
			}
		})
	}
}

func TestSubstepperDue_Cap(t *testing.T) {
	s := NewSubstepper(120, 100)

	n, consumed := s.Due(60)
	if n != 100 {
		t.Errorf("expected cap of 100 sub-steps, got %d", n)
	}
	if consumed != 60 {
		t.Errorf("capped backlog should be consumed entirely, got %v", consumed)
	}

	n, _ = s.Due(0.5)
	if n != 60 {
		t.Errorf("under the cap expected 60 sub-steps, got %d", n)
	}
}

func TestSubstepperStep_Arithmetic(t *testing.T) {
	osc := physics.NewOscillator()
	s := NewSubstepper(120, 0)

	p := s.Step(osc, dynamo.Phase{Pos: 0, Vel: 0}, 100)

	a := 170.0 * 100
	vel := a / 120
	pos := vel / 120
	if p.Vel != vel || p.Pos != pos {
		t.Errorf("got %+v, want pos=%v vel=%v", p, pos, vel)
	}
}

func TestSubstepperStep_DivergesBelowStability(t *testing.T) {
	osc := &physics.Oscillator{Tension: 1000, Friction: 1, Mass: 1}
	s := NewSubstepper(15, 0)

	p := dynamo.Phase{}
	for i := 0; i < 1000; i++ {
		p = s.Step(osc, p, 100)
	}
	if p.IsValid() && math.Abs(p.Pos-100) < 1 {
		t.Errorf("stiff spring at the minimum rate should not settle, got %+v", p)
	}
}

func TestSemiImplicitVsEuler_EnergyGrowth(t *testing.T) {
	osc := &physics.Oscillator{Tension: 170, Friction: 0, Mass: 1}
	dt := 1.0 / 120

	semi := NewSemiImplicit()
	euler := NewEuler()

	ps := dynamo.Phase{}
	pe := dynamo.Phase{}
	for i := 0; i < 360; i++ {
		ps = semi.Step(osc, ps, 100, dt)
		pe = euler.Step(osc, pe, 100, dt)
	}

	initial := osc.Energy(dynamo.Phase{}, 100)
	es := osc.Energy(ps, 100)
	ee := osc.Energy(pe, 100)

	if math.Abs(es-initial)/initial > 0.05 {
		t.Errorf("semi-implicit energy drifted: initial=%f final=%f", initial, es)
	}
	if ee < 10*es {
		t.Errorf("explicit Euler should gain energy: semi=%f euler=%f", es, ee)
	}
}

func TestSemiImplicitMatchesSubstepper(t *testing.T) {
	osc := physics.NewOscillator()
	s := NewSubstepper(100, 0)
	semi := NewSemiImplicit()

	a := dynamo.Phase{}
	b := dynamo.Phase{}
	for i := 0; i < 50; i++ {
		a = s.Step(osc, a, 10)
		b = semi.Step(osc, b, 10, 0.01)
	}

	if math.Abs(a.Pos-b.Pos) > 1e-9 || math.Abs(a.Vel-b.Vel) > 1e-9 {
		t.Errorf("substepper %+v and semi-implicit %+v disagree", a, b)
	}
}
