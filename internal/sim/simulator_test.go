package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/spring"
)

func newSpring(t *testing.T, from, to float64) *spring.Spring {
	t.Helper()
	opts := spring.DefaultOptions()
	opts.Value = dynamo.Scalar(from)
	opts.Target = dynamo.Scalar(to)
	s, err := spring.New(opts)
	if err != nil {
		t.Fatalf("spring.New: %v", err)
	}
	return s
}

func TestSimulatorRun(t *testing.T) {
	sim := New()
	cfg := Config{Dt: 1.0 / 60, Duration: 5}

	result, err := sim.Run(context.Background(), newSpring(t, 0, 100), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.Settled {
		t.Fatal("expected the spring to settle")
	}
	if result.SettleTime <= 0 || result.SettleTime > 2.5 {
		t.Errorf("unexpected settle time %v", result.SettleTime)
	}
	if got := result.Final().Float(); got != 100 {
		t.Errorf("expected final value 100, got %v", got)
	}
	if len(result.Times) != result.StepsTaken+1 {
		t.Errorf("expected %d samples, got %d", result.StepsTaken+1, len(result.Times))
	}
	if result.Values[0].Float() != 0 || result.Times[0] != 0 {
		t.Errorf("first sample should be the start state, got %v at %v", result.Values[0], result.Times[0])
	}
	if v := result.Velocities[len(result.Velocities)-1]; v != 0 {
		t.Errorf("expected zero final velocity, got %v", v)
	}
}

func TestSimulatorRun_Timeout(t *testing.T) {
	sim := New()
	cfg := Config{Dt: 1.0 / 60, Duration: 0.25}

	result, err := sim.Run(context.Background(), newSpring(t, 0, 100), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Settled {
		t.Error("spring cannot settle in a quarter second")
	}
	if result.StepsTaken != 15 {
		t.Errorf("expected 15 frames, got %d", result.StepsTaken)
	}
	if result.SettleTime != -1 {
		t.Errorf("expected settle time -1 for an unsettled run, got %v", result.SettleTime)
	}
}

func TestSimulatorRun_PausedIsNotSettled(t *testing.T) {
	opts := spring.DefaultOptions()
	opts.Target = dynamo.Scalar(100)
	frames := 0
	opts.OnFrame = func(_ dynamo.Value, s *spring.Spring) {
		frames++
		if frames == 10 {
			s.Pause()
		}
	}
	sp, err := spring.New(opts)
	if err != nil {
		t.Fatal(err)
	}

	result, err := New().Run(context.Background(), sp, Config{Dt: 1.0 / 120, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Settled || result.SettleTime != -1 {
		t.Errorf("paused run reported settled=%v at %v", result.Settled, result.SettleTime)
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected the run to stop after 10 frames, got %d", result.StepsTaken)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), newSpring(t, 0, 1), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, newSpring(t, 0, 100), Config{Dt: 0.01, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no frames, got %d", result.StepsTaken)
	}
}

type testMetric struct {
	count int
	last  float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s dynamo.Sample) {
	t.count++
	t.last = s.Value.Float()
}
func (t *testMetric) Value() float64 { return t.last }
func (t *testMetric) Reset() {
	t.count = 0
	t.last = 0
}

type testObserver struct {
	samples []dynamo.Sample
}

func (o *testObserver) OnSample(s dynamo.Sample) { o.samples = append(o.samples, s) }

func TestSimulatorMetrics(t *testing.T) {
	sim := New()
	metric := &testMetric{}
	obs := &testObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), newSpring(t, 0, 10), Config{Dt: 1.0 / 60, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["test"]; !ok || got != 10 {
		t.Errorf("expected metric test=10, got %v (present %v)", got, ok)
	}
	if metric.count != result.StepsTaken+1 {
		t.Errorf("expected %d observations, got %d", result.StepsTaken+1, metric.count)
	}
	if len(obs.samples) != metric.count {
		t.Errorf("observer saw %d samples, metric saw %d", len(obs.samples), metric.count)
	}
	if obs.samples[0].Target != 10 {
		t.Errorf("expected target 10 in samples, got %v", obs.samples[0].Target)
	}
}

func TestSimulatorTrace(t *testing.T) {
	osc := physics.NewOscillator()
	cfg := Config{Dt: 1.0 / 120, Duration: 3}

	result, err := New().Trace(context.Background(), osc, integrators.NewSemiImplicit(), dynamo.Phase{}, 100, cfg)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}

	if result.StepsTaken != 360 {
		t.Errorf("expected 360 steps, got %d", result.StepsTaken)
	}
	if final := result.Final().Float(); math.Abs(final-100) > 0.01 {
		t.Errorf("expected to end near 100, got %v", final)
	}
}

func TestSimulatorTrace_ValidateState(t *testing.T) {
	osc := physics.NewOscillator()
	cfg := Config{Dt: 1, Duration: 1000, ValidateState: true}

	result, err := New().Trace(context.Background(), osc, integrators.NewEuler(), dynamo.Phase{}, 100, cfg)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %d", len(result.Errors))
	}
	var simErr dynamo.SimError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("expected SimError, got %T", result.Errors[0])
	}
	if result.StepsTaken >= 1000 {
		t.Error("run should stop at the invalid state")
	}
	for _, p := range result.Positions {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatal("invalid state was recorded")
		}
	}
}

func TestResultFinal_Empty(t *testing.T) {
	var r Result
	if v := r.Final(); v.Kind() != dynamo.KindScalar || v.Float() != 0 {
		t.Errorf("expected zero value, got %v", v)
	}
}
