package sim

import "github.com/san-kum/springsim/internal/dynamo"

// Observer sees every recorded sample, after the metrics.
type Observer interface {
	OnSample(s dynamo.Sample)
}

type Config struct {
	// Dt is the elapsed time handed to TickBy per frame.
	Dt       float64
	Duration float64
	// ValidateState stops the run at the first NaN or Inf phase.
	ValidateState bool
}

type Result struct {
	Times      []float64
	Values     []dynamo.Value
	Positions  []float64
	Velocities []float64
	Metrics    map[string]float64
	Errors     []error

	StepsTaken int
	Settled    bool
	// SettleTime is -1 unless Settled.
	SettleTime float64
}

// Final returns the last recorded value, or the zero Value for an empty result.
func (r *Result) Final() dynamo.Value {
	if len(r.Values) == 0 {
		return dynamo.Value{}
	}
	return r.Values[len(r.Values)-1]
}

func (r *Result) record(t float64, v dynamo.Value, p dynamo.Phase) {
	r.Times = append(r.Times, t)
	r.Values = append(r.Values, v)
	r.Positions = append(r.Positions, p.Pos)
	r.Velocities = append(r.Velocities, p.Vel)
}
