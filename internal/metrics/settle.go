package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Overshoot is the furthest the spring travelled past its target, as a
// fraction of the distance from the first sample to the target.
type Overshoot struct {
	name    string
	start   float64
	peak    float64
	samples int
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(s dynamo.Sample) {
	if o.samples == 0 {
		o.start = s.Phase.Pos
	}
	o.samples++

	span := s.Target - o.start
	if span == 0 {
		return
	}
	past := (s.Phase.Pos - s.Target) / span
	o.peak = math.Max(o.peak, past)
}

func (o *Overshoot) Value() float64 {
	return o.peak
}

func (o *Overshoot) Reset() {
	o.start = 0
	o.peak = 0
	o.samples = 0
}

// SettleTime is the time of the first sample from which the spring stays
// within band of its target. It is -1 while the spring is outside the band.
type SettleTime struct {
	name    string
	band    float64
	settled float64
}

func NewSettleTime(band float64) *SettleTime {
	return &SettleTime{
		name:    "settle_time",
		band:    band,
		settled: -1,
	}
}

func (st *SettleTime) Name() string { return st.name }

func (st *SettleTime) Observe(s dynamo.Sample) {
	if math.Abs(s.Phase.Pos-s.Target) > st.band {
		st.settled = -1
		return
	}
	if st.settled < 0 {
		st.settled = s.Time
	}
}

func (st *SettleTime) Value() float64 {
	return st.settled
}

func (st *SettleTime) Reset() {
	st.settled = -1
}
