package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

type PeakVelocity struct {
	name string
	peak float64
}

func NewPeakVelocity() *PeakVelocity {
	return &PeakVelocity{name: "peak_velocity"}
}

func (p *PeakVelocity) Name() string { return p.name }

func (p *PeakVelocity) Observe(s dynamo.Sample) {
	p.peak = math.Max(p.peak, math.Abs(s.Phase.Vel))
}

func (p *PeakVelocity) Value() float64 { return p.peak }

func (p *PeakVelocity) Reset() { p.peak = 0 }

// Frames counts observed samples.
type Frames struct {
	count int
}

func NewFrames() *Frames { return &Frames{} }

func (f *Frames) Name() string          { return "frames" }
func (f *Frames) Observe(dynamo.Sample) { f.count++ }
func (f *Frames) Value() float64        { return float64(f.count) }
func (f *Frames) Reset()                { f.count = 0 }
