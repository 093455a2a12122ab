package metrics

import (
	"github.com/san-kum/springsim/internal/dynamo"
)

// Standard returns the metrics the CLI reports for a run, with a settle
// band equal to the spring precision.
func Standard(model dynamo.Hamiltonian, precision float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewOvershoot(),
		NewSettleTime(precision),
		NewPeakVelocity(),
		NewEnergyDrift(model),
		NewFrames(),
	}
}
