package manning

import (
	"github.com/warp/manning-engine/generic"
)

// RateTerm is one resource's contribution to a group's weighted rate.
type RateTerm struct {
	Resource string
	Volume   generic.Quantity
	Rate     generic.Quantity
}

// EligibleRate reports whether a processing rate can divide a volume.
// Zero, negative and undefined rates cannot.
func EligibleRate(rate generic.Quantity) bool {
	return rate.IsPositive()
}

// WeightedRate combines resource rates weighted by the volume each produces:
//
//	rate = Σ volume / Σ (volume / rate)
//
// This is the harmonic weighting: total volume over total machine-hours.
// Terms with an ineligible rate or undefined volume are excluded from both
// sums. The result is undefined when nothing is eligible or the eligible
// volume is zero. used is the number of terms that contributed.
func WeightedRate(terms []RateTerm) (rate generic.Quantity, used int) {
	volume := generic.Undefined
	hours := generic.Undefined
	for _, t := range terms {
		if !EligibleRate(t.Rate) || !t.Volume.Valid {
			continue
		}
		volume = generic.Sum(volume, t.Volume)
		hours = generic.Sum(hours, t.Volume.Div(t.Rate))
		used++
	}
	return volume.Div(hours), used
}
