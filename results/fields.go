package results

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kmc-sim/kmc-sim/kmc"
)

const nmToCM = 1e-7

// ElectricFieldVPerCM returns the magnitude of the uniform internal field
// driving ToF transport, derived from the internal potential divided by
// the device thickness along z (§4.6, "uniform internal potential term
// along z").
func ElectricFieldVPerCM(sim *kmc.Simulator) float64 {
	_, _, h := sim.Lattice.Dims()
	thicknessCM := float64(h) * sim.Params.Lattice.UnitNM * nmToCM
	if thicknessCM == 0 {
		return 0
	}
	return math.Abs(sim.Params.Energetics.Coulomb.InternalPotentialV) / thicknessCM
}

// VolumeCM3 returns the simulated volume in cm^3, used to convert raw
// population/transit counts into densities.
func VolumeCM3(sim *kmc.Simulator) float64 {
	l, w, h := sim.Lattice.Dims()
	unitCM := sim.Params.Lattice.UnitNM * nmToCM
	return float64(l) * float64(w) * float64(h) * unitCM * unitCM * unitCM
}

// Mobility converts a set of transit times into carrier mobilities
// (cm^2 V^-1 s^-1): distance traveled over the device thickness divided
// by time-in-field, normalized by the electric field magnitude.
func Mobility(sim *kmc.Simulator, transitTimesS []float64) []float64 {
	_, _, h := sim.Lattice.Dims()
	distanceCM := float64(h) * sim.Params.Lattice.UnitNM * nmToCM
	field := ElectricFieldVPerCM(sim)
	if field == 0 {
		return nil
	}
	out := make([]float64, len(transitTimesS))
	for i, t := range transitTimesS {
		if t <= 0 {
			continue
		}
		out[i] = (distanceCM / t) / field
	}
	return out
}

// meanStdDev reports (0, 0) for an empty sample rather than propagating
// gonum's NaN, since every results report treats "no data yet" as zero.
func meanStdDev(xs []float64) (mean, stdDev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// pct reports a 0-100 percentage, or 0 if the denominator is zero.
func pct(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return 100 * float64(numerator) / float64(denominator)
}
