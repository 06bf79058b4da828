package kmc

import "math"

const boltzmannEV = 8.617333262e-5 // eV/K

// HopLaw selects the phonon-assisted hopping rate law used for polaron
// hops, dissociation, and bimolecular recombination (§4.4).
type HopLaw int

const (
	MillerAbrahams HopLaw = iota
	Marcus
)

// boltzmannFactor returns exp(-ΔE/kT) when ΔE > 0 (uphill hop), else 1
// (downhill hops are not suppressed). Shared by every Miller-Abrahams-
// style rate law in §4.4.
func boltzmannFactor(deltaE, temperatureK float64) float64 {
	if deltaE <= 0 {
		return 1
	}
	return math.Exp(-deltaE / (boltzmannEV * temperatureK))
}

// attenuation returns the distance-attenuation factor exp(-2γr), or, if
// gaussianLengthNM > 0, the Gaussian-delocalization alternative
// exp(-(r/ℓ)^2) (§4.4 "Gaussian polaron delocalization").
func attenuation(rNM, gamma, gaussianLengthNM float64) float64 {
	if gaussianLengthNM > 0 {
		return math.Exp(-(rNM * rNM) / (gaussianLengthNM * gaussianLengthNM))
	}
	return math.Exp(-2 * gamma * rNM)
}

// ExcitonHopParams parameterizes singlet (Förster) or triplet (Dexter)
// exciton hopping (§4.4 row 1).
type ExcitonHopParams struct {
	Singlet      bool // true = Förster (1/r^6); false = Dexter (exp(-2γr))
	RateConstant float64
	Gamma        float64 // Dexter decay constant (1/nm), triplet only
	UnitNM       float64 // lattice unit a, used in the Förster (a/r)^6 form
	TemperatureK float64
}

// ExcitonHopRate implements §4.4 row 1.
func ExcitonHopRate(p ExcitonHopParams, rNM, deltaE float64) (float64, error) {
	if rNM <= 0 {
		return 0, newSimError(ErrRateInvalid, 0, "exciton hop: non-positive separation %g", rNM)
	}
	var k float64
	if p.Singlet {
		k = p.RateConstant * math.Pow(p.UnitNM/rNM, 6)
	} else {
		k = p.RateConstant * math.Exp(-2*p.Gamma*rNM)
	}
	k *= boltzmannFactor(deltaE, p.TemperatureK)
	return finiteRate(k)
}

// PolaronHopParams parameterizes §4.4 row 2.
type PolaronHopParams struct {
	Law              HopLaw
	RateConstant     float64 // k_0
	Gamma            float64
	GaussianLengthNM float64 // > 0 enables Gaussian delocalization, overriding Gamma
	ReorgEnergyEV    float64 // λ_r, Marcus only
	TemperatureK     float64
}

// PolaronHopRate implements §4.4 row 2 (Miller-Abrahams or Marcus).
func PolaronHopRate(p PolaronHopParams, rNM, deltaE float64) (float64, error) {
	if rNM <= 0 {
		return 0, newSimError(ErrRateInvalid, 0, "polaron hop: non-positive separation %g", rNM)
	}
	att := attenuation(rNM, p.Gamma, p.GaussianLengthNM)
	var k float64
	switch p.Law {
	case Marcus:
		kt := boltzmannEV * p.TemperatureK
		num := deltaE + p.ReorgEnergyEV
		k = p.RateConstant * att * math.Exp(-(num*num)/(4*p.ReorgEnergyEV*kt))
	default: // MillerAbrahams
		k = p.RateConstant * att * boltzmannFactor(deltaE, p.TemperatureK)
	}
	return finiteRate(k)
}

// DissociationParams parameterizes exciton dissociation at a D/A
// interface (§4.4 row 3). ΔE is computed by the caller as
// E_LUMO_acceptor - E_LUMO_donor - E_b + Coulomb (electron transfer) or
// the analogous hole-transfer expression, then passed in.
type DissociationParams struct {
	RateConstant float64
	Gamma        float64
	TemperatureK float64
}

// DissociationRate implements §4.4 row 3 (Miller-Abrahams form).
func DissociationRate(p DissociationParams, rNM, deltaE float64) (float64, error) {
	att := attenuation(rNM, p.Gamma, 0)
	k := p.RateConstant * att * boltzmannFactor(deltaE, p.TemperatureK)
	return finiteRate(k)
}

// AnnihilationRate implements the §4.4 (a/r)^6 form shared by
// exciton-exciton and exciton-polaron annihilation (rows 4 and 5); pass
// k_aa or k_ap as rateConstant.
func AnnihilationRate(rateConstant, unitNM, rNM float64) (float64, error) {
	if rNM <= 0 {
		return 0, newSimError(ErrRateInvalid, 0, "annihilation: non-positive separation %g", rNM)
	}
	k := rateConstant * math.Pow(unitNM/rNM, 6)
	return finiteRate(k)
}

// ISCRate implements first-order ISC; RISC additionally gates by the
// singlet-triplet Boltzmann factor (§4.4 row 6).
func ISCRate(rateConstant float64) (float64, error) { return finiteRate(rateConstant) }

// RISCRate gates the reverse-ISC rate constant by exp(-ΔE_ST/kT).
func RISCRate(rateConstant, deltaEST, temperatureK float64) (float64, error) {
	k := rateConstant * math.Exp(-deltaEST/(boltzmannEV*temperatureK))
	return finiteRate(k)
}

// RelaxationRate implements the first-order radiative relaxation rate
// 1/τ (§4.4 row 7).
func RelaxationRate(lifetimeSeconds float64) (float64, error) {
	if lifetimeSeconds <= 0 {
		return 0, newSimError(ErrRateInvalid, 0, "relaxation: non-positive lifetime %g", lifetimeSeconds)
	}
	return finiteRate(1.0 / lifetimeSeconds)
}

// RecombinationRate implements §4.4 row 8 (bimolecular recombination,
// Miller-Abrahams form with a recombination prefactor).
func RecombinationRate(prefactor, gamma, temperatureK, rNM, deltaE float64) (float64, error) {
	att := attenuation(rNM, gamma, 0)
	k := prefactor * att * boltzmannFactor(deltaE, temperatureK)
	return finiteRate(k)
}

// CollectionRate implements §4.4 row 9: first-order, instantaneous
// extraction at an electrode.
func CollectionRate(rateConstant float64) (float64, error) { return finiteRate(rateConstant) }

// GenerationRate implements §4.4 row 10: Poisson generation over the
// full lattice volume at rate G·V.
func GenerationRate(gRate, volumeNM3 float64) (float64, error) {
	return finiteRate(gRate * volumeNM3)
}

// WaitTime samples Δt = -ln(u)/k, u ~ Uniform(0,1], for a rate k (§4.4).
func WaitTime(k float64, u float64) (float64, error) {
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return 0, newSimError(ErrRateInvalid, 0, "wait time: invalid rate %g", k)
	}
	dt := -math.Log(u) / k
	if dt < 0 {
		return 0, newSimError(ErrNegativeWait, 0, "wait time: sampled Δt=%g < 0", dt)
	}
	return dt, nil
}

func finiteRate(k float64) (float64, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0, newSimError(ErrRateInvalid, 0, "rate evaluated to %g", k)
	}
	return k, nil
}
