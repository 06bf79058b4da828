package kmc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoltzmannFactorDownhillIsUnity(t *testing.T) {
	require.Equal(t, 1.0, boltzmannFactor(-0.1, 300))
	require.Equal(t, 1.0, boltzmannFactor(0, 300))
}

func TestBoltzmannFactorUphillDecays(t *testing.T) {
	f := boltzmannFactor(0.2, 300)
	require.Greater(t, f, 0.0)
	require.Less(t, f, 1.0)
}

func TestAttenuationGaussianOverridesGamma(t *testing.T) {
	viaGaussian := attenuation(2, 1, 1)
	require.Equal(t, math.Exp(-4), viaGaussian)
	viaGamma := attenuation(2, 1, 0)
	require.Equal(t, math.Exp(-4), viaGamma)
}

func TestExcitonHopRateRejectsNonPositiveSeparation(t *testing.T) {
	_, err := ExcitonHopRate(ExcitonHopParams{Singlet: true, RateConstant: 1e12, UnitNM: 1, TemperatureK: 300}, 0, 0)
	require.Error(t, err)
}

func TestExcitonHopRateForsterFallsOffFaster(t *testing.T) {
	p := ExcitonHopParams{Singlet: true, RateConstant: 1e12, UnitNM: 1, TemperatureK: 300}
	near, err := ExcitonHopRate(p, 1, 0)
	require.NoError(t, err)
	far, err := ExcitonHopRate(p, 2, 0)
	require.NoError(t, err)
	require.Greater(t, near, far)
}

func TestExcitonHopRateDexterUsesGamma(t *testing.T) {
	p := ExcitonHopParams{Singlet: false, RateConstant: 1e12, Gamma: 1, TemperatureK: 300}
	k, err := ExcitonHopRate(p, 1, 0)
	require.NoError(t, err)
	require.Greater(t, k, 0.0)
}

func TestPolaronHopRateMillerAbrahamsVsMarcus(t *testing.T) {
	ma := PolaronHopParams{Law: MillerAbrahams, RateConstant: 1e12, Gamma: 1, TemperatureK: 300}
	kMA, err := PolaronHopRate(ma, 1, 0)
	require.NoError(t, err)
	require.Greater(t, kMA, 0.0)

	marcus := PolaronHopParams{Law: Marcus, RateConstant: 1e12, Gamma: 1, ReorgEnergyEV: 0.3, TemperatureK: 300}
	kMarcus, err := PolaronHopRate(marcus, 1, 0)
	require.NoError(t, err)
	require.Greater(t, kMarcus, 0.0)
}

func TestPolaronHopRateRejectsNonPositiveSeparation(t *testing.T) {
	_, err := PolaronHopRate(PolaronHopParams{Law: MillerAbrahams, RateConstant: 1, Gamma: 1, TemperatureK: 300}, -1, 0)
	require.Error(t, err)
}

func TestDissociationRate(t *testing.T) {
	k, err := DissociationRate(DissociationParams{RateConstant: 1e13, Gamma: 1, TemperatureK: 300}, 1, -0.1)
	require.NoError(t, err)
	require.Greater(t, k, 0.0)
}

func TestAnnihilationRateRejectsNonPositiveSeparation(t *testing.T) {
	_, err := AnnihilationRate(1e13, 1, 0)
	require.Error(t, err)
}

func TestISCAndRISCRates(t *testing.T) {
	k, err := ISCRate(1e7)
	require.NoError(t, err)
	require.Equal(t, 1e7, k)

	riscLow, err := RISCRate(1e7, 0.5, 300)
	require.NoError(t, err)
	riscHigh, err := RISCRate(1e7, 0.0, 300)
	require.NoError(t, err)
	require.Less(t, riscLow, riscHigh)
}

func TestRelaxationRateRejectsNonPositiveLifetime(t *testing.T) {
	_, err := RelaxationRate(0)
	require.Error(t, err)
	k, err := RelaxationRate(1e-9)
	require.NoError(t, err)
	require.Equal(t, 1e9, k)
}

func TestCollectionAndGenerationRate(t *testing.T) {
	k, err := CollectionRate(1e13)
	require.NoError(t, err)
	require.Equal(t, 1e13, k)

	g, err := GenerationRate(2, 10)
	require.NoError(t, err)
	require.Equal(t, 20.0, g)
}

func TestWaitTimeRejectsNonPositiveRate(t *testing.T) {
	_, err := WaitTime(0, 0.5)
	require.Error(t, err)
}

func TestWaitTimeIsDeterministicGivenU(t *testing.T) {
	dt, err := WaitTime(10, 0.5)
	require.NoError(t, err)
	require.InDelta(t, -math.Log(0.5)/10, dt, 1e-12)
}

func TestFiniteRateRejectsNaNAndInf(t *testing.T) {
	_, err := finiteRate(math.NaN())
	require.Error(t, err)
	_, err = finiteRate(math.Inf(1))
	require.Error(t, err)
	k, err := finiteRate(1.5)
	require.NoError(t, err)
	require.Equal(t, 1.5, k)
}
