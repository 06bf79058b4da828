package config

import (
	"fmt"

	"github.com/kmc-sim/kmc-sim/kmc"
)

// TestSelection records which of the four §4.7 drivers the parameter
// file enabled, plus the driver-specific parameters each needs. Exactly
// one is expected to be set; cmd decides which driver to build from it.
type TestSelection struct {
	ExcitonDiffusion bool
	NTests           int

	ToF                bool
	ToFPolaronKind     kmc.ParticleKind
	ToFInitialPolarons int
	ToFExpirySeconds   float64
	ToFTransientStart  float64
	ToFPtsPerDecade    int

	IQE                 bool
	IQETimeCutoff       float64
	ExtractionMapOutput bool

	Dynamics               bool
	DynamicsInitialConcCM3 float64
	DynamicsTransientStart float64
	DynamicsTransientEnd   float64
	DynamicsPtsPerDecade   int
	DynamicsExtraction     bool
}

// ToParams validates mutually-exclusive flag groups and folds a RawParams
// into a kmc.Params tree plus the selected test's driver parameters.
// Donor/acceptor split parameters that kmc.Params does not carry
// separately (exciton/polaron rate constants) collapse to the donor
// value.
func (p *RawParams) ToParams(seed int64) (kmc.Params, TestSelection, error) {
	algo, err := p.algorithm()
	if err != nil {
		return kmc.Params{}, TestSelection{}, err
	}
	arch, err := p.architecture()
	if err != nil {
		return kmc.Params{}, TestSelection{}, err
	}
	law, err := p.hopLaw()
	if err != nil {
		return kmc.Params{}, TestSelection{}, err
	}
	sel, err := p.testSelection()
	if err != nil {
		return kmc.Params{}, TestSelection{}, err
	}

	params := kmc.Params{
		Seed: seed,
		Lattice: kmc.LatticeConfig{
			L: p.Length, W: p.Width, H: p.Height, UnitNM: p.UnitSize,
			PeriodicX: p.PeriodicX, PeriodicY: p.PeriodicY, PeriodicZ: p.PeriodicZ,
			Architecture:      arch,
			DonorThickness:    p.ThicknessDonor,
			AcceptorThickness: p.ThicknessAcceptor,
			AcceptorConc:      p.AcceptorConc,
		},
		Scheduler:    kmc.SchedulerConfig{Algorithm: algo, RecalcCutoffSites: p.RecalcCutoff},
		TemperatureK: p.Temperature,
		Exciton: kmc.ExcitonConfig{
			GenerationRateDonor:      p.ExcitonGenRateDonor,
			GenerationRateAcceptor:   p.ExcitonGenRateAcceptor,
			SingletLifetimeS:         p.SingletLifetimeDonor,
			TripletLifetimeS:         p.TripletLifetimeDonor,
			SingletHopRate:           p.SingletHopDonor,
			TripletHopRate:           p.TripletHopDonor,
			SingletLocalizationNM:    p.SingletLocalizationDonor,
			TripletGamma:             1 / maxFloat(p.TripletLocalizationDonor, 1e-9),
			FRETCutoffNM:             float64(p.FRETCutoff) * p.UnitSize,
			BindingEnergyEV:          p.BindingEnergyDonor,
			DissociationRateConstant: p.DissociationRateDonor,
			DissociationGamma:        1 / maxFloat(p.PolaronLocalizationDonor, 1e-9),
			DissociationCutoffNM:     float64(p.DissociationCutoff) * p.UnitSize,
			ISCRate:                  p.ISCRateDonor,
			RISCRate:                 p.RISCRateDonor,
			E_ST:                     p.ESTDonor,
			AnnihilationRateEE:       p.AnnihilationEEDonor,
			AnnihilationRateEP:       p.AnnihilationEPDonor,
			AnnihilationCutoffNM:     float64(p.FRETCutoff) * p.UnitSize,
			FRETTripletAnnihilation:  p.EnableFRETTripletAnnihilation,
			TTFusionEnabled:          p.EnableFRETTripletAnnihilation,
			TTFusionSingletProb:      1.0 / 9.0,
		},
		Polaron: kmc.PolaronConfig{
			Law:                    law,
			HopRateConstant:        p.PolaronHopDonor,
			Gamma:                  1 / maxFloat(p.PolaronLocalizationDonor, 1e-9),
			GaussianDelocalization: p.EnableGaussianDelocalization,
			GaussianLengthNM:       p.PolaronDelocalizationLength,
			ReorgEnergyEV:          p.ReorgEnergyDonor,
			RecombinationPrefactor: p.PolaronRecombinationRate,
			RecombinationCutoffNM:  float64(p.CoulombCutoff) * p.UnitSize,
			HopCutoffNM:            float64(p.PolaronHopCutoff) * p.UnitSize,
			PhaseRestriction:       p.EnablePhaseRestriction,
			CollectionRateConstant: 1e13,
		},
		Energetics: kmc.EnergeticsConfig{
			HOMODonor: p.HOMODonor, LUMODonor: p.LUMODonor,
			HOMOAcceptor: p.HOMOAcceptor, LUMOAcceptor: p.LUMOAcceptor,
			DonorDisorder:    p.disorderConfig(true),
			AcceptorDisorder: p.disorderConfig(false),
			Coulomb: kmc.CoulombConfig{
				CutoffNM:           float64(p.CoulombCutoff) * p.UnitSize,
				EpsDonor:           p.DielectricDonor,
				EpsAcceptor:        p.DielectricAcceptor,
				InternalPotentialV: p.InternalPotential,
			},
		},
	}
	params.ExtractionMapEnabled = sel.ExtractionMapOutput
	return params, sel, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (p *RawParams) algorithm() (kmc.Algorithm, error) {
	n := boolCount(p.EnableFRM, p.EnableSelectiveRecalc, p.EnableFullRecalc)
	if n != 1 {
		return 0, fmt.Errorf("config: exactly one of FRM/selective_recalc/full_recalc must be enabled, got %d", n)
	}
	switch {
	case p.EnableFRM:
		return kmc.AlgorithmFRM, nil
	case p.EnableSelectiveRecalc:
		return kmc.AlgorithmSelectiveRecalc, nil
	default:
		return kmc.AlgorithmFullRecalc, nil
	}
}

func (p *RawParams) architecture() (kmc.Architecture, error) {
	n := boolCount(p.EnableNeat, p.EnableBilayer, p.EnableRandomBlend)
	if p.ImportMorphologySingle || p.ImportMorphologySet {
		return kmc.ArchitectureBlend, nil // site types come from the morphology source instead
	}
	if n != 1 {
		return 0, fmt.Errorf("config: exactly one of neat/bilayer/random_blend must be enabled, got %d", n)
	}
	switch {
	case p.EnableNeat:
		return kmc.ArchitectureNeat, nil
	case p.EnableBilayer:
		return kmc.ArchitectureBilayer, nil
	default:
		return kmc.ArchitectureBlend, nil
	}
}

func (p *RawParams) hopLaw() (kmc.HopLaw, error) {
	n := boolCount(p.EnableMillerAbrahams, p.EnableMarcus)
	if n != 1 {
		return 0, fmt.Errorf("config: exactly one of Miller-Abrahams/Marcus must be enabled, got %d", n)
	}
	if p.EnableMillerAbrahams {
		return kmc.MillerAbrahams, nil
	}
	return kmc.Marcus, nil
}

func (p *RawParams) testSelection() (TestSelection, error) {
	n := boolCount(p.EnableExcitonDiffusion, p.EnableToF, p.EnableIQE, p.EnableDynamics)
	if n != 1 {
		return TestSelection{}, fmt.Errorf("config: exactly one test must be enabled, got %d", n)
	}
	sel := TestSelection{
		ExcitonDiffusion: p.EnableExcitonDiffusion,
		NTests:           p.NTests,

		ToF:                p.EnableToF,
		ToFInitialPolarons: p.ToFInitialPolarons,
		ToFExpirySeconds:   p.ToFTransientEnd,
		ToFTransientStart:  p.ToFTransientStart,
		ToFPtsPerDecade:    p.ToFPtsPerDecade,

		IQE:                 p.EnableIQE,
		IQETimeCutoff:        p.IQETimeCutoff,
		ExtractionMapOutput: p.EnableExtractionMapOutput,

		Dynamics:               p.EnableDynamics,
		DynamicsInitialConcCM3: p.DynamicsInitialConc,
		DynamicsTransientStart: p.DynamicsTransientStart,
		DynamicsTransientEnd:   p.DynamicsTransientEnd,
		DynamicsPtsPerDecade:   p.DynamicsPtsPerDecade,
		DynamicsExtraction:     p.EnableDynamicsExtraction,
	}
	if p.ToFPolaronIsHole {
		sel.ToFPolaronKind = kmc.KindHolePolaron
	} else {
		sel.ToFPolaronKind = kmc.KindElectronPolaron
	}
	return sel, nil
}

func (p *RawParams) disorderConfig(donor bool) kmc.DisorderConfig {
	n := boolCount(p.EnableGaussianDOS, p.EnableExponentialDOS)
	cfg := kmc.DisorderConfig{
		Kernel:       p.correlationKernel(),
		CorrLengthNM: p.CorrelationLength,
		PowerLawN:    p.PowerKernelExponent,
	}
	if donor {
		cfg.StdDev, cfg.UrbachEnergy = p.EnergyStdevDonor, p.UrbachDonor
	} else {
		cfg.StdDev, cfg.UrbachEnergy = p.EnergyStdevAcceptor, p.UrbachAcceptor
	}
	if n == 0 {
		return kmc.DisorderConfig{} // no disorder: energies stay zero
	}
	if p.EnableExponentialDOS {
		cfg.Kind = kmc.DOSExponential
	} else {
		cfg.Kind = kmc.DOSGaussian
	}
	return cfg
}

func (p *RawParams) correlationKernel() kmc.CorrelationKernel {
	if !p.EnableCorrelatedDisorder {
		return kmc.KernelNone
	}
	if p.EnablePowerKernel {
		return kmc.KernelPowerLaw
	}
	if p.EnableGaussianKernel {
		return kmc.KernelGaussian
	}
	return kmc.KernelNone
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
