package kmc

// Algorithm selects the event-queue algorithm of §4.5.
type Algorithm int

const (
	AlgorithmFRM Algorithm = iota
	AlgorithmSelectiveRecalc
	AlgorithmFullRecalc
)

// SchedulerConfig groups the KMC algorithm choice and its recalculation
// cutoff (§6 "KMC algorithm" options).
type SchedulerConfig struct {
	Algorithm   Algorithm
	RecalcCutoffSites int // N_r, discrete site units
}

// ExcitonConfig groups exciton rate parameters (§6 "Exciton" options).
type ExcitonConfig struct {
	GenerationRateDonor, GenerationRateAcceptor float64 // G, per nm^3 per s
	SingletLifetimeS, TripletLifetimeS          float64
	SingletHopRate, TripletHopRate              float64
	SingletLocalizationNM, TripletGamma         float64
	FRETCutoffNM                                float64
	BindingEnergyEV                             float64
	DissociationRateConstant                    float64
	DissociationGamma                           float64
	DissociationCutoffNM                        float64
	ISCRate, RISCRate                           float64
	E_ST                                        float64 // singlet-triplet gap, eV
	AnnihilationRateEE, AnnihilationRateEP       float64
	AnnihilationCutoffNM                        float64
	FRETTripletAnnihilation                     bool
	// TTFusionSingletProb is the probability triplet-triplet fusion
	// yields a singlet when enabled (§4.6; the exact branching ratio is
	// an Open Question per §9, so it is a configuration knob here, not
	// a hard-coded constant).
	TTFusionSingletProb float64
	TTFusionEnabled     bool
}

// PolaronConfig groups polaron rate parameters (§6 "Polaron" options).
type PolaronConfig struct {
	Law                     HopLaw
	HopRateConstant         float64
	Gamma                   float64
	GaussianDelocalization  bool
	GaussianLengthNM        float64
	ReorgEnergyEV           float64
	RecombinationPrefactor  float64
	RecombinationCutoffNM   float64
	HopCutoffNM             float64
	PhaseRestriction        bool // hole confined to donor, electron to acceptor
	CollectionRateConstant  float64
}

// EnergeticsConfig groups HOMO/LUMO and disorder parameters (§6
// "Energetics" options).
type EnergeticsConfig struct {
	HOMODonor, LUMODonor       float64
	HOMOAcceptor, LUMOAcceptor float64
	DonorDisorder              DisorderConfig
	AcceptorDisorder           DisorderConfig
	Coulomb                    CoulombConfig
}

// Params is the complete, validated parameter tree consumed by
// NewSimulator. It is plain data: package config builds one of these
// from a parameter file and deep-copies it in; the Simulator is the only
// authoritative owner of mutable state thereafter (§9 design notes).
type Params struct {
	Seed int64

	Lattice   LatticeConfig
	Scheduler SchedulerConfig

	TemperatureK float64

	Exciton  ExcitonConfig
	Polaron  PolaronConfig
	Energetics EnergeticsConfig

	// Morphology is nil unless a morphology file/set was imported; when
	// set, it overrides Lattice.Architecture-derived typing (§4.1).
	Morphology MorphologySource

	// ExtractionMapEnabled turns on per-(x,y) collection counting (§6).
	// Off by default since most drivers never read it.
	ExtractionMapEnabled bool
}
