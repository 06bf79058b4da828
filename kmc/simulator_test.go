package kmc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testParams builds a small neat-architecture lattice with rates tuned
// high enough that every candidate process fires within a handful of
// events, for tests that exercise the scheduler end to end.
func testParams() Params {
	return Params{
		Seed: 1,
		Lattice: LatticeConfig{
			L: 4, W: 4, H: 4, UnitNM: 1,
			PeriodicX: true, PeriodicY: true, PeriodicZ: false,
			Architecture: ArchitectureNeat,
		},
		Scheduler:    SchedulerConfig{Algorithm: AlgorithmFRM},
		TemperatureK: 300,
		Exciton: ExcitonConfig{
			SingletLifetimeS: 1e-9,
			TripletLifetimeS: 1e-6,
			SingletHopRate:   1e12,
			TripletHopRate:   1e11,
			FRETCutoffNM:     2,
			ISCRate:          1e7,
			RISCRate:         1e6,
			E_ST:             0.5,
			AnnihilationRateEE:   1e13,
			AnnihilationRateEP:   1e13,
			AnnihilationCutoffNM: 1,
			BindingEnergyEV:           0.5,
			DissociationRateConstant:  1e13,
			DissociationGamma:         1,
			DissociationCutoffNM:      2,
		},
		Polaron: PolaronConfig{
			Law:                    MillerAbrahams,
			HopRateConstant:        1e12,
			Gamma:                  1,
			HopCutoffNM:            2,
			RecombinationPrefactor: 1e13,
			RecombinationCutoffNM:  2,
			CollectionRateConstant: 1e13,
		},
		Energetics: EnergeticsConfig{
			HOMODonor: -5.5, LUMODonor: -3.5,
			HOMOAcceptor: -6.0, LUMOAcceptor: -4.0,
			Coulomb: CoulombConfig{CutoffNM: 2, EpsDonor: 3.5, EpsAcceptor: 3.5},
		},
	}
}

func TestNewSimulatorBuildsLatticeAndSubsystems(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	require.Equal(t, 64, sim.Lattice.NumSites())
	require.NotNil(t, sim.Coulomb)
	require.NotNil(t, sim.Acc)
	require.Equal(t, 0.0, sim.TNow)
}

func TestInjectExcitonSchedulesCandidateEvents(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	p := sim.InjectExciton(KindSingletExciton, site, NoParticle)
	require.Equal(t, p.ID, sim.Lattice.Site(site).Occupant)
	require.Equal(t, 1, sim.Acc.ExcitonsCreated)
	require.NotEmpty(t, p.ownedEvents)
}

func TestInjectPolaronAddsCoulombCharge(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	p := sim.InjectPolaron(KindElectronPolaron, site)
	require.Equal(t, p.ID, sim.Lattice.Site(site).Occupant)
	require.NotNil(t, sim.Registry.Get(p.ID))
}

func TestStepReturnsDoneOnEmptyQueue(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	done, err := sim.Step()
	require.NoError(t, err)
	require.True(t, done)
}

func TestStepExecutesOneEventAndAdvancesTime(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	sim.InjectExciton(KindSingletExciton, site, NoParticle)

	done, err := sim.Step()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, uint64(1), sim.EventCount)
	require.Greater(t, sim.TNow, 0.0)
}

type stopAfterN struct {
	n     int
	seen  int
	seed  func(*Simulator) error
}

func (d *stopAfterN) Seed(s *Simulator) error {
	if d.seed != nil {
		return d.seed(s)
	}
	return nil
}

func (d *stopAfterN) IsFinished(s *Simulator) bool {
	d.seen++
	return d.seen > d.n
}

func TestRunStopsWhenDriverReportsFinished(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	d := &stopAfterN{n: 3, seed: func(s *Simulator) error {
		site, _ := s.Lattice.SiteAt(0, 0, 1)
		s.InjectExciton(KindSingletExciton, site, NoParticle)
		return nil
	}}
	err := sim.Run(d)
	require.NoError(t, err)
	require.LessOrEqual(t, sim.EventCount, uint64(3))
}

func TestRunPropagatesSeedError(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	wantErr := newSimError(ErrDriverMisconfigured, 0, "bad seed")
	d := &stopAfterN{n: 1, seed: func(s *Simulator) error { return wantErr }}
	err := sim.Run(d)
	require.Equal(t, wantErr, err)
}

func TestRunDrainsQueueUntilEmpty(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	d := &stopAfterN{n: 1 << 20, seed: func(s *Simulator) error {
		site, _ := s.Lattice.SiteAt(0, 0, 1)
		s.InjectPolaron(KindElectronPolaron, site)
		return nil
	}}
	err := sim.Run(d)
	require.NoError(t, err)
}

func TestEnableGenerationSchedulesRecurringEvent(t *testing.T) {
	p := testParams()
	p.Exciton.GenerationRateDonor = 1e6
	sim := NewSimulator(p, nil)
	sim.EnableGeneration()
	require.NotNil(t, sim.genEvent)
}

func TestEnableGenerationNoopWithZeroRate(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	sim.EnableGeneration()
	require.Nil(t, sim.genEvent)
}
