package kmc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteHopMovesOccupancyAndAccumulatesPathLength(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	src, _ := sim.Lattice.SiteAt(0, 0, 1)
	dst, _ := sim.Lattice.SiteAt(1, 0, 1)
	p := sim.InjectExciton(KindSingletExciton, src, NoParticle)

	sim.executeHop(&Event{Kind: EventHop, Subject: p.ID, Target: dst})
	require.Equal(t, dst, p.CurrentSite)
	require.Equal(t, NoParticle, sim.Lattice.Site(src).Occupant)
	require.Equal(t, p.ID, sim.Lattice.Site(dst).Occupant)
	require.Greater(t, p.PathLength, 0.0)
}

func TestExecuteHopFailsOnOccupiedTarget(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	src, _ := sim.Lattice.SiteAt(0, 0, 1)
	dst, _ := sim.Lattice.SiteAt(1, 0, 1)
	p := sim.InjectExciton(KindSingletExciton, src, NoParticle)
	other := sim.InjectExciton(KindSingletExciton, dst, NoParticle)
	_ = other

	sim.executeHop(&Event{Kind: EventHop, Subject: p.ID, Target: dst})
	require.NotNil(t, sim.Err)
	require.Equal(t, ErrOccupancyViolation, sim.Err.Kind)
}

func TestExecuteDissociationSplitsExcitonIntoPolarons(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	home, _ := sim.Lattice.SiteAt(0, 0, 1)
	transfer, _ := sim.Lattice.SiteAt(1, 0, 1)
	sim.Lattice.Site(home).Type = Donor
	sim.Lattice.Site(transfer).Type = Acceptor
	exc := sim.InjectExciton(KindSingletExciton, home, NoParticle)

	sim.executeDissociation(&Event{Kind: EventDissociation, Subject: exc.ID, Target: transfer})

	require.Nil(t, sim.Registry.Get(exc.ID))
	require.Equal(t, 1, sim.Acc.ExcitonsDissociated)

	hole := sim.Registry.Get(sim.Lattice.Site(home).Occupant)
	electron := sim.Registry.Get(sim.Lattice.Site(transfer).Occupant)
	require.NotNil(t, hole)
	require.NotNil(t, electron)
	require.Equal(t, KindHolePolaron, hole.Kind)
	require.Equal(t, KindElectronPolaron, electron.Kind)
	require.Equal(t, electron.ID, hole.DissociationPartner)
	require.Equal(t, hole.ID, electron.DissociationPartner)
}

func TestExecuteRecombinationGeminateVsBimolecular(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	siteA, _ := sim.Lattice.SiteAt(0, 0, 1)
	siteB, _ := sim.Lattice.SiteAt(1, 0, 1)
	e := sim.InjectPolaron(KindElectronPolaron, siteA)
	h := sim.InjectPolaron(KindHolePolaron, siteB)
	e.DissociationPartner = h.ID
	h.DissociationPartner = e.ID

	sim.executeRecombination(&Event{Kind: EventRecombinationGeminate, Subject: e.ID, Target: siteB, Partner: h.ID})
	require.Equal(t, 1, sim.Acc.GeminateRecombined)
	require.Equal(t, 0, sim.Acc.BimolecularRecombined)
	require.Nil(t, sim.Registry.Get(e.ID))
	require.Nil(t, sim.Registry.Get(h.ID))
	require.Equal(t, NoParticle, sim.Lattice.Site(siteA).Occupant)
	require.Equal(t, NoParticle, sim.Lattice.Site(siteB).Occupant)
}

func TestExecuteRecombinationBimolecularCounted(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	siteA, _ := sim.Lattice.SiteAt(0, 0, 1)
	siteB, _ := sim.Lattice.SiteAt(1, 0, 1)
	e := sim.InjectPolaron(KindElectronPolaron, siteA)
	h := sim.InjectPolaron(KindHolePolaron, siteB)

	sim.executeRecombination(&Event{Kind: EventRecombinationBimolecular, Subject: e.ID, Target: siteB, Partner: h.ID})
	require.Equal(t, 1, sim.Acc.BimolecularRecombined)
}

func TestExecuteAnnihilationEEDestroysOneAndKeepsOther(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	siteA, _ := sim.Lattice.SiteAt(0, 0, 1)
	siteB, _ := sim.Lattice.SiteAt(1, 0, 1)
	a := sim.InjectExciton(KindSingletExciton, siteA, NoParticle)
	b := sim.InjectExciton(KindSingletExciton, siteB, NoParticle)

	sim.executeAnnihilationEE(&Event{Kind: EventAnnihilationEE, Subject: a.ID, Target: siteB, Partner: b.ID})
	require.Nil(t, sim.Registry.Get(a.ID))
	require.NotNil(t, sim.Registry.Get(b.ID))
	require.Equal(t, 1, sim.Acc.AnnihilationLossesEE)
}

func TestAnnihilationSurvivorKindTripletFusion(t *testing.T) {
	k := annihilationSurvivorKind(KindTripletExciton, KindTripletExciton, 0.0, true, 0.5)
	require.Equal(t, KindSingletExciton, k)

	noFusion := annihilationSurvivorKind(KindTripletExciton, KindTripletExciton, 0.9, true, 0.5)
	require.Equal(t, ParticleKind(-1), noFusion)

	disabled := annihilationSurvivorKind(KindTripletExciton, KindTripletExciton, 0.0, false, 0.5)
	require.Equal(t, ParticleKind(-1), disabled)

	singletSinglet := annihilationSurvivorKind(KindSingletExciton, KindSingletExciton, 0.0, true, 1.0)
	require.Equal(t, ParticleKind(-1), singletSinglet)
}

func TestExecuteAnnihilationEPDestroysExcitonOnly(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	siteA, _ := sim.Lattice.SiteAt(0, 0, 1)
	siteB, _ := sim.Lattice.SiteAt(1, 0, 1)
	exc := sim.InjectExciton(KindSingletExciton, siteA, NoParticle)
	pol := sim.InjectPolaron(KindHolePolaron, siteB)

	sim.executeAnnihilationEP(&Event{Kind: EventAnnihilationEP, Subject: exc.ID, Target: siteB, Partner: pol.ID})
	require.Nil(t, sim.Registry.Get(exc.ID))
	require.NotNil(t, sim.Registry.Get(pol.ID))
	require.Equal(t, 1, sim.Acc.AnnihilationLossesEP)
}

func TestExecuteISCConvertsKindWithoutDestroying(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	p := sim.InjectExciton(KindSingletExciton, site, NoParticle)

	sim.executeISC(&Event{Kind: EventISC, Subject: p.ID}, KindTripletExciton)
	require.Equal(t, KindTripletExciton, sim.Registry.Get(p.ID).Kind)
}

func TestExecuteRelaxationDestroysAndRecordsMSD(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	p := sim.InjectExciton(KindSingletExciton, site, NoParticle)

	sim.executeRelaxation(&Event{Kind: EventRelaxation, Subject: p.ID})
	require.Nil(t, sim.Registry.Get(p.ID))
	require.Equal(t, 1, sim.Acc.SingletsRecombined)
	require.Len(t, sim.Acc.DiffusionLengthsNM, 1)
}

func TestExecuteRelaxationTripletIncrementsTripletCounter(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	p := sim.InjectExciton(KindTripletExciton, site, NoParticle)

	sim.executeRelaxation(&Event{Kind: EventRelaxation, Subject: p.ID})
	require.Equal(t, 1, sim.Acc.TripletsRecombined)
}

func TestExecuteCollectionCountsByKindAndRecordsExtractionMap(t *testing.T) {
	p := testParams()
	p.ExtractionMapEnabled = true
	sim := NewSimulator(p, nil)
	site, _ := sim.Lattice.SiteAt(2, 1, 0)
	e := sim.InjectPolaron(KindElectronPolaron, site)

	sim.executeCollection(&Event{Kind: EventCollection, Subject: e.ID})
	require.Equal(t, 1, sim.Acc.ElectronsCollected)
	require.Len(t, sim.Acc.TransitTimesElectron, 1)
	require.Equal(t, 1, sim.Acc.ExtractionMap[[2]int{2, 1}])
	require.Nil(t, sim.Registry.Get(e.ID))
}

func TestExecuteCollectionSkipsExtractionMapWhenDisabled(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	site, _ := sim.Lattice.SiteAt(2, 1, 0)
	h := sim.InjectPolaron(KindHolePolaron, site)

	sim.executeCollection(&Event{Kind: EventCollection, Subject: h.ID})
	require.Equal(t, 1, sim.Acc.HolesCollected)
	require.Nil(t, sim.Acc.ExtractionMap)
}

func TestExecuteGenerationCreatesExcitonOnEmptySite(t *testing.T) {
	p := testParams()
	p.Exciton.GenerationRateDonor = 1
	sim := NewSimulator(p, nil)

	before := sim.Registry.Live()
	sim.executeGeneration(&Event{Kind: EventGeneration})
	require.Equal(t, before+1, sim.Registry.Live())
}

func TestRandomSiteOfTypeSkipsOccupiedSites(t *testing.T) {
	sim := NewSimulator(testParams(), nil)
	for i := 0; i < sim.Lattice.NumSites(); i++ {
		id := SiteID(i)
		if sim.Lattice.Site(id).Type == Donor {
			sim.Lattice.Site(id).Occupant = ParticleID(1)
		}
	}
	require.Equal(t, SiteID(-1), sim.randomSiteOfType(Donor))
}

func TestInvalidateAndRegenerateFullRecalcTouchesEveryParticle(t *testing.T) {
	p := testParams()
	p.Scheduler.Algorithm = AlgorithmFullRecalc
	sim := NewSimulator(p, nil)
	site, _ := sim.Lattice.SiteAt(0, 0, 1)
	exc := sim.InjectExciton(KindSingletExciton, site, NoParticle)
	before := exc.ownedEvents
	farSite, _ := sim.Lattice.SiteAt(2, 2, 3)
	far := sim.InjectExciton(KindSingletExciton, farSite, NoParticle)
	oldEvents := append(append([]*Event(nil), exc.ownedEvents...), far.ownedEvents...)

	sim.invalidateAndRegenerate(&Event{Kind: EventHop, Subject: exc.ID, Target: -1})
	require.NotSame(t, &before, &exc.ownedEvents)
	require.NotEmpty(t, oldEvents)
	for _, e := range oldEvents {
		require.True(t, e.stale, "full recalculation regenerates every live particle")
	}
}
