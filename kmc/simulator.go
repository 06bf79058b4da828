package kmc

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator owns one trajectory end to end: lattice, disorder, Coulomb
// field, particle registry, event queue, and accumulators. It is the
// sole authoritative owner of mutable run state (§9 design notes); the
// Params it was built from is never mutated after NewSimulator returns.
type Simulator struct {
	Params   Params
	Lattice  *Lattice
	Registry *Registry
	Coulomb  *CoulombField
	RNG      *PartitionedRNG
	Queue    *EventHeap
	Strategy RecalcStrategy
	Acc      *Accumulators

	TNow       float64
	EventCount uint64
	Err        *SimError

	genEvent *Event // recurring generation event; nil disables generation

	log *logrus.Entry

	hopRadiusExciton, hopRadiusPolaron, dissocRadius, annihilRadius, recombRadius int
}

// NewSimulator builds a trajectory from a validated Params tree and an
// optional transient time axis (nil disables binned accumulation, as
// used by the exciton-diffusion driver).
func NewSimulator(p Params, axis *TimeAxis) *Simulator {
	rng := NewPartitionedRNG(NewSimulationKey(p.Seed))
	lat := NewLattice(p.Lattice, rng.ForSubsystem(SubsystemBlend))
	if p.Morphology != nil {
		_ = ImportMorphology(lat, p.Morphology)
	} else {
		GenerateDisorder(lat, Donor, p.Energetics.DonorDisorder, rng.ForSubsystem(SubsystemDisorder))
		GenerateDisorder(lat, Acceptor, p.Energetics.AcceptorDisorder, rng.ForSubsystem(SubsystemDisorder))
	}
	reg := NewRegistry()
	sim := &Simulator{
		Params:   p,
		Lattice:  lat,
		Registry: reg,
		Coulomb:  NewCoulombField(lat, reg, p.Energetics.Coulomb),
		RNG:      rng,
		Queue:    NewEventHeap(),
		Strategy: NewRecalcStrategy(p.Scheduler.Algorithm),
		Acc:      NewAccumulators(axis),
		log:      logrus.WithField("component", "kmc.Simulator"),
	}
	unit := p.Lattice.UnitNM
	sim.hopRadiusExciton = radiusSites(p.Exciton.FRETCutoffNM, unit)
	sim.hopRadiusPolaron = radiusSites(p.Polaron.HopCutoffNM, unit)
	sim.dissocRadius = radiusSites(p.Exciton.DissociationCutoffNM, unit)
	sim.annihilRadius = radiusSites(p.Exciton.AnnihilationCutoffNM, unit)
	sim.recombRadius = radiusSites(p.Polaron.RecombinationCutoffNM, unit)
	return sim
}

func radiusSites(cutoffNM, unitNM float64) int {
	if cutoffNM <= 0 || unitNM <= 0 {
		return 1
	}
	r := int(math.Ceil(cutoffNM / unitNM))
	if r < 1 {
		r = 1
	}
	return r
}

// --- injection helpers, used by drivers ---

// InjectExciton creates a singlet or triplet exciton at site and
// schedules its initial candidate events.
func (s *Simulator) InjectExciton(kind ParticleKind, site SiteID, carrierOf ParticleID) *Particle {
	p := s.Registry.Create(kind, s.TNow, site)
	s.Lattice.Site(site).Occupant = p.ID
	p.DissociationPartner = carrierOf
	s.Acc.ExcitonsCreated++
	s.regenerate(p)
	return p
}

// InjectPolaron creates an electron or hole polaron at site, adds its
// Coulomb contribution, and schedules its initial candidate events.
func (s *Simulator) InjectPolaron(kind ParticleKind, site SiteID) *Particle {
	p := s.Registry.Create(kind, s.TNow, site)
	s.Lattice.Site(site).Occupant = p.ID
	s.Coulomb.AddCharge(p)
	s.regenerate(p)
	return p
}

// EnableGeneration schedules the first recurring lattice-wide generation
// event (§4.5 step 6, §4.4 row 10).
func (s *Simulator) EnableGeneration() {
	s.scheduleGeneration()
}

func (s *Simulator) scheduleGeneration() {
	l, w, h := s.Lattice.Dims()
	volume := float64(l*w*h) * math.Pow(s.Params.Lattice.UnitNM, 3)
	gRate := s.Params.Exciton.GenerationRateDonor + s.Params.Exciton.GenerationRateAcceptor
	if gRate <= 0 {
		return
	}
	k, err := GenerationRate(gRate, volume)
	if err != nil {
		s.fail(err.(*SimError))
		return
	}
	u := s.RNG.ForSubsystem(SubsystemGeneration).Float64()
	dt, err := WaitTime(k, u)
	if err != nil {
		s.fail(err.(*SimError))
		return
	}
	e := &Event{Kind: EventGeneration, Subject: NoParticle, Target: -1, Partner: NoParticle, TExec: s.TNow + dt}
	s.genEvent = e
	s.Queue.Schedule(e)
}

// --- candidate generation ---

// regenerate replaces p's owned candidate events with a freshly computed
// set, honoring the strategy's KeepAllTargets choice (§4.5 step 5).
func (s *Simulator) regenerate(p *Particle) {
	for _, e := range p.ownedEvents {
		e.stale = true
	}
	p.ownedEvents = p.ownedEvents[:0]

	var candidates []*Event
	if p.Kind.IsExciton() {
		candidates = s.excitonCandidates(p)
	} else {
		candidates = s.polaronCandidates(p)
	}

	if !s.Strategy.KeepAllTargets() {
		candidates = collapseToMinPerKind(candidates)
	}
	for _, e := range candidates {
		s.Queue.Schedule(e)
		p.ownedEvents = append(p.ownedEvents, e)
	}
}

// collapseToMinPerKind keeps only the earliest TExec candidate for each
// EventKind, per §4.5's selective/full recalculation algorithm.
func collapseToMinPerKind(candidates []*Event) []*Event {
	best := make(map[EventKind]*Event)
	for _, e := range candidates {
		if cur, ok := best[e.Kind]; !ok || e.TExec < cur.TExec {
			best[e.Kind] = e
		}
	}
	out := make([]*Event, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	return out
}

func (s *Simulator) waitTime(subsystem string, k float64) (float64, error) {
	u := s.RNG.ForSubsystem(subsystem).Float64()
	// Uniform(0,1] rather than [0,1): Float64 returns [0,1), so flip a
	// zero draw to 1 to avoid ln(0).
	if u == 0 {
		u = 1
	}
	return WaitTime(k, u)
}

func (s *Simulator) newEvent(kind EventKind, subject ParticleID, target SiteID, partner ParticleID, dt float64) *Event {
	return &Event{Kind: kind, Subject: subject, Target: target, Partner: partner, TExec: s.TNow + dt}
}

func (s *Simulator) excitonSiteEnergy(site SiteID) float64 { return s.Lattice.Site(site).Energy }

func (s *Simulator) polaronSiteEnergy(site SiteID) float64 {
	return s.Lattice.Site(site).Energy + s.Coulomb.At(site)
}

func (s *Simulator) excitonCandidates(p *Particle) []*Event {
	var out []*Event
	site := p.CurrentSite
	srcE := s.excitonSiteEnergy(site)

	hopParams := ExcitonHopParams{
		Singlet:      p.Kind == KindSingletExciton,
		TemperatureK: s.Params.TemperatureK,
		UnitNM:       s.Params.Lattice.UnitNM,
	}
	if p.Kind == KindSingletExciton {
		hopParams.RateConstant = s.Params.Exciton.SingletHopRate
	} else {
		hopParams.RateConstant = s.Params.Exciton.TripletHopRate
		hopParams.Gamma = s.Params.Exciton.TripletGamma
	}

	for _, nb := range s.Lattice.Neighbors(site, s.hopRadiusExciton) {
		if s.Lattice.Site(nb).Occupant != NoParticle {
			continue
		}
		r := s.Lattice.Distance(site, nb)
		if r > s.Params.Exciton.FRETCutoffNM {
			continue
		}
		deltaE := s.excitonSiteEnergy(nb) - srcE
		k, err := ExcitonHopRate(hopParams, r, deltaE)
		if err != nil {
			continue
		}
		dt, err := s.waitTime(SubsystemWaitTime, k)
		if err != nil {
			continue
		}
		out = append(out, s.newEvent(EventHop, p.ID, nb, NoParticle, dt))
	}

	if dis := s.dissociationCandidate(p); dis != nil {
		out = append(out, dis)
	}

	if p.Kind == KindSingletExciton {
		if k, err := ISCRate(s.Params.Exciton.ISCRate); err == nil {
			if dt, err := s.waitTime(SubsystemWaitTime, k); err == nil {
				out = append(out, s.newEvent(EventISC, p.ID, -1, NoParticle, dt))
			}
		}
		if k, err := RelaxationRate(s.Params.Exciton.SingletLifetimeS); err == nil {
			if dt, err := s.waitTime(SubsystemWaitTime, k); err == nil {
				out = append(out, s.newEvent(EventRelaxation, p.ID, -1, NoParticle, dt))
			}
		}
	} else {
		if k, err := RISCRate(s.Params.Exciton.RISCRate, s.Params.Exciton.E_ST, s.Params.TemperatureK); err == nil {
			if dt, err := s.waitTime(SubsystemWaitTime, k); err == nil {
				out = append(out, s.newEvent(EventRISC, p.ID, -1, NoParticle, dt))
			}
		}
		if k, err := RelaxationRate(s.Params.Exciton.TripletLifetimeS); err == nil {
			if dt, err := s.waitTime(SubsystemWaitTime, k); err == nil {
				out = append(out, s.newEvent(EventRelaxation, p.ID, -1, NoParticle, dt))
			}
		}
	}

	out = append(out, s.annihilationCandidates(p)...)
	return out
}

// dissociationCandidate looks for an opposite-type neighbor within the
// dissociation cutoff and, if found, returns the single nearest such
// candidate (§4.4 row 3, §4.6).
func (s *Simulator) dissociationCandidate(p *Particle) *Event {
	site := p.CurrentSite
	srcType := s.Lattice.Site(site).Type
	var best SiteID = -1
	bestR := math.Inf(1)
	for _, nb := range s.Lattice.Neighbors(site, s.dissocRadius) {
		if s.Lattice.Site(nb).Type == srcType {
			continue
		}
		if s.Lattice.Site(nb).Occupant != NoParticle {
			continue
		}
		r := s.Lattice.Distance(site, nb)
		if r > s.Params.Exciton.DissociationCutoffNM {
			continue
		}
		if r < bestR {
			bestR, best = r, nb
		}
	}
	if best < 0 {
		return nil
	}
	var deltaE float64
	if srcType == Donor {
		// electron transfer: electron ends on the acceptor neighbor,
		// hole remains on the donor site.
		deltaE = s.Params.Energetics.LUMOAcceptor + s.polaronSiteEnergy(best) -
			s.Params.Energetics.LUMODonor - s.excitonSiteEnergy(site) - s.Params.Exciton.BindingEnergyEV
	} else {
		// hole transfer: hole ends on the donor neighbor, electron
		// remains on the acceptor site.
		deltaE = s.Params.Energetics.HOMODonor + s.polaronSiteEnergy(best) -
			s.Params.Energetics.HOMOAcceptor - s.excitonSiteEnergy(site) - s.Params.Exciton.BindingEnergyEV
		deltaE = -deltaE
	}
	k, err := DissociationRate(DissociationParams{
		RateConstant: s.Params.Exciton.DissociationRateConstant,
		Gamma:        s.Params.Exciton.DissociationGamma,
		TemperatureK: s.Params.TemperatureK,
	}, bestR, deltaE)
	if err != nil {
		return nil
	}
	dt, err := s.waitTime(SubsystemWaitTime, k)
	if err != nil {
		return nil
	}
	return s.newEvent(EventDissociation, p.ID, best, NoParticle, dt)
}

func (s *Simulator) annihilationCandidates(p *Particle) []*Event {
	var out []*Event
	site := p.CurrentSite
	for _, nb := range s.Lattice.Neighbors(site, s.annihilRadius) {
		occ := s.Lattice.Site(nb).Occupant
		if occ == NoParticle {
			continue
		}
		other := s.Registry.Get(occ)
		if other == nil {
			continue
		}
		r := s.Lattice.Distance(site, nb)
		if r > s.Params.Exciton.AnnihilationCutoffNM {
			continue
		}
		switch {
		case other.Kind.IsExciton():
			if !s.Params.Exciton.FRETTripletAnnihilation && (p.Kind == KindTripletExciton || other.Kind == KindTripletExciton) {
				continue
			}
			k, err := AnnihilationRate(s.Params.Exciton.AnnihilationRateEE, s.Params.Lattice.UnitNM, r)
			if err != nil {
				continue
			}
			dt, err := s.waitTime(SubsystemAnnihil, k)
			if err != nil {
				continue
			}
			out = append(out, s.newEvent(EventAnnihilationEE, p.ID, nb, other.ID, dt))
		case other.Kind.IsPolaron():
			k, err := AnnihilationRate(s.Params.Exciton.AnnihilationRateEP, s.Params.Lattice.UnitNM, r)
			if err != nil {
				continue
			}
			dt, err := s.waitTime(SubsystemAnnihil, k)
			if err != nil {
				continue
			}
			out = append(out, s.newEvent(EventAnnihilationEP, p.ID, nb, other.ID, dt))
		}
	}
	return out
}

func (s *Simulator) polaronCandidates(p *Particle) []*Event {
	var out []*Event
	site := p.CurrentSite
	srcE := s.polaronSiteEnergy(site)

	hopParams := PolaronHopParams{
		Law:          s.Params.Polaron.Law,
		RateConstant: s.Params.Polaron.HopRateConstant,
		Gamma:        s.Params.Polaron.Gamma,
		ReorgEnergyEV: s.Params.Polaron.ReorgEnergyEV,
		TemperatureK: s.Params.TemperatureK,
	}
	if s.Params.Polaron.GaussianDelocalization {
		hopParams.GaussianLengthNM = s.Params.Polaron.GaussianLengthNM
	}

	wantType := Donor
	if p.Kind == KindElectronPolaron {
		wantType = Acceptor
	}

	for _, nb := range s.Lattice.Neighbors(site, s.hopRadiusPolaron) {
		if s.Lattice.Site(nb).Occupant != NoParticle {
			continue
		}
		if s.Params.Polaron.PhaseRestriction && s.Lattice.Site(nb).Type != wantType {
			continue
		}
		r := s.Lattice.Distance(site, nb)
		if r > s.Params.Polaron.HopCutoffNM {
			continue
		}
		deltaE := s.polaronSiteEnergy(nb) - srcE
		k, err := PolaronHopRate(hopParams, r, deltaE)
		if err != nil {
			continue
		}
		dt, err := s.waitTime(SubsystemWaitTime, k)
		if err != nil {
			continue
		}
		out = append(out, s.newEvent(EventHop, p.ID, nb, NoParticle, dt))
	}

	if s.Lattice.IsElectrode(site) {
		if k, err := CollectionRate(s.Params.Polaron.CollectionRateConstant); err == nil {
			if dt, err := s.waitTime(SubsystemWaitTime, k); err == nil {
				out = append(out, s.newEvent(EventCollection, p.ID, -1, NoParticle, dt))
			}
		}
	}

	out = append(out, s.recombinationCandidates(p)...)
	return out
}

func (s *Simulator) recombinationCandidates(p *Particle) []*Event {
	var out []*Event
	site := p.CurrentSite
	for _, nb := range s.Lattice.Neighbors(site, s.recombRadius) {
		occ := s.Lattice.Site(nb).Occupant
		if occ == NoParticle {
			continue
		}
		other := s.Registry.Get(occ)
		if other == nil || !other.Kind.IsPolaron() || other.Kind == p.Kind {
			continue
		}
		r := s.Lattice.Distance(site, nb)
		if r > s.Params.Polaron.RecombinationCutoffNM {
			continue
		}
		deltaE := s.polaronSiteEnergy(nb) - s.polaronSiteEnergy(site)
		k, err := RecombinationRate(s.Params.Polaron.RecombinationPrefactor, s.Params.Polaron.Gamma, s.Params.TemperatureK, r, deltaE)
		if err != nil {
			continue
		}
		dt, err := s.waitTime(SubsystemWaitTime, k)
		if err != nil {
			continue
		}
		kind := EventRecombinationBimolecular
		if p.DissociationPartner == other.ID {
			kind = EventRecombinationGeminate
		}
		out = append(out, s.newEvent(kind, p.ID, nb, other.ID, dt))
	}
	return out
}

func (s *Simulator) fail(e *SimError) {
	if s.Err == nil {
		s.Err = e
		s.log.WithFields(logrus.Fields{"kind": e.Kind.String(), "t_now": s.TNow}).Error(e.Message)
	}
}
