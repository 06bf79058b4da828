package kmc

import "math"

// Driver configures initial conditions and supplies a stop condition for
// one of the four experiment modes of §4.7. Observables are recorded by
// the engine's own Accumulators, not by the driver.
type Driver interface {
	Seed(*Simulator) error
	IsFinished(*Simulator) bool
}

// Run drives the scheduler loop until driver reports finished, the
// queue runs dry, or a runtime error occurs (§4.5, §4.7). It returns the
// Simulator's error, if any — callers should prefer checking sim.Err
// over a non-nil return, since a recoverable-looking error still leaves
// the Simulator in a state whose accumulators should be excluded from
// reduction (§7 "no partial-result silent continuation").
func (s *Simulator) Run(d Driver) error {
	if err := d.Seed(s); err != nil {
		return err
	}
	for !d.IsFinished(s) {
		done, err := s.Step()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return nil
}

// Step executes exactly one event: pop the globally minimum valid
// event, advance TNow, execute it, and regenerate the invalidation set
// (§4.5). done is true when the queue has no more live events.
func (s *Simulator) Step() (done bool, err error) {
	var e *Event
	for {
		e = s.Queue.PopNext()
		if e == nil {
			return true, nil
		}
		if !e.stale {
			break
		}
	}

	if e.TExec < s.TNow {
		err := newSimError(ErrNegativeWait, s.TNow, "event t_exec %g precedes t_now", e.TExec)
		s.fail(err)
		return true, err
	}

	tFrom := s.TNow
	s.TNow = e.TExec
	s.EventCount++

	s.execute(e)
	if s.Err != nil {
		return true, s.Err
	}

	s.snapshotAccumulators(tFrom, s.TNow)
	s.invalidateAndRegenerate(e)
	return false, nil
}

func (s *Simulator) snapshotAccumulators(tFrom, tTo float64) {
	if s.Acc.Axis == nil {
		return
	}
	var singlets, triplets, electrons, holes int
	var energy, msd float64
	s.Registry.Each(func(p *Particle) {
		switch p.Kind {
		case KindSingletExciton:
			singlets++
		case KindTripletExciton:
			triplets++
		case KindElectronPolaron:
			electrons++
		case KindHolePolaron:
			holes++
		}
		if p.Kind.IsExciton() {
			energy += s.excitonSiteEnergy(p.CurrentSite)
			dx, dy, dz := s.Lattice.Displacement(p.StartSite, p.CurrentSite)
			msd += dx*dx + dy*dy + dz*dz
		} else {
			energy += s.polaronSiteEnergy(p.CurrentSite)
		}
	})
	s.Acc.SnapshotBins(tFrom, tTo, singlets, triplets, electrons, holes, energy, msd)
}

// invalidateAndRegenerate implements §4.5 steps 4-6: determine the
// invalidation set I (the executing particle plus every particle within
// the widest process cutoff of the source and destination sites, or
// every live particle under "full" recalculation), drop their events,
// and regenerate.
func (s *Simulator) invalidateAndRegenerate(e *Event) {
	if s.Strategy.RecalcAll() {
		s.Registry.Each(func(p *Particle) { s.regenerate(p) })
	} else {
		seen := make(map[ParticleID]bool)
		s.collectInvalidated(e.Subject, seen)
		if e.Target >= 0 {
			s.collectInvalidatedAtSite(e.Target, seen)
		}
		if e.Partner != NoParticle {
			s.collectInvalidated(e.Partner, seen)
		}
		for id := range seen {
			if p := s.Registry.Get(id); p != nil {
				s.regenerate(p)
			}
		}
	}

	if e.Kind == EventGeneration {
		s.scheduleGeneration()
	}
}

func (s *Simulator) maxProcessRadius() int {
	r := s.hopRadiusExciton
	for _, x := range []int{s.hopRadiusPolaron, s.dissocRadius, s.annihilRadius, s.recombRadius} {
		if x > r {
			r = x
		}
	}
	return r
}

func (s *Simulator) collectInvalidated(id ParticleID, seen map[ParticleID]bool) {
	if id == NoParticle || seen[id] {
		return
	}
	p := s.Registry.Get(id)
	if p == nil {
		// Destroyed by the event just executed: its dead slot still
		// records the site it left, whose neighborhood is refreshed.
		if id >= 0 && int(id) < len(s.Registry.slots) {
			s.collectInvalidatedAtSite(s.Registry.slots[id].CurrentSite, seen)
		}
		return
	}
	seen[id] = true
	s.collectInvalidatedAtSite(p.CurrentSite, seen)
}

// collectInvalidatedAtSite adds every particle within the maximum
// process cutoff of site (§4.5 step 4).
func (s *Simulator) collectInvalidatedAtSite(site SiteID, seen map[ParticleID]bool) {
	radius := s.maxProcessRadius()
	if cutoff := s.Params.Scheduler.RecalcCutoffSites; cutoff > 0 && cutoff < radius {
		radius = cutoff
	}
	if occ := s.Lattice.Site(site).Occupant; occ != NoParticle {
		seen[occ] = true
	}
	for _, nb := range s.Lattice.Neighbors(site, radius) {
		if occ := s.Lattice.Site(nb).Occupant; occ != NoParticle {
			seen[occ] = true
		}
	}
}

// execute dispatches to the per-kind handler implementing §4.6.
func (s *Simulator) execute(e *Event) {
	switch e.Kind {
	case EventHop:
		s.executeHop(e)
	case EventDissociation:
		s.executeDissociation(e)
	case EventRecombinationGeminate, EventRecombinationBimolecular:
		s.executeRecombination(e)
	case EventAnnihilationEE:
		s.executeAnnihilationEE(e)
	case EventAnnihilationEP:
		s.executeAnnihilationEP(e)
	case EventISC:
		s.executeISC(e, KindTripletExciton)
	case EventRISC:
		s.executeISC(e, KindSingletExciton)
	case EventRelaxation:
		s.executeRelaxation(e)
	case EventCollection:
		s.executeCollection(e)
	case EventGeneration:
		s.executeGeneration(e)
	}
}

func (s *Simulator) executeHop(e *Event) {
	p := s.Registry.Get(e.Subject)
	if p == nil {
		return
	}
	src := p.CurrentSite
	if s.Lattice.Site(e.Target).Occupant != NoParticle {
		s.fail(newSimError(ErrOccupancyViolation, s.TNow, "hop target %d already occupied", e.Target))
		return
	}
	s.Lattice.Site(src).Occupant = NoParticle
	if p.Kind.IsPolaron() {
		s.Coulomb.MoveCharge(p, e.Target)
	} else {
		p.CurrentSite = e.Target
	}
	s.Lattice.Site(e.Target).Occupant = p.ID
	dx, dy, dz := s.Lattice.Displacement(src, e.Target)
	step := math.Sqrt(dx*dx + dy*dy + dz*dz)
	p.PathLength += step
}

func (s *Simulator) executeDissociation(e *Event) {
	exc := s.Registry.Get(e.Subject)
	if exc == nil {
		return
	}
	homeSite := exc.CurrentSite
	transferSite := e.Target
	s.Lattice.Site(homeSite).Occupant = NoParticle
	s.Registry.Destroy(exc.ID)
	s.Acc.ExcitonsDissociated++

	var eID, hID ParticleID
	if s.Lattice.Site(homeSite).Type == Donor {
		hole := s.Registry.Create(KindHolePolaron, s.TNow, homeSite)
		s.Lattice.Site(homeSite).Occupant = hole.ID
		s.Coulomb.AddCharge(hole)
		electron := s.Registry.Create(KindElectronPolaron, s.TNow, transferSite)
		s.Lattice.Site(transferSite).Occupant = electron.ID
		s.Coulomb.AddCharge(electron)
		eID, hID = electron.ID, hole.ID
	} else {
		electron := s.Registry.Create(KindElectronPolaron, s.TNow, homeSite)
		s.Lattice.Site(homeSite).Occupant = electron.ID
		s.Coulomb.AddCharge(electron)
		hole := s.Registry.Create(KindHolePolaron, s.TNow, transferSite)
		s.Lattice.Site(transferSite).Occupant = hole.ID
		s.Coulomb.AddCharge(hole)
		eID, hID = electron.ID, hole.ID
	}
	if electron := s.Registry.Get(eID); electron != nil {
		electron.DissociationPartner = hID
		s.regenerate(electron)
	}
	if hole := s.Registry.Get(hID); hole != nil {
		hole.DissociationPartner = eID
		s.regenerate(hole)
	}
}

func (s *Simulator) executeRecombination(e *Event) {
	a := s.Registry.Get(e.Subject)
	b := s.Registry.Get(e.Partner)
	if a == nil || b == nil {
		return
	}
	s.Lattice.Site(a.CurrentSite).Occupant = NoParticle
	s.Lattice.Site(b.CurrentSite).Occupant = NoParticle
	s.Coulomb.RemoveCharge(a)
	s.Coulomb.RemoveCharge(b)
	s.Registry.Destroy(a.ID)
	s.Registry.Destroy(b.ID)
	if e.Kind == EventRecombinationGeminate {
		s.Acc.GeminateRecombined++
	} else {
		s.Acc.BimolecularRecombined++
	}
}

func (s *Simulator) executeAnnihilationEE(e *Event) {
	a := s.Registry.Get(e.Subject)
	b := s.Registry.Get(e.Partner)
	if a == nil || b == nil {
		return
	}
	survivorKind := annihilationSurvivorKind(a.Kind, b.Kind,
		s.RNG.ForSubsystem(SubsystemParticle(a.ID)).Float64(),
		s.Params.Exciton.TTFusionEnabled, s.Params.Exciton.TTFusionSingletProb)

	// One exciton is always lost; the other survives, possibly with its
	// kind converted by triplet-triplet fusion (§4.6).
	s.destroyExciton(a, true)
	if survivorKind >= 0 && survivorKind != b.Kind {
		b.Kind = survivorKind
	}
	s.regenerate(b)
}

// destroyExciton removes an exciton's occupancy and registry entry, and
// counts it as an annihilation loss when counted is true.
func (s *Simulator) destroyExciton(p *Particle, counted bool) {
	s.Lattice.Site(p.CurrentSite).Occupant = NoParticle
	s.Registry.Destroy(p.ID)
	if counted {
		s.Acc.AnnihilationLossesEE++
	}
}

// annihilationSurvivorKind implements the §4.6 spin rules for E-E
// annihilation: singlet-singlet and singlet-triplet always lose one
// exciton (the other survives unchanged, kind -1 meaning "no
// conversion"); triplet-triplet may fuse into a singlet with
// configurable probability ttFusionProb when ttFusionEnabled (the exact
// branching ratio is an Open Question per §9, resolved here as a
// configuration knob rather than a hard-coded constant — see
// DESIGN.md).
func annihilationSurvivorKind(a, b ParticleKind, u float64, ttFusionEnabled bool, ttFusionProb float64) ParticleKind {
	if a == KindTripletExciton && b == KindTripletExciton && ttFusionEnabled && u < ttFusionProb {
		return KindSingletExciton
	}
	return -1
}

func (s *Simulator) executeAnnihilationEP(e *Event) {
	exc := s.Registry.Get(e.Subject)
	if exc == nil {
		return
	}
	s.destroyExciton(exc, false)
	s.Acc.AnnihilationLossesEP++
	if pol := s.Registry.Get(e.Partner); pol != nil {
		s.regenerate(pol)
	}
}

func (s *Simulator) executeISC(e *Event, newKind ParticleKind) {
	p := s.Registry.Get(e.Subject)
	if p == nil {
		return
	}
	p.Kind = newKind
}

func (s *Simulator) executeRelaxation(e *Event) {
	p := s.Registry.Get(e.Subject)
	if p == nil {
		return
	}
	if p.Kind == KindSingletExciton {
		s.Acc.SingletsRecombined++
	} else {
		s.Acc.TripletsRecombined++
	}
	dx, dy, dz := s.Lattice.Displacement(p.StartSite, p.CurrentSite)
	s.Acc.DiffusionLengthsNM = append(s.Acc.DiffusionLengthsNM, math.Sqrt(dx*dx+dy*dy+dz*dz))
	s.Lattice.Site(p.CurrentSite).Occupant = NoParticle
	s.Registry.Destroy(p.ID)
}

func (s *Simulator) executeCollection(e *Event) {
	p := s.Registry.Get(e.Subject)
	if p == nil {
		return
	}
	lifetime := s.TNow - p.CreationTime
	site := s.Lattice.Site(p.CurrentSite)
	if p.Kind == KindElectronPolaron {
		s.Acc.ElectronsCollected++
		s.Acc.TransitTimesElectron = append(s.Acc.TransitTimesElectron, lifetime)
	} else {
		s.Acc.HolesCollected++
		s.Acc.TransitTimesHole = append(s.Acc.TransitTimesHole, lifetime)
	}
	if s.Params.ExtractionMapEnabled {
		s.Acc.RecordExtraction(site.X, site.Y)
	}
	site.Occupant = NoParticle
	s.Coulomb.RemoveCharge(p)
	s.Registry.Destroy(p.ID)
}

func (s *Simulator) executeGeneration(e *Event) {
	donorVol := s.Params.Exciton.GenerationRateDonor
	acceptorVol := s.Params.Exciton.GenerationRateAcceptor
	u := s.RNG.ForSubsystem(SubsystemGeneration).Float64()
	t := Donor
	if u < acceptorVol/(donorVol+acceptorVol+1e-300) {
		t = Acceptor
	}
	site := s.randomSiteOfType(t)
	if site < 0 {
		return
	}
	s.InjectExciton(KindSingletExciton, site, NoParticle)
}

func (s *Simulator) randomSiteOfType(t SiteType) SiteID {
	rng := s.RNG.ForSubsystem(SubsystemGeneration)
	n := s.Lattice.NumSites()
	start := rng.Intn(n)
	for i := 0; i < n; i++ {
		id := SiteID((start + i) % n)
		if s.Lattice.Site(id).Type == t && s.Lattice.Site(id).Occupant == NoParticle {
			return id
		}
	}
	return -1
}
