package kmc

import "math"

const epsilon0 = 8.8541878128e-12         // F/m
const elementaryCharge = 1.602176634e-19 // C

// CoulombConfig parameterizes the pairwise electrostatic field (§4.3).
type CoulombConfig struct {
	CutoffNM           float64
	EpsDonor           float64 // relative permittivity, donor phase
	EpsAcceptor        float64 // relative permittivity, acceptor phase
	InternalPotentialV float64 // Φ, applied along z
}

// CoulombField tracks the pairwise electrostatic contribution to every
// site's energy from nearby polarons, plus the uniform internal-potential
// term. It updates incrementally as polarons move (§4.3): a hop only
// touches sites within CutoffNM of the source or destination.
type CoulombField struct {
	cfg CoulombConfig
	lat *Lattice
	reg *Registry

	// contribution[site] is the current Coulomb energy shift applied to
	// that site, summed over every charge within range plus the
	// internal-potential term this site's own occupant (if a polaron)
	// receives. Indexed by SiteID.
	contribution []float64
}

// NewCoulombField allocates a zeroed field over every lattice site.
func NewCoulombField(lat *Lattice, reg *Registry, cfg CoulombConfig) *CoulombField {
	return &CoulombField{cfg: cfg, lat: lat, reg: reg, contribution: make([]float64, lat.NumSites())}
}

// At returns the current Coulomb energy contribution (eV) for a site.
func (f *CoulombField) At(id SiteID) float64 { return f.contribution[id] }

// Reset zeroes every contribution, restoring the disorder-only field
// (§8 invariant: "removing all charges restores the disorder-only field
// exactly").
func (f *CoulombField) Reset() {
	for i := range f.contribution {
		f.contribution[i] = 0
	}
}

func (f *CoulombField) permittivity(id SiteID) float64 {
	if f.lat.Site(id).Type == Donor {
		return f.cfg.EpsDonor
	}
	return f.cfg.EpsAcceptor
}

// pairEnergy returns q_i q_j / (4π ε0 εr r) in eV for a pair of unit
// charges qi, qj (±1) separated by r nm, using the relative permittivity
// of the affected (field) site's phase.
func pairEnergy(qi, qj, rNM, epsR float64) float64 {
	if rNM <= 0 {
		return 0
	}
	rM := rNM * 1e-9
	joules := qi * qj * elementaryCharge * elementaryCharge / (4 * math.Pi * epsilon0 * epsR * rM)
	return joules / elementaryCharge // convert J to eV
}

// internalPotentialTerm returns q·Φ·z/H for a polaron of charge q at
// site id (§4.3), oriented along z.
func (f *CoulombField) internalPotentialTerm(charge float64, id SiteID) float64 {
	_, _, h := f.lat.Dims()
	if h <= 1 {
		return 0
	}
	z := f.lat.Site(id).Z
	return charge * f.cfg.InternalPotentialV * float64(z) / float64(h)
}

// occupantCharge returns the charge of the polaron occupying site id, or
// 0 if the site is empty or holds a neutral exciton.
func (f *CoulombField) occupantCharge(id SiteID) float64 {
	occ := f.lat.Site(id).Occupant
	if occ == NoParticle {
		return 0
	}
	p := f.reg.Get(occ)
	if p == nil || !p.Kind.IsPolaron() {
		return 0
	}
	return p.Kind.Charge()
}

func (f *CoulombField) radiusSites() int {
	r := int(math.Ceil(f.cfg.CutoffNM / f.lat.Config().UnitNM))
	if r < 1 {
		r = 1
	}
	return r
}

// applyCharge adds (sign=+1) or removes (sign=-1) one polaron's
// contribution to every site within cutoff of its current site, plus the
// internal-potential term on its own site.
func (f *CoulombField) applyCharge(p *Particle, sign float64) {
	qi := p.Kind.Charge()
	site := p.CurrentSite
	for _, nb := range f.lat.Neighbors(site, f.radiusSites()) {
		r := f.lat.Distance(site, nb)
		if r > f.cfg.CutoffNM {
			continue
		}
		qj := f.occupantCharge(nb)
		if qj == 0 {
			continue
		}
		f.contribution[nb] += sign * pairEnergy(qi, qj, r, f.permittivity(nb))
		f.contribution[site] += sign * pairEnergy(qi, qj, r, f.permittivity(site))
	}
	f.contribution[site] += sign * f.internalPotentialTerm(qi, site)
}

// AddCharge adds one polaron's full contribution. Called once when a
// polaron is created. p.CurrentSite must already reflect its occupancy
// on the lattice (the polaron must occupy the site before this is
// called, since pairwise terms are derived from occupancy).
func (f *CoulombField) AddCharge(p *Particle) { f.applyCharge(p, 1) }

// RemoveCharge subtracts one polaron's full contribution. Called before
// a polaron is destroyed (collection, recombination, annihilation) while
// it still occupies its site.
func (f *CoulombField) RemoveCharge(p *Particle) { f.applyCharge(p, -1) }

// MoveCharge incrementally updates the field when p hops from its
// current site to dst: subtract its contributions at the old site, move
// it, add contributions at the new site. Only sites within cutoff of
// either endpoint are touched (§4.3). Caller is responsible for updating
// lattice occupancy (Site.Occupant) around this call.
func (f *CoulombField) MoveCharge(p *Particle, dst SiteID) {
	f.RemoveCharge(p)
	p.CurrentSite = dst
	f.AddCharge(p)
}
