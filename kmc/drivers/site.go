package drivers

import "github.com/kmc-sim/kmc-sim/kmc"

// randomUnoccupiedSite scans the lattice from a random starting index for
// an empty site, wrapping around once. Used for seeding a single
// particle at a lattice-wide random location (exciton diffusion,
// dynamics).
func randomUnoccupiedSite(s *kmc.Simulator) (kmc.SiteID, bool) {
	rng := s.RNG.ForSubsystem(kmc.SubsystemDriver)
	n := s.Lattice.NumSites()
	if n == 0 {
		return 0, false
	}
	start := rng.Intn(n)
	for i := 0; i < n; i++ {
		id := kmc.SiteID((start + i) % n)
		if s.Lattice.Site(id).Occupant == kmc.NoParticle {
			return id, true
		}
	}
	return 0, false
}

// randomUnoccupiedAtZ scans a fixed z layer from a random (x,y) start for
// an empty site, wrapping around once. Used by the time-of-flight driver
// to pre-load carriers in the top layer.
func randomUnoccupiedAtZ(s *kmc.Simulator, z int) (kmc.SiteID, bool) {
	rng := s.RNG.ForSubsystem(kmc.SubsystemDriver)
	l, w, _ := s.Lattice.Dims()
	n := l * w
	if n == 0 {
		return 0, false
	}
	start := rng.Intn(n)
	for i := 0; i < n; i++ {
		p := (start + i) % n
		x, y := p%l, p/l
		id, ok := s.Lattice.SiteAt(x, y, z)
		if ok && s.Lattice.Site(id).Occupant == kmc.NoParticle {
			return id, true
		}
	}
	return 0, false
}
