package kmc

import "math"

// SiteType distinguishes donor from acceptor sites.
type SiteType int

const (
	Donor SiteType = iota
	Acceptor
)

func (t SiteType) String() string {
	if t == Donor {
		return "donor"
	}
	return "acceptor"
}

// SiteID indexes a Site within a Lattice. Topology is immutable once the
// lattice is built, so SiteID never needs a generation counter the way
// ParticleID does.
type SiteID int

// Site is one lattice position. Coordinates and Type are fixed at
// construction; Energy and Occupant mutate over the run.
type Site struct {
	X, Y, Z int
	Type    SiteType

	// Energy is E_s in eV, set at init by the disorder generator or a
	// morphology override and not changed afterwards. The Coulomb field
	// keeps its contribution separately (CoulombField.At) and never
	// writes it here.
	Energy float64

	// Occupant is the particle currently on this site, or NoParticle.
	Occupant ParticleID
}

// Architecture selects how SiteType is assigned across the lattice.
type Architecture int

const (
	ArchitectureNeat Architecture = iota
	ArchitectureBilayer
	ArchitectureBlend
)

// LatticeConfig describes the geometry and film architecture of a Lattice.
type LatticeConfig struct {
	L, W, H int // site counts along x, y, z
	UnitNM  float64

	PeriodicX, PeriodicY, PeriodicZ bool

	Architecture Architecture
	// DonorThickness / AcceptorThickness are used when Architecture is
	// ArchitectureBilayer; a slab of DonorThickness layers (z=0 upward)
	// is donor, the remainder acceptor.
	DonorThickness, AcceptorThickness int
	// AcceptorConc is used when Architecture is ArchitectureBlend and no
	// morphology source is supplied: the per-site probability a random
	// blend site is acceptor.
	AcceptorConc float64
}

// Lattice is a dense 3D grid of Sites.
type Lattice struct {
	cfg   LatticeConfig
	sites []Site // length L*W*H, indexed by index(x,y,z)
}

// NewLattice allocates a Lattice and assigns SiteType per cfg.Architecture.
// rng drives random-blend assignment; it is unused for neat and bilayer
// architectures. Energies are left at zero; call a disorder generator
// next.
func NewLattice(cfg LatticeConfig, blendRNG RandSource) *Lattice {
	n := cfg.L * cfg.W * cfg.H
	lat := &Lattice{cfg: cfg, sites: make([]Site, n)}
	for z := 0; z < cfg.H; z++ {
		for y := 0; y < cfg.W; y++ {
			for x := 0; x < cfg.L; x++ {
				id := lat.index(x, y, z)
				lat.sites[id] = Site{X: x, Y: y, Z: z, Occupant: NoParticle}
			}
		}
	}
	switch cfg.Architecture {
	case ArchitectureNeat:
		for i := range lat.sites {
			lat.sites[i].Type = Donor
		}
	case ArchitectureBilayer:
		for i := range lat.sites {
			if lat.sites[i].Z < cfg.DonorThickness {
				lat.sites[i].Type = Donor
			} else {
				lat.sites[i].Type = Acceptor
			}
		}
	case ArchitectureBlend:
		for i := range lat.sites {
			if blendRNG.Float64() < cfg.AcceptorConc {
				lat.sites[i].Type = Acceptor
			} else {
				lat.sites[i].Type = Donor
			}
		}
	}
	return lat
}

// ImportMorphology overwrites site types (and, where present, energies)
// from an external source. The lattice never parses a morphology file
// itself (§6): it only consumes the narrow iteration interface.
func ImportMorphology(lat *Lattice, src MorphologySource) error {
	return src.Each(func(index int, t SiteType, energy *float64) error {
		if index < 0 || index >= len(lat.sites) {
			return newSimError(ErrOccupancyViolation, 0, "morphology index %d out of range", index)
		}
		lat.sites[index].Type = t
		if energy != nil {
			lat.sites[index].Energy = *energy
		}
		return nil
	})
}

// MorphologySource is the interface the lattice requires from the
// file-handling collaborator that reads a morphology file (§6): iteration
// over site indices with (type, optional energy override), nothing more.
type MorphologySource interface {
	Each(func(index int, t SiteType, energy *float64) error) error
}

// RandSource is the minimal surface NewLattice needs from *rand.Rand,
// so callers can pass a subsystem RNG (see PartitionedRNG) without this
// package importing math/rand directly.
type RandSource interface {
	Float64() float64
}

func (l *Lattice) index(x, y, z int) SiteID {
	return SiteID((z*l.cfg.W+y)*l.cfg.L + x)
}

// Dims returns L, W, H.
func (l *Lattice) Dims() (int, int, int) { return l.cfg.L, l.cfg.W, l.cfg.H }

// Config returns the lattice's geometry configuration.
func (l *Lattice) Config() LatticeConfig { return l.cfg }

// NumSites returns the total number of sites.
func (l *Lattice) NumSites() int { return len(l.sites) }

// Site returns a pointer to the mutable Site at id. Valid for the
// lifetime of the Lattice.
func (l *Lattice) Site(id SiteID) *Site { return &l.sites[id] }

// SiteAt looks up the site at (x,y,z), applying periodic wrap on
// periodic axes. ok is false if the coordinate falls outside a
// non-periodic axis.
func (l *Lattice) SiteAt(x, y, z int) (SiteID, bool) {
	x, okx := l.wrap(x, l.cfg.L, l.cfg.PeriodicX)
	y, oky := l.wrap(y, l.cfg.W, l.cfg.PeriodicY)
	z, okz := l.wrap(z, l.cfg.H, l.cfg.PeriodicZ)
	if !okx || !oky || !okz {
		return 0, false
	}
	return l.index(x, y, z), true
}

func (l *Lattice) wrap(c, dim int, periodic bool) (int, bool) {
	if c >= 0 && c < dim {
		return c, true
	}
	if !periodic {
		return 0, false
	}
	m := c % dim
	if m < 0 {
		m += dim
	}
	return m, true
}

// IsBoundary reports whether site id sits on a non-periodic boundary
// along axis ("x", "y", or "z"). Non-periodic boundaries never wrap;
// electrodes only ever exist on non-periodic z faces (§4.1).
func (l *Lattice) IsBoundary(id SiteID, axis string) bool {
	s := l.sites[id]
	switch axis {
	case "x":
		return !l.cfg.PeriodicX && (s.X == 0 || s.X == l.cfg.L-1)
	case "y":
		return !l.cfg.PeriodicY && (s.Y == 0 || s.Y == l.cfg.W-1)
	case "z":
		return !l.cfg.PeriodicZ && (s.Z == 0 || s.Z == l.cfg.H-1)
	default:
		return false
	}
}

// IsElectrode reports whether id is on the z=0 or z=H-1 electrode layer.
// Electrodes only exist when z is non-periodic (§4.1).
func (l *Lattice) IsElectrode(id SiteID) bool {
	if l.cfg.PeriodicZ {
		return false
	}
	s := l.sites[id]
	return s.Z == 0 || s.Z == l.cfg.H-1
}

// Neighbors returns every site within Manhattan radius of src, honoring
// periodic wrap on periodic axes and excluding src itself. radius is in
// discrete lattice units.
func (l *Lattice) Neighbors(src SiteID, radius int) []SiteID {
	s := l.sites[src]
	out := make([]SiteID, 0, (2*radius+1)*(2*radius+1)*(2*radius+1))
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if absInt(dx)+absInt(dy)+absInt(dz) > radius {
					continue
				}
				if id, ok := l.SiteAt(s.X+dx, s.Y+dy, s.Z+dz); ok {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// Displacement returns the real-space vector (nm) from src to dst,
// honoring the minimum-image convention on periodic axes.
func (l *Lattice) Displacement(src, dst SiteID) (dx, dy, dz float64) {
	a := l.cfg.UnitNM
	s, d := l.sites[src], l.sites[dst]
	dx = a * minImage(d.X-s.X, l.cfg.L, l.cfg.PeriodicX)
	dy = a * minImage(d.Y-s.Y, l.cfg.W, l.cfg.PeriodicY)
	dz = a * minImage(d.Z-s.Z, l.cfg.H, l.cfg.PeriodicZ)
	return
}

// Distance returns the real-space Euclidean distance (nm) between src
// and dst honoring minimum-image wrap.
func (l *Lattice) Distance(src, dst SiteID) float64 {
	dx, dy, dz := l.Displacement(src, dst)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func minImage(delta, dim int, periodic bool) float64 {
	if !periodic {
		return float64(delta)
	}
	if delta > dim/2 {
		delta -= dim
	} else if delta < -dim/2 {
		delta += dim
	}
	return float64(delta)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
