package drivers

import "github.com/kmc-sim/kmc-sim/kmc"

// TimeOfFlight pre-loads InitialPolarons carriers of one kind in the top
// lattice layer under the internal field, then runs until every carrier
// is collected or ExpirySeconds elapses (§4.7). Running N_transient_cycles
// independent copies of this driver, each against a fresh Simulator seed
// or morphology realization, is the caller's responsibility (§6); the
// driver itself governs one cycle.
type TimeOfFlight struct {
	PolaronKind     kmc.ParticleKind // KindElectronPolaron or KindHolePolaron
	InitialPolarons int
	ExpirySeconds   float64
}

// Seed rejects a configuration where no field and periodic z leave
// transit undefined (§8 "zero-field ToF"), then pre-loads carriers at
// z=H-1.
func (d *TimeOfFlight) Seed(s *kmc.Simulator) error {
	lat := s.Params.Lattice
	if s.Params.Energetics.Coulomb.InternalPotentialV == 0 && lat.PeriodicZ {
		return &kmc.SimError{
			Kind:    kmc.ErrDriverMisconfigured,
			Message: "time-of-flight requires a nonzero internal potential when z is periodic: transit time is undefined",
		}
	}
	_, _, h := s.Lattice.Dims()
	top := h - 1
	for i := 0; i < d.InitialPolarons; i++ {
		site, ok := randomUnoccupiedAtZ(s, top)
		if !ok {
			break
		}
		s.InjectPolaron(d.PolaronKind, site)
	}
	return nil
}

func (d *TimeOfFlight) IsFinished(s *kmc.Simulator) bool {
	return s.Registry.Live() == 0 || s.TNow >= d.ExpirySeconds
}
