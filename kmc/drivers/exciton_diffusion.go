package drivers

import "github.com/kmc-sim/kmc-sim/kmc"

// ExcitonDiffusion seeds NTests singlet excitons one at a time at random
// sites, running each to relaxation before the next is injected, per
// §4.7. Diffusion length per trial is recorded by the engine itself
// (kmc.Accumulators.DiffusionLengthsNM, appended on every relaxation) —
// the driver only supplies the injection and stop conditions.
type ExcitonDiffusion struct {
	NTests int

	injected int
}

func (d *ExcitonDiffusion) Seed(s *kmc.Simulator) error {
	d.injected = 0
	d.injectNext(s)
	return nil
}

// IsFinished injects the next trial once the current one has relaxed
// (no live particles), stopping once NTests trials have run.
func (d *ExcitonDiffusion) IsFinished(s *kmc.Simulator) bool {
	if s.Registry.Live() > 0 {
		return false
	}
	if d.injected >= d.NTests {
		return true
	}
	return !d.injectNext(s)
}

func (d *ExcitonDiffusion) injectNext(s *kmc.Simulator) bool {
	site, ok := randomUnoccupiedSite(s)
	if !ok {
		return false
	}
	s.InjectExciton(kmc.KindSingletExciton, site, kmc.NoParticle)
	d.injected++
	return true
}
