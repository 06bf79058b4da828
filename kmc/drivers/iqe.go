package drivers

import "github.com/kmc-sim/kmc-sim/kmc"

// IQE runs generation under an internal potential until TimeCutoffS,
// computing internal quantum efficiency as (electrons_collected +
// holes_collected)/(2*excitons_created) from the engine's accumulators
// once the run stops (§4.7). ExtractionMapOutput is carried on the
// struct but not read by the driver or the engine; cmd decides from
// config.TestSelection.ExtractionMapOutput whether to write the
// (x,y,count) extraction map alongside the results file (§6).
type IQE struct {
	TimeCutoffS         float64
	ExtractionMapOutput bool
}

func (d *IQE) Seed(s *kmc.Simulator) error {
	s.EnableGeneration()
	return nil
}

func (d *IQE) IsFinished(s *kmc.Simulator) bool {
	return s.TNow >= d.TimeCutoffS
}

// Value computes IQE from a finished Simulator's accumulators.
func Value(s *kmc.Simulator) float64 {
	if s.Acc.ExcitonsCreated == 0 {
		return 0
	}
	return float64(s.Acc.ElectronsCollected+s.Acc.HolesCollected) / (2 * float64(s.Acc.ExcitonsCreated))
}
