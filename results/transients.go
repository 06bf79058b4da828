package results

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kmc-sim/kmc-sim/kmc"
)

// WriteToFTransients writes the time-of-flight carrier-density transient
// (§6): one row per time-axis bin, summed across every successful
// worker's Accumulators and normalized by the total simulated volume.
// Current and per-bin mobility require per-hop velocity bookkeeping this
// simulator does not retain (only the scalar mobility in the worker
// results report is computed, from whole-trajectory transit times), so
// this transient reports carrier density and average energy only.
func WriteToFTransients(w io.Writer, axis *kmc.TimeAxis, accs []*kmc.Accumulators, volumeTotal float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_s", "electron_density_cm3", "hole_density_cm3", "average_energy_ev"}); err != nil {
		return err
	}
	n := axis.NumBins()
	for i := 0; i < n; i++ {
		var electrons, holes int
		var energy float64
		var samples int
		for _, a := range accs {
			if a == nil || i >= len(a.Snapshots) {
				continue
			}
			snap := a.Snapshots[i]
			electrons += snap.Electrons
			holes += snap.Holes
			energy += snap.SummedEnergyEV
			samples++
		}
		row := make([]string, 4)
		if len(accs) > 0 && i < len(accs[0].Snapshots) {
			row[0] = strconv.FormatFloat(accs[0].Snapshots[i].T, 'g', -1, 64)
		}
		if volumeTotal > 0 {
			row[1] = strconv.FormatFloat(float64(electrons)/volumeTotal, 'g', -1, 64)
			row[2] = strconv.FormatFloat(float64(holes)/volumeTotal, 'g', -1, 64)
		} else {
			row[1], row[2] = "0", "0"
		}
		if samples > 0 {
			row[3] = strconv.FormatFloat(energy/float64(samples), 'g', -1, 64)
		} else {
			row[3] = "NaN"
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDynamicsTransients writes the dynamics-test population/energy/MSD
// transient (§6): one row per time-axis bin, species densities summed
// across every successful worker and normalized by total volume.
func WriteDynamicsTransients(w io.Writer, axis *kmc.TimeAxis, accs []*kmc.Accumulators, volumeTotal float64) error {
	cw := csv.NewWriter(w)
	header := []string{
		"time_s", "singlet_density_cm3", "triplet_density_cm3",
		"electron_density_cm3", "hole_density_cm3",
		"average_exciton_energy_ev", "msd_nm2",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	n := axis.NumBins()
	for i := 0; i < n; i++ {
		var singlets, triplets, electrons, holes int
		var energy, msd float64
		var t float64
		var samples int
		for _, a := range accs {
			if a == nil || i >= len(a.Snapshots) {
				continue
			}
			snap := a.Snapshots[i]
			t = snap.T
			singlets += snap.Singlets
			triplets += snap.Triplets
			electrons += snap.Electrons
			holes += snap.Holes
			energy += snap.SummedEnergyEV
			msd += snap.SummedMSDnm2
			samples++
		}
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		if volumeTotal > 0 {
			row = append(row,
				strconv.FormatFloat(float64(singlets)/volumeTotal, 'g', -1, 64),
				strconv.FormatFloat(float64(triplets)/volumeTotal, 'g', -1, 64),
				strconv.FormatFloat(float64(electrons)/volumeTotal, 'g', -1, 64),
				strconv.FormatFloat(float64(holes)/volumeTotal, 'g', -1, 64),
			)
		} else {
			row = append(row, "0", "0", "0", "0")
		}
		if samples > 0 {
			row = append(row,
				strconv.FormatFloat(energy/float64(samples), 'g', -1, 64),
				strconv.FormatFloat(msd/float64(samples), 'g', -1, 64),
			)
		} else {
			row = append(row, "NaN", "NaN")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
