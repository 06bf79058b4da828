package results

import (
	"fmt"
	"io"
	"time"

	"github.com/kmc-sim/kmc-sim/config"
	"github.com/kmc-sim/kmc-sim/kmc"
)

// WriteWorkerResults writes one worker's results report (§6): elapsed
// wall time, simulated time, event count, and test-specific metrics
// mirroring the reference implementation's per-processor results file.
func WriteWorkerResults(w io.Writer, elapsed time.Duration, sim *kmc.Simulator, sel config.TestSelection, runErr error) error {
	lines := []string{
		fmt.Sprintf("Calculation time elapsed is %.4f minutes.", elapsed.Minutes()),
		fmt.Sprintf("%.6g seconds have been simulated.", sim.TNow),
		fmt.Sprintf("%d events have been executed.", sim.EventCount),
	}
	if runErr != nil {
		lines = append(lines, "An error occurred during the simulation:", runErr.Error())
		return writeLines(w, lines)
	}

	acc := sim.Acc
	switch {
	case sel.ExcitonDiffusion:
		avg, sd := meanStdDev(acc.DiffusionLengthsNM)
		lines = append(lines,
			"Exciton diffusion test results:",
			fmt.Sprintf("%d excitons have been created.", acc.ExcitonsCreated),
			fmt.Sprintf("Exciton diffusion length is %.6g +/- %.6g nm.", avg, sd),
		)
	case sel.ToF:
		times, collected, created := acc.TransitTimesElectron, acc.ElectronsCollected, sel.ToFInitialPolarons
		carrier := "electrons"
		if sel.ToFPolaronKind == kmc.KindHolePolaron {
			times, collected, carrier = acc.TransitTimesHole, acc.HolesCollected, "holes"
		}
		tAvg, tSd := meanStdDev(times)
		mAvg, mSd := meanStdDev(Mobility(sim, times))
		lines = append(lines,
			"Time-of-flight charge transport test results:",
			fmt.Sprintf("%d of %d %s have been collected.", collected, created, carrier),
			fmt.Sprintf("Transit time is %.6g +/- %.6g s.", tAvg, tSd),
			fmt.Sprintf("Charge carrier mobility is %.6g +/- %.6g cm^2 V^-1 s^-1.", mAvg, mSd),
		)
	case sel.Dynamics:
		lines = append(lines,
			"Dynamics test results:",
			fmt.Sprintf("%d initial excitons were created.", acc.ExcitonsCreated),
		)
	case sel.IQE:
		lines = append(lines,
			"Internal quantum efficiency test results:",
			fmt.Sprintf("%d excitons have been created.", acc.ExcitonsCreated),
		)
	}
	if sel.IQE || sel.Dynamics {
		lines = append(lines,
			fmt.Sprintf("%.6g%% of excitons have dissociated.", pct(acc.ExcitonsDissociated, acc.ExcitonsCreated)),
			fmt.Sprintf("%.6g%% of excitons relaxed to the ground state as singlets.", pct(acc.SingletsRecombined, acc.ExcitonsCreated)),
			fmt.Sprintf("%.6g%% of excitons relaxed to the ground state as triplets.", pct(acc.TripletsRecombined, acc.ExcitonsCreated)),
			fmt.Sprintf("%.6g%% of excitons were lost to exciton-exciton annihilation.", pct(acc.AnnihilationLossesEE, acc.ExcitonsCreated)),
			fmt.Sprintf("%.6g%% of excitons were lost to exciton-polaron annihilation.", pct(acc.AnnihilationLossesEP, acc.ExcitonsCreated)),
			fmt.Sprintf("%.6g%% of photogenerated charges were lost to geminate recombination.", pct(acc.GeminateRecombined, acc.ExcitonsDissociated)),
			fmt.Sprintf("%.6g%% of photogenerated charges were lost to bimolecular recombination.", pct(acc.BimolecularRecombined, acc.ExcitonsDissociated)),
			fmt.Sprintf("%.6g%% of photogenerated charges were extracted.", pct(acc.ElectronsCollected+acc.HolesCollected, 2*acc.ExcitonsDissociated)),
		)
	}
	if sel.IQE {
		lines = append(lines, fmt.Sprintf("IQE = %.6g%%.", pct(acc.ElectronsCollected+acc.HolesCollected, 2*acc.ExcitonsCreated)))
	}
	return writeLines(w, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
